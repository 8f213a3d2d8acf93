package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/zerr"
)

// FileSystem implements ports.FileSystem on the local disk.
type FileSystem struct {
	walker *Walker
}

// NewFileSystem creates a new FileSystem.
func NewFileSystem(walker *Walker) *FileSystem {
	return &FileSystem{walker: walker}
}

// Exists reports whether a regular file exists at path.
func (f *FileSystem) Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	return info.Mode().IsRegular(), nil
}

// EnsureDir creates the directory and its parents.
func (f *FileSystem) EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

// Copy copies src to dst, replacing dst. Identical content is left untouched.
func (f *FileSystem) Copy(src, dst string) error {
	if sameContent(src, dst) {
		return nil
	}

	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Read-only handle

	if err := f.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	out, err := os.Create(dst) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination"), "path", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.With(zerr.Wrap(err, "failed to copy file"), "src", src), "dst", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close destination"), "path", dst)
	}
	return nil
}

// Glob returns the files below root whose relative slash path matches pattern, sorted.
func (f *FileSystem) Glob(root, pattern string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to stat glob root"), "path", root)
	}
	if !info.IsDir() {
		return nil, zerr.With(zerr.New("glob root is not a directory"), "path", root)
	}

	var matches []string
	for path := range f.walker.WalkFiles(root, nil) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if Match(pattern, filepath.ToSlash(rel)) {
			matches = append(matches, path)
		}
	}
	slices.Sort(matches)
	return matches, nil
}
