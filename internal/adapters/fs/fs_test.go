package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kerntune/internal/adapters/fs"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config")
	writeFile(t, filepath.Join(tmpDir, "ignored", "file"), "ignored content")
	writeFile(t, filepath.Join(tmpDir, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Readme")

	files := make(map[string]bool)
	for path := range fs.NewWalker().WalkFiles(tmpDir, []string{"ignored"}) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = true
	}

	assert.Equal(t, map[string]bool{"src/main.go": true, "README.md": true}, files)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"**/*.yaml", "a.yaml", true},
		{"**/*.yaml", "aldebaran/Equality/a.yaml", true},
		{"**/*.yaml", "a.yml", false},
		{"*.s", "kernel.s", true},
		{"*.s", "sub/kernel.s", false},
		{"a/**/b/*.csv", "a/b/x.csv", true},
		{"a/**/b/*.csv", "a/1/2/b/x.csv", true},
		{"a/**/b/*.csv", "a/1/2/c/x.csv", false},
		{"**", "any/thing", true},
		{"[", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"|"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fs.Match(tt.pattern, tt.name))
		})
	}
}

func TestFileSystem_Glob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.yaml"), "")
	writeFile(t, filepath.Join(root, "navi31", "a.yaml"), "")
	writeFile(t, filepath.Join(root, "navi31", "notes.txt"), "")
	writeFile(t, filepath.Join(root, "Experimental", "c.yaml"), "")

	got, err := fs.NewFileSystem(fs.NewWalker()).Glob(root, "**/*.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "Experimental", "c.yaml"),
		filepath.Join(root, "b.yaml"),
		filepath.Join(root, "navi31", "a.yaml"),
	}, got)

	_, err = fs.NewFileSystem(fs.NewWalker()).Glob(filepath.Join(root, "missing"), "*")
	assert.Error(t, err)
}

func TestFileSystem_ExistsAndEnsureDir(t *testing.T) {
	root := t.TempDir()
	files := fs.NewFileSystem(fs.NewWalker())

	dir := filepath.Join(root, "1_BenchmarkProblems", "Data")
	require.NoError(t, files.EnsureDir(dir))

	ok, err := files.Exists(dir)
	require.NoError(t, err)
	assert.False(t, ok, "directories are not files")

	file := filepath.Join(dir, "00_Final.csv")
	ok, err = files.Exists(file)
	require.NoError(t, err)
	assert.False(t, ok)

	writeFile(t, file, "size,gflops")
	ok, err = files.Exists(file)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileSystem_Copy(t *testing.T) {
	root := t.TempDir()
	files := fs.NewFileSystem(fs.NewWalker())

	src := filepath.Join(root, "Data", "00_Final.csv")
	dst := filepath.Join(root, "2_BenchmarkData", "group.csv")
	writeFile(t, src, "first")

	require.NoError(t, files.Copy(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	writeFile(t, src, "second")
	require.NoError(t, files.Copy(src, dst))
	data, err = os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	assert.Error(t, files.Copy(filepath.Join(root, "missing"), dst))
}

func TestComputeFileHash(t *testing.T) {
	root := t.TempDir()
	a, b := filepath.Join(root, "a"), filepath.Join(root, "b")
	writeFile(t, a, "same")
	writeFile(t, b, "same")

	ha, err := fs.ComputeFileHash(a)
	require.NoError(t, err)
	hb, err := fs.ComputeFileHash(b)
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	_, err = fs.ComputeFileHash(filepath.Join(root, "missing"))
	assert.Error(t, err)
}
