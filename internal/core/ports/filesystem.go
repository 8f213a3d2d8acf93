package ports

// FileSystem abstracts the file operations of the orchestrator and validation runner.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Exists reports whether a regular file exists at path.
	Exists(path string) (bool, error)

	// EnsureDir creates the directory and its parents.
	EnsureDir(path string) error

	// Copy copies a file, replacing dst.
	Copy(src, dst string) error

	// Glob returns the files under root whose slash-separated relative path matches
	// pattern, where "**" matches any number of directories. Results are sorted.
	Glob(root, pattern string) ([]string, error)
}
