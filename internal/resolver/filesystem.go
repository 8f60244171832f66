package resolver

import "os"

// FileSystem is the view of the document root the resolver needs.
// Paths are passed exactly as resolved, without cleaning.
type FileSystem interface {
	// Exists reports whether something exists at path.
	Exists(path string) bool

	// IsDir reports whether path is an existing directory.
	IsDir(path string) bool

	// ReadFile returns the full contents of the file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem resolves paths against the process working directory.
type OSFileSystem struct{}

// Exists follows symlinks. Any stat failure, including permission errors,
// counts as absent.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
