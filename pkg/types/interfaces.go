package types

import (
	"io/fs"
)

// FS is the filesystem interface required for carton operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	// CreateExclusive writes a new file and fails with fs.ErrExist when
	// name is already present
	CreateExclusive(name string, data []byte, perm fs.FileMode) error
	Rename(oldpath, newpath string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error

	// Writable reports whether entries may be created inside dir
	Writable(dir string) bool

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// Pather provides the directories carton works with
type Pather interface {
	// RepositoryDir holds the user's configuration database and refs
	RepositoryDir() string

	// StateDir holds machine-local state such as tracked links
	StateDir() string

	// ConfigDir holds carton's own settings file
	ConfigDir() string
}
