package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/types"
)

// Environment variable names
const (
	// EnvCartonPath relocates every carton directory below one root
	EnvCartonPath = "CARTON_PATH"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Directory and file names. These define carton's on-disk layout and are
// not user-configurable.
const (
	// AppDirName is the directory name used under XDG base directories
	AppDirName = "carton"

	// RepositoryDirName holds the configuration database and refs
	RepositoryDirName = "repository"

	// StateDirName holds machine-local state
	StateDirName = "state"

	// ConfigDirName holds settings when a root is given
	ConfigDirName = "config"

	// LockFileName guards one live instance per state directory
	LockFileName = "carton.lock"
)

// Paths provides centralized path management for carton
type Paths interface {
	Root() string
	RepositoryDir() string
	StateDir() string
	ConfigDir() string
	LockFile() string
	RepositoryPath(name string) string
	StatePath(name string) string
	EnsureDirs(fs types.FS) error
}

type paths struct {
	root       string
	repository string
	state      string
	config     string
}

// New creates a new Paths instance. If root is empty, CARTON_PATH and then
// the XDG base directories are used.
func New(root string) (Paths, error) {
	if root == "" {
		root = os.Getenv(EnvCartonPath)
	}

	p := &paths{}
	if root != "" {
		absRoot, err := Clean(root)
		if err != nil {
			return nil, err
		}
		p.root = absRoot
		p.repository = filepath.Join(absRoot, RepositoryDirName)
		p.state = filepath.Join(absRoot, StateDirName)
		p.config = filepath.Join(absRoot, ConfigDirName)
		return p, nil
	}

	xdg.Reload()
	p.root = filepath.Join(xdg.DataHome, AppDirName)
	p.repository = filepath.Join(p.root, RepositoryDirName)
	p.state = filepath.Join(p.root, StateDirName)
	p.config = filepath.Join(xdg.ConfigHome, AppDirName)
	return p, nil
}

// Root returns the directory the repository and state live under
func (p *paths) Root() string {
	return p.root
}

// RepositoryDir returns the repository directory
func (p *paths) RepositoryDir() string {
	return p.repository
}

// StateDir returns the state directory
func (p *paths) StateDir() string {
	return p.state
}

// ConfigDir returns the settings directory
func (p *paths) ConfigDir() string {
	return p.config
}

// LockFile returns the instance lock file
func (p *paths) LockFile() string {
	return filepath.Join(p.state, LockFileName)
}

// RepositoryPath returns a file path inside the repository
func (p *paths) RepositoryPath(name string) string {
	return filepath.Join(p.repository, name)
}

// StatePath returns a file path inside the state directory
func (p *paths) StatePath(name string) string {
	return filepath.Join(p.state, name)
}

// EnsureDirs creates the repository and state directories. A file in the
// way is an error.
func (p *paths) EnsureDirs(fs types.FS) error {
	for _, dir := range []string{p.repository, p.state} {
		info, err := fs.Stat(dir)
		switch {
		case err == nil && !info.IsDir():
			return errors.Newf(errors.ErrNotDirectory, "not a directory: '%s'", dir).
				WithDetail("path", dir)
		case err == nil:
			continue
		case !os.IsNotExist(err):
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot access '%s'", dir)
		}

		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "cannot create '%s'", dir)
		}
	}
	return nil
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}

// Clean expands ~ and makes path absolute without resolving symlinks
func Clean(path string) (string, error) {
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for '%s'", path)
	}
	return abs, nil
}
