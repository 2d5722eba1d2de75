package store

import (
	"path/filepath"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/logging"
	"github.com/arthur-debert/carton/pkg/types"
)

// CorruptFileWarning is shown when a file is quarantined
const CorruptFileWarning = "Warning! File '%s' could not be loaded as expected. " +
	"The original file was moved to %s, and empty data is used instead."

// File is a tree file a module persists. The module claims the file, named
// by its base name, as a resource on the host for as long as it is open.
type File struct {
	host  types.Host
	owner types.Module
	path  string

	open   bool
	backup string
}

// NewFile describes the tree file at path owned by owner
func NewFile(host types.Host, owner types.Module, path string) *File {
	return &File{host: host, owner: owner, path: path}
}

// Path returns the file location
func (f *File) Path() string {
	return f.path
}

// Resource returns the resource name guarding the file
func (f *File) Resource() string {
	return filepath.Base(f.path)
}

// IsOpen reports whether the file is claimed
func (f *File) IsOpen() bool {
	return f.open
}

// Open claims the file and reads it. Corrupt content is quarantined under
// a backup name, also claimed, and an empty tree is returned.
func (f *File) Open() (types.Tree, error) {
	if err := f.host.Acquire(f.owner, f.Resource()); err != nil {
		return nil, err
	}
	f.open = true

	t, err := Read(f.host.FS(), f.path)
	if err == nil {
		return t, nil
	}
	if !errors.IsErrorCode(err, errors.ErrCorruptState) {
		return nil, err
	}

	backupResource := filepath.Base(BackupName(f.path))
	if err := f.host.Acquire(f.owner, backupResource); err != nil {
		return nil, err
	}
	f.backup = backupResource

	backup, qerr := Quarantine(f.host.FS(), f.path)
	if qerr != nil {
		return nil, qerr
	}

	logger := logging.GetLogger("store")
	logger.Warn().
		Str("path", f.path).
		Str("backup", backup).
		Msgf(CorruptFileWarning, f.path, backup)
	return types.Tree{}, nil
}

// Close writes t when it is not nil and gives up the file and its backup.
// Closing a file that is not open does nothing.
func (f *File) Close(t types.Tree) error {
	if !f.open {
		return nil
	}

	var writeErr error
	if t != nil {
		writeErr = Write(f.host.FS(), f.path, t)
	}

	f.open = false
	if err := f.host.Release(f.owner, f.Resource()); err != nil && writeErr == nil {
		writeErr = err
	}

	if f.backup != "" {
		err := f.host.Release(f.owner, f.backup)
		if err != nil && !errors.IsErrorCode(err, errors.ErrResourceFree) && writeErr == nil {
			writeErr = err
		}
		f.backup = ""
	}
	return writeErr
}
