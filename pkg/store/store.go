package store

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/carton/pkg/errors"
	"github.com/arthur-debert/carton/pkg/logging"
	"github.com/arthur-debert/carton/pkg/types"
)

// BackupSuffix is appended to quarantined files
const BackupSuffix = ".bak"

// BackupName returns the name a file is quarantined under
func BackupName(path string) string {
	return path + BackupSuffix
}

// Read loads a tree. A missing file is an empty tree; content that cannot
// be decoded is ErrCorruptState.
func Read(fs types.FS, path string) (types.Tree, error) {
	codec, err := CodecFor(path)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger := logging.GetLogger("store")
			logger.Debug().Str("path", path).Msg("No stored tree, starting empty")
			return types.Tree{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read '%s'", path).
			WithDetail("path", path)
	}

	t, err := codec.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCorruptState, "corrupt file '%s'", path).
			WithDetail("path", path)
	}
	if t == nil {
		t = types.Tree{}
	}
	return t, nil
}

// Quarantine moves a corrupt file out of the way and returns where it went.
// An older backup is replaced.
func Quarantine(fs types.FS, path string) (string, error) {
	backup := BackupName(path)
	if _, err := fs.Lstat(backup); err == nil {
		if err := fs.Remove(backup); err != nil {
			return "", errors.Wrapf(err, errors.ErrStateWrite, "cannot replace backup '%s'", backup)
		}
	}
	if err := fs.Rename(path, backup); err != nil {
		return "", errors.Wrapf(err, errors.ErrStateWrite, "cannot move '%s' to '%s'", path, backup).
			WithDetail("path", path)
	}

	logger := logging.GetLogger("store")
	logger.Info().Str("path", path).Str("backup", backup).Msg("Quarantined corrupt file")
	return backup, nil
}

// Write serializes a tree, creating the parent directory when needed
func Write(fs types.FS, path string, t types.Tree) error {
	codec, err := CodecFor(path)
	if err != nil {
		return err
	}
	if t == nil {
		t = types.Tree{}
	}

	data, err := codec.Encode(t)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "cannot encode '%s'", path).
			WithDetail("path", path)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create directory for '%s'", path)
	}
	if err := fs.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "cannot write '%s'", path).
			WithDetail("path", path)
	}
	return nil
}
