package dropstore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/dropsrv/drop/internal/fsutil"
	"github.com/dropsrv/drop/log"
)

var persistLogger = log.WithContext("pkg", "dropstore-persist")

// persistence presents a flat namespace of blob files under a single
// storage directory. Names are always full hash strings handed down by the
// core; no subdirectories, no metadata files.
type persistence struct {
	dir string
}

// newPersistence ensures dir exists (creating it, non-recursively, if
// missing) and returns a persistence bound to it. Any other pre-existing
// state — a file in the way, an unreadable directory — is fatal at
// startup.
func newPersistence(dir string) (*persistence, error) {
	exists, err := fsutil.PathExists(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "stat storage directory %q", dir)
	}
	if !exists {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "create storage directory %q", dir)
		}
		return &persistence{dir: dir}, nil
	}
	isDir, err := fsutil.IsDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "stat storage directory %q", dir)
	}
	if !isDir {
		return nil, errors.Errorf("storage path %q exists and is not a directory", dir)
	}
	return &persistence{dir: dir}, nil
}

func validateName(name string) error {
	if name == "" || strings.ContainsRune(name, filepath.Separator) || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return nil
}

// write performs a create-or-truncate write of bytes under name. Atomic
// write semantics are not required: the entry table's single lock
// guarantees no two writers ever collide on the same name.
func (p *persistence) write(name string, data []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.WriteFile(p.path(name), data, 0o644); err != nil {
		return errors.Wrapf(err, "write blob %q", name)
	}
	persistLogger.Trace("wrote blob", "name", name, "bytes", len(data))
	return nil
}

// read returns the contents of the file named name. Fails if it does not
// exist.
func (p *persistence) read(name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p.path(name))
	if err != nil {
		return nil, errors.Wrapf(err, "read blob %q", name)
	}
	return data, nil
}

// remove deletes the file named name. Fails if it does not exist. The
// expiry task logs such a failure and carries on; Store (when replacing a
// persistent entry) and Remove return it wrapped in ErrStorageIO.
func (p *persistence) remove(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(p.path(name)); err != nil {
		return errors.Wrapf(err, "remove blob %q", name)
	}
	return nil
}

func (p *persistence) path(name string) string {
	return filepath.Join(p.dir, name)
}
