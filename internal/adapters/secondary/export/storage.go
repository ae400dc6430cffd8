package export

import (
	"os"
	"path/filepath"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// outputFileMode is applied to the finished file; temp files start as 0600
const outputFileMode os.FileMode = 0644

// Storage writes finished artifacts atomically: bytes go to a temporary file in the
// target directory which is then renamed over the destination
type Storage struct {
	fs ports.FileSystem
}

// NewStorage creates a storage writing through fs
func NewStorage(fs ports.FileSystem) *Storage {
	if fs == nil {
		fs = ports.NewRealFileSystem()
	}
	return &Storage{fs: fs}
}

// Write persists data at path and returns the number of bytes written. With
// overwrite disabled an existing file fails with a StorageWriteError wrapping
// os.ErrExist. Every failure is a StorageWriteError.
func (s *Storage) Write(path string, data []byte, overwrite bool) (int64, error) {
	path = filepath.Clean(path)

	if !overwrite && s.fs.Exists(path) {
		return 0, &entities.StorageWriteError{Path: path, Op: "create", Err: os.ErrExist}
	}

	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0750); err != nil {
		return 0, &entities.StorageWriteError{Path: path, Op: "mkdir", Err: err}
	}

	tmp, err := s.fs.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, &entities.StorageWriteError{Path: path, Op: "create", Err: err}
	}
	tmpName := tmp.Name()

	fail := func(op string, cause error) (int64, error) {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return 0, &entities.StorageWriteError{Path: path, Op: op, Err: cause}
	}

	n, err := tmp.Write(data)
	if err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Chmod(outputFileMode); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return 0, &entities.StorageWriteError{Path: path, Op: "close", Err: err}
	}

	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return 0, &entities.StorageWriteError{Path: path, Op: "rename", Err: err}
	}

	return int64(n), nil
}
