package fs_store_driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/robmiller/expurgate/domain"
	"github.com/robmiller/expurgate/port/blob_storage_port"
	apperrors "github.com/robmiller/expurgate/utils/errors"
)

const (
	// RecordExtension is appended to the checksum to form an entry file name.
	RecordExtension = ".json"
	tempPrefix      = ".tmp-"
)

// FSStoreDriver keeps one record file per checksum in a flat directory.
type FSStoreDriver struct {
	fs billy.Filesystem
}

// NewFSStoreDriver wraps an existing billy filesystem rooted at the cache directory.
func NewFSStoreDriver(bfs billy.Filesystem) *FSStoreDriver {
	return &FSStoreDriver{fs: bfs}
}

// NewOSStoreDriver creates the cache directory if needed and stores records in it.
func NewOSStoreDriver(dir string) (*FSStoreDriver, error) {
	bfs := osfs.New(dir)
	if err := bfs.MkdirAll(".", 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %q: %w", dir, err)
	}
	return NewFSStoreDriver(bfs), nil
}

// RecordName returns the file name for a checksum.
func RecordName(key string) string {
	return key + RecordExtension
}

// Put writes to a temp file in the same directory and renames it into place,
// so readers never observe a partially written record.
func (d *FSStoreDriver) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !domain.IsValidChecksum(key) {
		return apperrors.NewValidationContextError("invalid record key", "driver", "FSStoreDriver", "Put", map[string]interface{}{
			"key": key,
		})
	}

	tmp, err := d.fs.TempFile("", tempPrefix)
	if err != nil {
		return d.storageError("failed to create temp file", "Put", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = d.fs.Remove(tmpName)
		return d.storageError("failed to write temp file", "Put", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = d.fs.Remove(tmpName)
		return d.storageError("failed to close temp file", "Put", key, err)
	}

	if err := d.fs.Rename(tmpName, RecordName(key)); err != nil {
		_ = d.fs.Remove(tmpName)
		return d.storageError("failed to rename temp file", "Put", key, err)
	}

	return nil
}

func (d *FSStoreDriver) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !domain.IsValidChecksum(key) {
		return nil, apperrors.NewCacheEntryNotFoundError("driver", "FSStoreDriver", "Get", map[string]interface{}{"key": key})
	}

	data, err := util.ReadFile(d.fs, RecordName(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewCacheEntryNotFoundError("driver", "FSStoreDriver", "Get", map[string]interface{}{"key": key})
		}
		return nil, d.storageError("failed to read record", "Get", key, err)
	}

	return data, nil
}

// List scans the directory for record files. The key file, temp files and
// anything else that is not "<checksum>.json" is skipped.
func (d *FSStoreDriver) List(ctx context.Context) ([]blob_storage_port.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := d.fs.ReadDir(".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, d.storageError("failed to read cache dir", "List", "", err)
	}

	objects := make([]blob_storage_port.ObjectInfo, 0, len(infos))
	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}
		key, ok := strings.CutSuffix(info.Name(), RecordExtension)
		if !ok || !domain.IsValidChecksum(key) {
			continue
		}
		objects = append(objects, blob_storage_port.ObjectInfo{
			Key:     key,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return objects, nil
}

func (d *FSStoreDriver) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !domain.IsValidChecksum(key) {
		return nil
	}

	if err := d.fs.Remove(RecordName(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return d.storageError("failed to remove record", "Remove", key, err)
	}
	return nil
}

func (d *FSStoreDriver) storageError(message, operation, key string, cause error) error {
	return apperrors.NewStorageUnavailableError(message, "driver", "FSStoreDriver", operation, cause, map[string]interface{}{
		"key":     key,
		"backend": "fs",
	})
}
