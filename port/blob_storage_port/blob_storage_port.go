package blob_storage_port

//go:generate go run go.uber.org/mock/mockgen -source=blob_storage_port.go -destination=../../mocks/mock_blob_storage_port.go -package=mocks

import (
	"context"
	"time"
)

// ObjectInfo is the storage-level metadata of one stored record.
type ObjectInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// BlobStoragePort is the byte-level storage a cache backend provides.
// Keys are checksums; backends never see decoded entries.
type BlobStoragePort interface {
	// Put stores data under key so that readers see either the old or the new value.
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the stored bytes or an error wrapping ErrCacheEntryNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// List scans every stored record.
	List(ctx context.Context) ([]ObjectInfo, error)
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
