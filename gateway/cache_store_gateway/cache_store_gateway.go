package cache_store_gateway

import (
	"context"

	"github.com/robmiller/expurgate/domain"
	"github.com/robmiller/expurgate/port/blob_storage_port"
	apperrors "github.com/robmiller/expurgate/utils/errors"
)

// CacheStoreGateway turns a byte-level backend into the cache store and inventory.
type CacheStoreGateway struct {
	storage blob_storage_port.BlobStoragePort
}

func NewCacheStoreGateway(storage blob_storage_port.BlobStoragePort) *CacheStoreGateway {
	return &CacheStoreGateway{storage: storage}
}

// Exists reports whether a readable entry is stored under checksum.
func (g *CacheStoreGateway) Exists(ctx context.Context, checksum string) bool {
	_, err := g.Read(ctx, checksum)
	return err == nil
}

// Read returns the entry, or an error wrapping ErrCacheEntryNotFound or
// ErrCacheEntryCorrupt. Backend failures are passed through.
func (g *CacheStoreGateway) Read(ctx context.Context, checksum string) (*domain.CacheEntry, error) {
	if !domain.IsValidChecksum(checksum) {
		return nil, apperrors.NewCacheEntryNotFoundError("gateway", "CacheStoreGateway", "Read", map[string]interface{}{
			"checksum": checksum,
		})
	}

	data, err := g.storage.Get(ctx, checksum)
	if err != nil {
		return nil, err
	}

	rec, err := decodeRecord(data)
	if err != nil {
		return nil, apperrors.NewCacheEntryCorruptError("gateway", "CacheStoreGateway", "Read", err, map[string]interface{}{
			"checksum":    checksum,
			"stored_size": len(data),
		})
	}

	return &domain.CacheEntry{
		Checksum:  checksum,
		MimeType:  rec.MimeType,
		ImageData: rec.ImageData,
	}, nil
}

// Write serializes and stores the entry, replacing any previous one.
func (g *CacheStoreGateway) Write(ctx context.Context, entry *domain.CacheEntry) error {
	if entry == nil || !domain.IsValidChecksum(entry.Checksum) {
		return apperrors.NewValidationContextError("entry has no valid checksum", "gateway", "CacheStoreGateway", "Write", nil)
	}
	if !domain.IsValidImageContentType(entry.MimeType) {
		return apperrors.NewValidationContextError("entry mime type is not an image type", "gateway", "CacheStoreGateway", "Write", map[string]interface{}{
			"checksum":  entry.Checksum,
			"mime_type": entry.MimeType,
		})
	}
	if len(entry.ImageData) == 0 {
		return apperrors.NewValidationContextError("entry has no image data", "gateway", "CacheStoreGateway", "Write", map[string]interface{}{
			"checksum": entry.Checksum,
		})
	}

	data, err := encodeRecord(entry)
	if err != nil {
		return apperrors.NewStorageContextError("failed to encode record", "gateway", "CacheStoreGateway", "Write", err, map[string]interface{}{
			"checksum": entry.Checksum,
		})
	}

	return g.storage.Put(ctx, entry.Checksum, data)
}

// Delete removes the entry. A missing entry is not an error.
func (g *CacheStoreGateway) Delete(ctx context.Context, checksum string) error {
	return g.storage.Remove(ctx, checksum)
}

// List scans the backend. The result is computed fresh on every call.
func (g *CacheStoreGateway) List(ctx context.Context) ([]domain.InventoryRecord, error) {
	objects, err := g.storage.List(ctx)
	if err != nil {
		return nil, err
	}

	inventory := make([]domain.InventoryRecord, 0, len(objects))
	for _, obj := range objects {
		inventory = append(inventory, domain.InventoryRecord{
			Checksum:     obj.Key,
			LastModified: obj.ModTime,
			SizeBytes:    obj.Size,
		})
	}
	return inventory, nil
}
