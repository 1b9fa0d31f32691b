package cache_store_port

//go:generate go run go.uber.org/mock/mockgen -source=cache_store_port.go -destination=../../mocks/mock_cache_store_port.go -package=mocks

import (
	"context"

	"github.com/robmiller/expurgate/domain"
)

// CacheStorePort reads and writes cache entries keyed by checksum.
type CacheStorePort interface {
	Exists(ctx context.Context, checksum string) bool
	Read(ctx context.Context, checksum string) (*domain.CacheEntry, error)
	Write(ctx context.Context, entry *domain.CacheEntry) error
	Delete(ctx context.Context, checksum string) error
}

// CacheInventoryPort lists what is currently stored.
type CacheInventoryPort interface {
	List(ctx context.Context) ([]domain.InventoryRecord, error)
}
