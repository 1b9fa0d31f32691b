package eviction_usecase

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/robmiller/expurgate/domain"
	"github.com/robmiller/expurgate/port/cache_store_port"
	"github.com/robmiller/expurgate/utils/logger"
	"github.com/robmiller/expurgate/utils/metrics"
)

const (
	reasonCapacity = "capacity"
	reasonExpired  = "expired"
)

// IsFull reports whether the inventory is over either capacity threshold.
// An empty inventory is never full.
func IsFull(inventory []domain.InventoryRecord, limits domain.CacheLimits) bool {
	if len(inventory) == 0 {
		return false
	}
	return len(inventory) > limits.MaxFiles || domain.TotalSize(inventory) > limits.MaxTotalSize
}

// EvictionUsecase removes cache entries to keep the store within its limits
// and drops entries older than maxAge.
type EvictionUsecase struct {
	store     cache_store_port.CacheStorePort
	inventory cache_store_port.CacheInventoryPort
	limits    domain.CacheLimits
	maxAge    time.Duration
	intn      func(n int) int
	log       *logger.ContextLogger
}

func NewEvictionUsecase(
	store cache_store_port.CacheStorePort,
	inventory cache_store_port.CacheInventoryPort,
	limits domain.CacheLimits,
	maxAge time.Duration,
) *EvictionUsecase {
	return &EvictionUsecase{
		store:     store,
		inventory: inventory,
		limits:    limits,
		maxAge:    maxAge,
		intn:      rand.IntN,
		log:       logger.NewContextLogger(slog.Default()),
	}
}

// Limits returns the capacity thresholds in use.
func (u *EvictionUsecase) Limits() domain.CacheLimits {
	return u.limits
}

// EvictOne deletes one entry chosen uniformly at random and returns it.
// It does not check fullness. An empty inventory is a no-op.
func (u *EvictionUsecase) EvictOne(ctx context.Context, inventory []domain.InventoryRecord) (*domain.InventoryRecord, error) {
	if len(inventory) == 0 {
		return nil, nil
	}

	victim := inventory[u.intn(len(inventory))]
	if err := u.store.Delete(ctx, victim.Checksum); err != nil {
		u.log.WithContext(ctx).WarnContext(ctx, "failed to evict cache entry",
			"victim", victim.Checksum,
			"error", err,
		)
		metrics.RecordEviction(reasonCapacity, 0, 1)
		return &victim, err
	}

	metrics.RecordEviction(reasonCapacity, 1, 0)
	u.log.WithContext(ctx).DebugContext(ctx, "evicted cache entry",
		"victim", victim.Checksum,
		"size_bytes", victim.SizeBytes,
	)
	return &victim, nil
}

// Expire deletes every entry whose LastModified+maxAge lies strictly before now
// and returns how many were removed. Failed deletes are logged and skipped.
func (u *EvictionUsecase) Expire(ctx context.Context, inventory []domain.InventoryRecord, now time.Time) int {
	removed, failed := 0, 0
	for _, rec := range inventory {
		if !rec.LastModified.Add(u.maxAge).Before(now) {
			continue
		}
		if err := u.store.Delete(ctx, rec.Checksum); err != nil {
			failed++
			u.log.WithContext(ctx).WarnContext(ctx, "failed to expire cache entry",
				"entry", rec.Checksum,
				"error", err,
			)
			continue
		}
		removed++
	}

	metrics.RecordEviction(reasonExpired, removed, failed)
	if removed > 0 || failed > 0 {
		u.log.WithContext(ctx).InfoContext(ctx, "expired cache entries",
			"removed", removed,
			"failed", failed,
			"max_age", u.maxAge.String(),
		)
	}
	return removed
}

// EnforceCapacity scans the store and evicts one entry if it is full.
// It reports whether an entry was removed.
func (u *EvictionUsecase) EnforceCapacity(ctx context.Context) (bool, error) {
	inventory, err := u.inventory.List(ctx)
	if err != nil {
		return false, err
	}
	metrics.SetInventory(len(inventory), domain.TotalSize(inventory))

	if !IsFull(inventory, u.limits) {
		return false, nil
	}

	victim, err := u.EvictOne(ctx, inventory)
	if err != nil {
		return false, err
	}
	return victim != nil, nil
}

// Sweep scans the store and expires old entries.
func (u *EvictionUsecase) Sweep(ctx context.Context, now time.Time) (int, error) {
	inventory, err := u.inventory.List(ctx)
	if err != nil {
		return 0, err
	}
	metrics.SetInventory(len(inventory), domain.TotalSize(inventory))

	return u.Expire(ctx, inventory, now), nil
}
