package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// cacheMaintainer is the part of the eviction usecase the maintenance job drives.
type cacheMaintainer interface {
	EnforceCapacity(ctx context.Context) (bool, error)
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// hostPruner drops idle per-host limiters.
type hostPruner interface {
	Prune() int
}

// CacheMaintenanceJob returns a job function that expires stale entries and
// evicts one entry if the cache is over its limits. It complements the sweep
// that already runs after every request.
func CacheMaintenanceJob(maintainer cacheMaintainer) func(ctx context.Context) error {
	return cacheMaintenanceJobFn(maintainer, time.Now)
}

func cacheMaintenanceJobFn(maintainer cacheMaintainer, now func() time.Time) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		expired, err := maintainer.Sweep(ctx, now())
		if err != nil {
			return fmt.Errorf("sweep expired entries: %w", err)
		}

		evicted, err := maintainer.EnforceCapacity(ctx)
		if err != nil {
			return fmt.Errorf("enforce cache capacity: %w", err)
		}

		if expired > 0 || evicted {
			slog.InfoContext(ctx, "cache maintenance", "expired", expired, "evicted", evicted)
		}
		return nil
	}
}

// RateLimiterPruneJob returns a job function that releases limiters for hosts
// that have been idle long enough to hold a full token.
func RateLimiterPruneJob(pruner hostPruner) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if removed := pruner.Prune(); removed > 0 {
			slog.DebugContext(ctx, "pruned host rate limiters", "removed", removed)
		}
		return nil
	}
}
