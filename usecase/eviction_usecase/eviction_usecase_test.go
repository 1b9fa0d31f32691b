package eviction_usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/robmiller/expurgate/domain"
	"github.com/robmiller/expurgate/driver/fs_store_driver"
	"github.com/robmiller/expurgate/gateway/cache_store_gateway"
	"github.com/robmiller/expurgate/mocks"
)

func checksumFor(i int) string {
	return fmt.Sprintf("%064x", i)
}

func makeInventory(n int, size int64, modified time.Time) []domain.InventoryRecord {
	inventory := make([]domain.InventoryRecord, n)
	for i := range inventory {
		inventory[i] = domain.InventoryRecord{Checksum: checksumFor(i), SizeBytes: size, LastModified: modified}
	}
	return inventory
}

func TestIsFull(t *testing.T) {
	limits := domain.CacheLimits{MaxFiles: 1024, MaxTotalSize: 1 << 20}

	tests := []struct {
		name      string
		inventory []domain.InventoryRecord
		want      bool
	}{
		{name: "empty", inventory: nil, want: false},
		{name: "one small entry", inventory: makeInventory(1, 10, time.Now()), want: false},
		{name: "count at limit", inventory: makeInventory(1024, 1, time.Now()), want: false},
		{name: "count over limit", inventory: makeInventory(1025, 1, time.Now()), want: true},
		{name: "size at limit", inventory: makeInventory(4, 1<<18, time.Now()), want: false},
		{name: "size over limit", inventory: makeInventory(2, 1<<19+1, time.Now()), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFull(tt.inventory, limits))
		})
	}

	assert.False(t, IsFull(nil, domain.CacheLimits{}), "empty inventory is never full, even with zero limits")
}

func newMockUsecase(t *testing.T) (*EvictionUsecase, *mocks.MockCacheStorePort, *mocks.MockCacheInventoryPort) {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCacheStorePort(ctrl)
	inventory := mocks.NewMockCacheInventoryPort(ctrl)
	u := NewEvictionUsecase(store, inventory, domain.CacheLimits{MaxFiles: 3, MaxTotalSize: 1 << 20}, time.Hour)
	return u, store, inventory
}

func TestEvictionUsecase_EvictOne_Empty(t *testing.T) {
	u, _, _ := newMockUsecase(t)

	victim, err := u.EvictOne(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, victim)
}

func TestEvictionUsecase_EvictOne_DeletesChosenEntry(t *testing.T) {
	u, store, _ := newMockUsecase(t)
	u.intn = func(n int) int { return n - 1 }
	inventory := makeInventory(3, 10, time.Now())

	store.EXPECT().Delete(gomock.Any(), checksumFor(2)).Return(nil)

	victim, err := u.EvictOne(context.Background(), inventory)
	require.NoError(t, err)
	assert.Equal(t, checksumFor(2), victim.Checksum)
}

func TestEvictionUsecase_EvictOne_EveryEntryCanBeChosen(t *testing.T) {
	u, store, _ := newMockUsecase(t)
	inventory := makeInventory(5, 10, time.Now())

	seen := make(map[string]int)
	store.EXPECT().Delete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, checksum string) error {
			seen[checksum]++
			return nil
		}).
		AnyTimes()

	for i := 0; i < 500; i++ {
		_, err := u.EvictOne(context.Background(), inventory)
		require.NoError(t, err)
	}

	assert.Len(t, seen, len(inventory))
	for _, rec := range inventory {
		assert.Positive(t, seen[rec.Checksum], "entry %s was never chosen", rec.Checksum)
	}
}

func TestEvictionUsecase_EvictOne_DeleteFailureIsReported(t *testing.T) {
	u, store, _ := newMockUsecase(t)
	u.intn = func(int) int { return 0 }

	store.EXPECT().Delete(gomock.Any(), checksumFor(0)).Return(errors.New("permission denied"))

	victim, err := u.EvictOne(context.Background(), makeInventory(2, 10, time.Now()))
	assert.Error(t, err)
	require.NotNil(t, victim)
	assert.Equal(t, checksumFor(0), victim.Checksum)
}

func TestEvictionUsecase_Expire_StrictBoundary(t *testing.T) {
	u, store, _ := newMockUsecase(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	inventory := []domain.InventoryRecord{
		{Checksum: checksumFor(1), LastModified: now.Add(-time.Hour)},                   // exactly max age: kept
		{Checksum: checksumFor(2), LastModified: now.Add(-time.Hour - time.Nanosecond)}, // removed
		{Checksum: checksumFor(3), LastModified: now.Add(-48 * time.Hour)},              // removed
		{Checksum: checksumFor(4), LastModified: now.Add(-time.Minute)},                 // kept
		{Checksum: checksumFor(5), LastModified: now.Add(time.Minute)},                  // future mtime: kept
	}

	store.EXPECT().Delete(gomock.Any(), checksumFor(2)).Return(nil)
	store.EXPECT().Delete(gomock.Any(), checksumFor(3)).Return(nil)

	assert.Equal(t, 2, u.Expire(context.Background(), inventory, now))
}

func TestEvictionUsecase_Expire_SkipsFailedDeletes(t *testing.T) {
	u, store, _ := newMockUsecase(t)
	now := time.Now()
	inventory := makeInventory(3, 10, now.Add(-2*time.Hour))

	store.EXPECT().Delete(gomock.Any(), checksumFor(0)).Return(nil)
	store.EXPECT().Delete(gomock.Any(), checksumFor(1)).Return(errors.New("i/o error"))
	store.EXPECT().Delete(gomock.Any(), checksumFor(2)).Return(nil)

	assert.Equal(t, 2, u.Expire(context.Background(), inventory, now))
}

func TestEvictionUsecase_EnforceCapacity(t *testing.T) {
	t.Run("not full", func(t *testing.T) {
		u, _, inventory := newMockUsecase(t)
		inventory.EXPECT().List(gomock.Any()).Return(makeInventory(3, 10, time.Now()), nil)

		evicted, err := u.EnforceCapacity(context.Background())
		require.NoError(t, err)
		assert.False(t, evicted)
	})

	t.Run("full evicts exactly one", func(t *testing.T) {
		u, store, inventory := newMockUsecase(t)
		inventory.EXPECT().List(gomock.Any()).Return(makeInventory(4, 10, time.Now()), nil)
		store.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).Times(1)

		evicted, err := u.EnforceCapacity(context.Background())
		require.NoError(t, err)
		assert.True(t, evicted)
	})

	t.Run("list failure", func(t *testing.T) {
		u, _, inventory := newMockUsecase(t)
		inventory.EXPECT().List(gomock.Any()).Return(nil, errors.New("scan failed"))

		_, err := u.EnforceCapacity(context.Background())
		assert.Error(t, err)
	})
}

func TestEvictionUsecase_Sweep(t *testing.T) {
	u, store, inventory := newMockUsecase(t)
	now := time.Now()
	records := append(makeInventory(2, 10, now.Add(-3*time.Hour)), domain.InventoryRecord{
		Checksum: checksumFor(9), LastModified: now,
	})

	inventory.EXPECT().List(gomock.Any()).Return(records, nil)
	store.EXPECT().Delete(gomock.Any(), checksumFor(0)).Return(nil)
	store.EXPECT().Delete(gomock.Any(), checksumFor(1)).Return(nil)

	removed, err := u.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

func TestEvictionUsecase_FilesystemCapacityScenario(t *testing.T) {
	driver, err := fs_store_driver.NewOSStoreDriver(t.TempDir())
	require.NoError(t, err)
	gw := cache_store_gateway.NewCacheStoreGateway(driver)
	ctx := context.Background()

	for i := 0; i < 1025; i++ {
		require.NoError(t, gw.Write(ctx, &domain.CacheEntry{
			Checksum:  checksumFor(i),
			MimeType:  "image/png",
			ImageData: []byte{byte(i)},
		}))
	}

	u := NewEvictionUsecase(gw, gw, domain.CacheLimits{MaxFiles: 1024, MaxTotalSize: 1 << 30}, time.Hour)

	inventory, err := gw.List(ctx)
	require.NoError(t, err)
	require.Len(t, inventory, 1025)
	assert.True(t, IsFull(inventory, u.Limits()))

	victim, err := u.EvictOne(ctx, inventory)
	require.NoError(t, err)
	require.NotNil(t, victim)

	inventory, err = gw.List(ctx)
	require.NoError(t, err)
	assert.Len(t, inventory, 1024)
	assert.False(t, IsFull(inventory, u.Limits()))
	assert.False(t, gw.Exists(ctx, victim.Checksum))
}
