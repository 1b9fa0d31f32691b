// Package redis_store_driver keeps cache records in Redis hashes.
package redis_store_driver

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robmiller/expurgate/domain"
	"github.com/robmiller/expurgate/port/blob_storage_port"
	apperrors "github.com/robmiller/expurgate/utils/errors"
)

const (
	fieldRecord    = "record"
	fieldSize      = "size_bytes"
	fieldUpdatedAt = "updated_at"

	scanBatch = 200
)

// RedisStoreDriver stores each record as a hash at <prefix><checksum>.
type RedisStoreDriver struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStoreDriver creates a driver on an existing client.
func NewRedisStoreDriver(client *redis.Client, prefix string) *RedisStoreDriver {
	return &RedisStoreDriver{client: client, prefix: prefix, now: time.Now}
}

// NewRedisStoreDriverWithURL creates a new Redis driver from a URL.
func NewRedisStoreDriverWithURL(url, prefix string) (*RedisStoreDriver, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	return NewRedisStoreDriver(redis.NewClient(opts), prefix), nil
}

// Ping checks the connection.
func (d *RedisStoreDriver) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (d *RedisStoreDriver) Close() error {
	return d.client.Close()
}

func (d *RedisStoreDriver) key(checksum string) string {
	return d.prefix + checksum
}

// Put writes all fields with one HSET so readers never see a half-updated hash.
func (d *RedisStoreDriver) Put(ctx context.Context, key string, data []byte) error {
	err := d.client.HSet(ctx, d.key(key),
		fieldRecord, data,
		fieldSize, len(data),
		fieldUpdatedAt, d.now().UnixNano(),
	).Err()
	if err != nil {
		return d.storageError("failed to write record", "Put", key, err)
	}
	return nil
}

func (d *RedisStoreDriver) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := d.client.HGet(ctx, d.key(key), fieldRecord).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NewCacheEntryNotFoundError("driver", "RedisStoreDriver", "Get", map[string]interface{}{"key": key})
		}
		return nil, d.storageError("failed to read record", "Get", key, err)
	}
	return data, nil
}

// List scans the key space under the prefix and fetches metadata in one pipeline.
func (d *RedisStoreDriver) List(ctx context.Context) ([]blob_storage_port.ObjectInfo, error) {
	var scanned []string
	iter := d.client.Scan(ctx, 0, d.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		scanned = append(scanned, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, d.storageError("failed to scan keys", "List", "", err)
	}
	keys := uniqueChecksums(scanned, d.prefix)
	if len(keys) == 0 {
		return nil, nil
	}

	pipe := d.client.Pipeline()
	cmds := make([]*redis.SliceCmd, len(keys))
	for i, checksum := range keys {
		cmds[i] = pipe.HMGet(ctx, d.key(checksum), fieldSize, fieldUpdatedAt)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, d.storageError("failed to read metadata", "List", "", err)
	}

	objects := make([]blob_storage_port.ObjectInfo, 0, len(keys))
	for i, checksum := range keys {
		vals, err := cmds[i].Result()
		if err != nil || len(vals) != 2 {
			continue
		}
		size, okSize := parseInt(vals[0])
		updated, okUpdated := parseInt(vals[1])
		if !okSize || !okUpdated {
			// Deleted between SCAN and HMGET, or not one of ours.
			continue
		}
		objects = append(objects, blob_storage_port.ObjectInfo{
			Key:     checksum,
			Size:    size,
			ModTime: time.Unix(0, updated),
		})
	}
	return objects, nil
}

// uniqueChecksums strips the prefix, drops keys that are not checksums and
// removes duplicates. SCAN may return a key more than once while the server rehashes.
func uniqueChecksums(keys []string, prefix string) []string {
	seen := make(map[string]struct{}, len(keys))
	checksums := make([]string, 0, len(keys))
	for _, key := range keys {
		checksum := strings.TrimPrefix(key, prefix)
		if !domain.IsValidChecksum(checksum) {
			continue
		}
		if _, dup := seen[checksum]; dup {
			continue
		}
		seen[checksum] = struct{}{}
		checksums = append(checksums, checksum)
	}
	return checksums
}

// Remove deletes the hash. DEL on a missing key is not an error.
func (d *RedisStoreDriver) Remove(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, d.key(key)).Err(); err != nil {
		return d.storageError("failed to delete record", "Remove", key, err)
	}
	return nil
}

func parseInt(v interface{}) (int64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (d *RedisStoreDriver) storageError(message, operation, key string, cause error) error {
	return apperrors.NewStorageUnavailableError(message, "driver", "RedisStoreDriver", operation, cause, map[string]interface{}{
		"key":     key,
		"backend": "redis",
	})
}
