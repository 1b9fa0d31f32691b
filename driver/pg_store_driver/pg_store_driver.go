package pg_store_driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robmiller/expurgate/port/blob_storage_port"
	apperrors "github.com/robmiller/expurgate/utils/errors"
)

// PgxIface is the subset of *pgxpool.Pool the driver needs.
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS image_cache_entries (
	checksum   TEXT PRIMARY KEY,
	record     BYTEA NOT NULL,
	size_bytes BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PGStoreDriver stores one row per checksum in image_cache_entries.
// updated_at plays the role of the file mtime.
type PGStoreDriver struct {
	pool PgxIface
}

func NewPGStoreDriver(pool PgxIface) *PGStoreDriver {
	return &PGStoreDriver{pool: pool}
}

// OpenPool connects to postgres and verifies the connection.
func OpenPool(ctx context.Context, databaseURL string, maxConns int, timeout time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the entries table if it does not exist.
func (d *PGStoreDriver) EnsureSchema(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, createTableSQL); err != nil {
		return d.storageError("failed to create image_cache_entries", "EnsureSchema", "", err)
	}
	return nil
}

// Put upserts the record; a single statement keeps the write atomic for readers.
func (d *PGStoreDriver) Put(ctx context.Context, key string, data []byte) error {
	if d.pool == nil {
		return d.storageError("database connection not available", "Put", key, nil)
	}

	_, err := d.pool.Exec(ctx,
		`INSERT INTO image_cache_entries (checksum, record, size_bytes, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (checksum) DO UPDATE SET
		   record = EXCLUDED.record,
		   size_bytes = EXCLUDED.size_bytes,
		   updated_at = EXCLUDED.updated_at`,
		key, data, int64(len(data)),
	)
	if err != nil {
		return d.storageError("failed to upsert record", "Put", key, err)
	}
	return nil
}

func (d *PGStoreDriver) Get(ctx context.Context, key string) ([]byte, error) {
	if d.pool == nil {
		return nil, d.storageError("database connection not available", "Get", key, nil)
	}

	var data []byte
	err := d.pool.QueryRow(ctx,
		`SELECT record FROM image_cache_entries WHERE checksum = $1`,
		key,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewCacheEntryNotFoundError("driver", "PGStoreDriver", "Get", map[string]interface{}{"key": key})
		}
		return nil, d.storageError("failed to read record", "Get", key, err)
	}
	return data, nil
}

func (d *PGStoreDriver) List(ctx context.Context) ([]blob_storage_port.ObjectInfo, error) {
	if d.pool == nil {
		return nil, d.storageError("database connection not available", "List", "", nil)
	}

	rows, err := d.pool.Query(ctx,
		`SELECT checksum, size_bytes, updated_at FROM image_cache_entries`,
	)
	if err != nil {
		return nil, d.storageError("failed to list records", "List", "", err)
	}
	defer rows.Close()

	var objects []blob_storage_port.ObjectInfo
	for rows.Next() {
		var obj blob_storage_port.ObjectInfo
		if err := rows.Scan(&obj.Key, &obj.Size, &obj.ModTime); err != nil {
			return nil, d.storageError("failed to scan record", "List", "", err)
		}
		objects = append(objects, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, d.storageError("failed to iterate records", "List", "", err)
	}
	return objects, nil
}

// Remove deletes the row. Zero affected rows means it was already gone.
func (d *PGStoreDriver) Remove(ctx context.Context, key string) error {
	if d.pool == nil {
		return d.storageError("database connection not available", "Remove", key, nil)
	}

	if _, err := d.pool.Exec(ctx, `DELETE FROM image_cache_entries WHERE checksum = $1`, key); err != nil {
		return d.storageError("failed to delete record", "Remove", key, err)
	}
	return nil
}

func (d *PGStoreDriver) storageError(message, operation, key string, cause error) error {
	return apperrors.NewStorageUnavailableError(message, "driver", "PGStoreDriver", operation, cause, map[string]interface{}{
		"key":     key,
		"backend": "postgres",
	})
}
