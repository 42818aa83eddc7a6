package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/adminconsole/internal/dbx"
)

type queries struct {
	get    string
	upsert string
	delete string
	list   string
	clear  string
}

var sqliteQueries = queries{
	get: `SELECT value FROM browser_storage WHERE namespace = ? AND key = ?`,
	upsert: `
		INSERT INTO browser_storage (namespace, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`,
	delete: `DELETE FROM browser_storage WHERE namespace = ? AND key = ?`,
	list:   `SELECT key, value FROM browser_storage WHERE namespace = ?`,
	clear:  `DELETE FROM browser_storage WHERE namespace = ?`,
}

var postgresQueries = queries{
	get: `SELECT value FROM browser_storage WHERE namespace = $1 AND key = $2`,
	upsert: `
		INSERT INTO browser_storage (namespace, key, value, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`,
	delete: `DELETE FROM browser_storage WHERE namespace = $1 AND key = $2`,
	list:   `SELECT key, value FROM browser_storage WHERE namespace = $1`,
	clear:  `DELETE FROM browser_storage WHERE namespace = $1`,
}

// SQLRepository stores rows in the browser_storage table through
// database/sql. The SQLite and PostgreSQL flavours differ only in SQL text.
type SQLRepository struct {
	db      *sql.DB
	q       queries
	closeFn func() error
}

func NewSQLiteRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, q: sqliteQueries, closeFn: db.Close}
}

func NewPostgresRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, q: postgresQueries, closeFn: db.Close}
}

func (r *SQLRepository) Get(ctx context.Context, ns, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, r.q.get, ns, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get storage[%s/%s]: %w", ns, key, err)
	}
	return value, nil
}

func (r *SQLRepository) Set(ctx context.Context, ns, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := r.db.ExecContext(ctx, r.q.upsert, ns, key, value); err != nil {
		return fmt.Errorf("failed to set storage[%s/%s]: %w", ns, key, err)
	}
	return nil
}

// Delete removes keys atomically; several keys share one transaction.
func (r *SQLRepository) Delete(ctx context.Context, ns string, keys ...string) error {
	switch len(keys) {
	case 0:
		return nil
	case 1:
		if _, err := r.db.ExecContext(ctx, r.q.delete, ns, keys[0]); err != nil {
			return fmt.Errorf("failed to delete storage[%s/%s]: %w", ns, keys[0], err)
		}
		return nil
	}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, r.q.delete, ns, key); err != nil {
				return fmt.Errorf("failed to delete storage[%s/%s]: %w", ns, key, err)
			}
		}
		return nil
	})
	return err
}

func (r *SQLRepository) List(ctx context.Context, ns string) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, r.q.list, ns)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage[%s]: %w", ns, err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan storage row: %w", err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate storage rows: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) Clear(ctx context.Context, ns string) error {
	if _, err := r.db.ExecContext(ctx, r.q.clear, ns); err != nil {
		return fmt.Errorf("failed to clear storage[%s]: %w", ns, err)
	}
	return nil
}

func (r *SQLRepository) Close() error {
	return r.closeFn()
}
