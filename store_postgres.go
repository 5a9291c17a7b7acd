package stockbook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	_ "github.com/lib/pq"
)

// PostgresStore is a Store kept in a single PostgreSQL table.
// It implements Batcher: a batch is written in one transaction.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the database at 'dsn' and creates the table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS stockbook_kv (
		key VARCHAR(64) PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`)
	return err
}

// Close closes the database.
func (s *PostgresStore) Close() error { return s.db.Close() }

const upsertQuery = `
	INSERT INTO stockbook_kv (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`

func (s *PostgresStore) Get(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM stockbook_kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %q: %v", ErrStorageUnavailable, key, err)
	}
	return []byte(value), nil
}

func (s *PostgresStore) Put(key string, value []byte) error {
	if _, err := s.db.Exec(upsertQuery, key, string(value)); err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	logf("write-store-row key=%q", key)
	return nil
}

func (s *PostgresStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM stockbook_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("cannot delete %q: %w", key, err)
	}
	logf("delete-store-row key=%q", key)
	return nil
}

// PutBatch writes all entries in a single transaction.
func (s *PostgresStore) PutBatch(entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, k := range keys {
		if _, err := tx.Exec(upsertQuery, k, string(entries[k])); err != nil {
			tx.Rollback()
			return fmt.Errorf("cannot write %q: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	logf("write-store-batch keys=%q", keys)
	return nil
}
