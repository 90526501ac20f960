package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgLockNotAvailable is SQLSTATE lock_not_available.
const pgLockNotAvailable = "55P03"

type pgxConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps each table as one row of hospital_tables, with the
// header and rows held as JSONB arrays.
type PostgresStore struct {
	db          pgxConn
	lockTimeout time.Duration
}

// NewPostgresStore accepts a *pgxpool.Pool or any pool-compatible connection.
func NewPostgresStore(db pgxConn, lockTimeout time.Duration) *PostgresStore {
	if db == nil {
		panic("records: pgx pool required")
	}
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &PostgresStore{db: db, lockTimeout: lockTimeout}
}

func (s *PostgresStore) LoadTable(ctx context.Context, name string) (*Table, error) {
	var columnsJSON, rowsJSON []byte
	err := s.db.QueryRow(ctx, `SELECT columns, rows FROM hospital_tables WHERE name = $1`, name).
		Scan(&columnsJSON, &rowsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("records: postgres load %s: %w", name, ErrTableNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("records: postgres load %s: %w", name, err)
	}

	t := &Table{}
	if err := json.Unmarshal(columnsJSON, &t.Columns); err != nil {
		return nil, fmt.Errorf("records: postgres decode columns %s: %w", name, err)
	}
	if err := json.Unmarshal(rowsJSON, &t.Rows); err != nil {
		return nil, fmt.Errorf("records: postgres decode rows %s: %w", name, err)
	}
	t.Normalize()
	return t, nil
}

// SaveTable upserts the table under a bounded lock wait; a writer that cannot
// get the row lock in time gets ErrTableLocked.
func (s *PostgresStore) SaveTable(ctx context.Context, name string, t *Table) error {
	norm := t.Clone()
	norm.Normalize()
	if norm.Rows == nil {
		norm.Rows = [][]string{}
	}
	columnsJSON, err := json.Marshal(norm.Columns)
	if err != nil {
		return fmt.Errorf("records: postgres encode columns %s: %w", name, err)
	}
	rowsJSON, err := json.Marshal(norm.Rows)
	if err != nil {
		return fmt.Errorf("records: postgres encode rows %s: %w", name, err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("records: postgres begin %s: %w", name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("records: postgres lock timeout %s: %w", name, err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO hospital_tables (name, columns, rows, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name) DO UPDATE
		SET columns = EXCLUDED.columns, rows = EXCLUDED.rows, updated_at = now()
	`, name, columnsJSON, rowsJSON)
	if err != nil {
		return fmt.Errorf("records: postgres save %s: %w", name, classifyPgError(err))
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("records: postgres commit %s: %w", name, classifyPgError(err))
	}
	return nil
}

func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return fmt.Errorf("%w: %v", ErrTableLocked, err)
	}
	return err
}
