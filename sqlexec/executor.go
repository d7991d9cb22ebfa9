// Package sqlexec runs planned statements on a database/sql connection pool.
package sqlexec

import (
	"context"
	"database/sql"
	"time"

	"github.com/tinywasm/query"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Executor adapts a *sql.DB to query.Executor.
type Executor struct {
	db *sql.DB
	q  queryer
}

var (
	_ query.Executor   = (*Executor)(nil)
	_ query.TxExecutor = (*Executor)(nil)
)

// New wraps db.
func New(db *sql.DB) *Executor {
	return &Executor{db: db, q: db}
}

// Open opens and pings a database.
func Open(ctx context.Context, driver, dsn string) (*Executor, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return New(db), nil
}

// DB returns the underlying pool.
func (e *Executor) DB() *sql.DB {
	return e.db
}

// Query implements query.Executor.
func (e *Executor) Query(ctx context.Context, q string, args ...any) (query.Rows, error) {
	start := now()
	rows, err := e.q.QueryContext(ctx, q, args...)
	observe(kindQuery, start, err)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// QueryRow implements query.Executor.
func (e *Executor) QueryRow(ctx context.Context, q string, args ...any) query.Scanner {
	start := now()
	return &observedRow{
		row:   e.q.QueryRowContext(ctx, q, args...),
		start: start,
	}
}

// BeginTx implements query.TxExecutor.
func (e *Executor) BeginTx(ctx context.Context) (query.TxBoundExecutor, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &TxExecutor{exec: Executor{db: e.db, q: tx}, tx: tx}, nil
}

// Close closes the pool.
func (e *Executor) Close() error {
	return e.db.Close()
}

// TxExecutor runs statements inside a transaction.
type TxExecutor struct {
	exec Executor
	tx   *sql.Tx
}

var _ query.TxBoundExecutor = (*TxExecutor)(nil)

// Query implements query.Executor.
func (t *TxExecutor) Query(ctx context.Context, q string, args ...any) (query.Rows, error) {
	return t.exec.Query(ctx, q, args...)
}

// QueryRow implements query.Executor.
func (t *TxExecutor) QueryRow(ctx context.Context, q string, args ...any) query.Scanner {
	return t.exec.QueryRow(ctx, q, args...)
}

// Commit commits the transaction.
func (t *TxExecutor) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *TxExecutor) Rollback() error {
	return t.tx.Rollback()
}

type observedRow struct {
	row   *sql.Row
	start time.Time
}

func (r *observedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	observe(kindQueryRow, r.start, err)
	return err
}
