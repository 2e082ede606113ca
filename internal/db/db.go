package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// PoolOptions bounds the connection pool shared by every request.
type PoolOptions struct {
	MaxOpenConns int
	MaxIdleConns int
}

// Connect opens the postgres pool and verifies it with a ping. The pool is
// meant to be created once at startup and passed to every repo.
func Connect(ctx context.Context, dsn string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	Configure(db, opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Configure applies pool limits; zero values leave database/sql defaults.
func Configure(db *sql.DB, opts PoolOptions) {
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
}
