package pool

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Pool defines the interface for a database connection pool rows are read from.
type Pool interface {
	Close() error
	SetMaxOpenConns(n int)
	SetMaxIdleConns(n int)
	SetConnMaxLifetime(d time.Duration)
	PingContext(ctx context.Context) error
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Options defines the configuration for the connection pool.
// Zero values keep the database/sql defaults.
type Options struct {
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// StdPool is an implementation of Pool using the standard library's *sql.DB.
type StdPool struct {
	*sql.DB
}

// NewStdPool creates a new StdPool wrapping the given *sql.DB.
func NewStdPool(db *sql.DB, opts Options) *StdPool {
	p := &StdPool{db}
	if opts.MaxOpenConns > 0 {
		p.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		p.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		p.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return p
}

// Open opens driver/dsn, applies opts and verifies the connection.
func Open(ctx context.Context, driver, dsn string, opts Options) (*StdPool, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	p := NewStdPool(db, opts)
	if err := p.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return p, nil
}
