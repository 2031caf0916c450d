// Package database centralises sqlx connection helpers.  The driver is
// go-sql-driver/mysql, which also works with MariaDB.
//
// Public entry points:
//
//	Open(ctx, opts) – parse and normalise the DSN, size the pool, ping with retry.
//	BuildDSN(opts)  – the DSN normalisation step on its own.
//
// Open pings before returning so boot fails fast when the database is
// unreachable.  Callers Close() the returned *sqlx.DB on shutdown.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Options tunes one pool.  Zero values take the defaults noted below.
type Options struct {
	DSN         string        // may hold one %s for Password
	Password    string        // usually resolved from Vault
	MaxOpen     int           // 15
	MaxIdle     int           // 5
	MaxLifetime time.Duration // 30m
	PingRetries int           // 3
	PingBackoff time.Duration // 500ms, doubled per retry
}

// BuildDSN substitutes the password and forces parseTime so DATETIME columns
// scan into time.Time.
func BuildDSN(opts Options) (string, error) {
	dsn := opts.DSN
	if strings.Contains(dsn, "%s") {
		dsn = fmt.Sprintf(dsn, opts.Password)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("database: parse dsn: %w", err)
	}
	if cfg.Passwd == "" && opts.Password != "" {
		cfg.Passwd = opts.Password
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// Open returns a pinged *sqlx.DB.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	dsn, err := BuildDSN(opts)
	if err != nil {
		return nil, err
	}
	if opts.MaxOpen == 0 {
		opts.MaxOpen = 15
	}
	if opts.MaxIdle == 0 {
		opts.MaxIdle = 5
	}
	if opts.MaxLifetime == 0 {
		opts.MaxLifetime = 30 * time.Minute
	}
	if opts.PingRetries == 0 {
		opts.PingRetries = 3
	}
	if opts.PingBackoff == 0 {
		opts.PingBackoff = 500 * time.Millisecond
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(opts.MaxOpen)
	db.SetMaxIdleConns(opts.MaxIdle)
	db.SetConnMaxLifetime(opts.MaxLifetime)

	wait := opts.PingBackoff
	for attempt := 1; ; attempt++ {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		if attempt >= opts.PingRetries {
			break
		}
		zap.S().Warnw("database ping failed, retrying", "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	_ = db.Close()
	return nil, fmt.Errorf("database: ping: %w", err)
}
