// Package store implements the task and conversation stores on Postgres.
// Schema and migrations are owned externally; owner scoping is enforced in
// every query here as well as by foreign keys in the schema.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN          string        `envconfig:"DSN" split_words:"true" required:"true"`
	PingTimeout  time.Duration `envconfig:"PING_TIMEOUT" split_words:"true" default:"5s"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" split_words:"true" default:"10"`
}

// Open connects to Postgres and verifies the connection.
func Open(cfg Config) (*bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// MustOpen is Open for process startup.
func MustOpen(cfg Config) *bun.DB {
	db, err := Open(cfg)
	if err != nil {
		panic(err)
	}
	return db
}
