package coredb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// Client wraps the SQLite connection and the query layer.
type Client struct {
	DB      *sql.DB
	Queries *Queries
	config  Config
	logger  *slog.Logger
}

// NewClient opens (or creates) the database at the configured path,
// applies the schema, and returns a ready-to-use client.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	db, err := sql.Open("sqlite3", config.DBPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", config.DBPath, err)
	}

	// A single writer connection avoids SQLITE_BUSY between concurrent
	// merge transactions; readers share it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Client{
		DB:      db,
		Queries: New(db),
		config:  config,
		logger:  logger,
	}, nil
}

// BeginTx starts a database transaction.
func (c *Client) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.DB.BeginTx(ctx, nil)
}

// Close closes the underlying database connection.
func (c *Client) Close() error {
	return c.DB.Close()
}
