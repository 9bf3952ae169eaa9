package seinfeld

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// connection owns the single scoped database session for a facade instance.
// The session is opened read-only; the dataset is immutable.
type connection struct {
	path string
	db   *sqlx.DB
}

// open establishes the underlying connection. Opening an already-open
// connection is a caller bug.
func (c *connection) open(ctx context.Context) error {
	if c.db != nil {
		return NewInvalidArgumentError("connection", "already open")
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite", fmt.Sprintf("file:%s?mode=ro", c.path))
	if err != nil {
		return fmt.Errorf("opening database %q: %w", c.path, err)
	}

	// One logical session per facade instance. The driver serializes I/O;
	// concurrent callers wanting parallelism use independent facades.
	db.SetMaxOpenConns(1)

	c.db = db

	return nil
}

// close releases the connection. Closing before open, or twice, fails with
// ErrNotConnected.
func (c *connection) close() error {
	if c.db == nil {
		return ErrNotConnected
	}

	err := c.db.Close()
	c.db = nil

	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	return nil
}

// handle returns the live session, or ErrNotConnected outside an open scope.
func (c *connection) handle() (*sqlx.DB, error) {
	if c.db == nil {
		return nil, ErrNotConnected
	}

	return c.db, nil
}

// ping verifies the session is open and the data source reachable.
func (c *connection) ping(ctx context.Context) error {
	db, err := c.handle()
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	return nil
}
