package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Client wraps a pgx connection pool.
type Client struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// NewClient connects a pool to the given database and verifies the
// connection before handing it out.
func NewClient(ctx context.Context, databaseURL string, log *zap.Logger) (*Client, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Error("Failed to create PostgreSQL pool", zap.Error(err))
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error("Failed to ping PostgreSQL", zap.Error(err))
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	log.Info("PostgreSQL connection established")

	return &Client{pool: pool, log: log}, nil
}

// Pool returns the underlying connection pool.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

// Close closes the connection pool.
func (c *Client) Close() {
	c.log.Info("Closing PostgreSQL pool")
	c.pool.Close()
}
