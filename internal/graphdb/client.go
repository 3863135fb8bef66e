// Package graphdb wraps the Neo4j driver behind a parameterised query
// interface over session-scoped managed transactions, with graph-native
// integers normalised at the boundary.
package graphdb

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"

	appconfig "unified-thinking/internal/config"
)

// Client manages the Neo4j driver and exposes session-scoped read/write helpers.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
	timeout  time.Duration
}

// NewClient creates a driver, verifies connectivity, and returns a ready Client.
func NewClient(cfg appconfig.GraphConfig) (*Client, error) {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *config.Config) {
			c.MaxConnectionPoolSize = 50
			c.ConnectionAcquisitionTimeout = timeout
			c.SocketConnectTimeout = timeout
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	client := &Client{driver: driver, database: cfg.Database, timeout: timeout}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify neo4j connectivity: %w", err)
	}

	return client, nil
}

// Close releases the underlying driver and its connection pool.
func (c *Client) Close(ctx context.Context) error {
	if c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// Ping reports whether the graph is reachable, for GET /db-health.
func (c *Client) Ping(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// ExecuteRead runs work inside a read-mode managed transaction. The session
// is always closed before this returns, even when work returns an error.
func (c *Client) ExecuteRead(ctx context.Context, work neo4j.ManagedTransactionWork) (interface{}, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer func() { _ = session.Close(ctx) }()

	return session.ExecuteRead(ctx, work)
}

// ExecuteWrite runs work inside a write-mode managed transaction.
func (c *Client) ExecuteWrite(ctx context.Context, work neo4j.ManagedTransactionWork) (interface{}, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer func() { _ = session.Close(ctx) }()

	return session.ExecuteWrite(ctx, work)
}
