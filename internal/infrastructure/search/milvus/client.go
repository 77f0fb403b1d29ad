// Package milvus implements the vector store backing question answering.
// Document chunks are embedded and stored in a single collection; the QA
// service retrieves the nearest chunks for a question embedding.
package milvus

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

const connectTimeout = 10 * time.Second

// newMilvusClient is swapped in tests.
var newMilvusClient = client.NewClient

// Client wraps the Milvus SDK connection.
type Client struct {
	mc     client.Client
	cfg    config.MilvusConfig
	logger logging.Logger
	closed atomic.Bool
}

// NewClient connects to Milvus and verifies the connection.
func NewClient(ctx context.Context, cfg config.MilvusConfig, log logging.Logger) (*Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "milvus addr not configured")
	}
	if cfg.DBName == "" {
		cfg.DBName = "default"
	}
	if cfg.EmbeddingDim <= 0 {
		cfg.EmbeddingDim = 768
	}
	if cfg.DefaultTopK <= 0 {
		cfg.DefaultTopK = 5
	}
	if cfg.CollectionPrefix == "" {
		cfg.CollectionPrefix = "lexatlas_"
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	mc, err := newMilvusClient(connectCtx, client.Config{
		Address: cfg.Addr,
		DBName:  cfg.DBName,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "failed to connect to milvus")
	}

	c := &Client{mc: mc, cfg: cfg, logger: log}
	if err := c.HealthCheck(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	log.Info("milvus connected", logging.String("addr", cfg.Addr))
	return c, nil
}

// HealthCheck verifies the connection is usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.closed.Load() {
		return errors.New(errors.ErrCodeVectorStoreFailed, "milvus client is closed")
	}
	if _, err := c.mc.CheckHealth(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeVectorStoreFailed, "milvus health check failed")
	}
	return nil
}

// Raw exposes the SDK client for collection management.
func (c *Client) Raw() client.Client {
	return c.mc
}

// Close shuts the connection down.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c.mc != nil {
		return c.mc.Close()
	}
	return nil
}
