// Package opensearch implements full-text search over ingested documents.
// Each stored document is indexed with its extracted text and detected
// section names so keyword queries can surface the relevant passages.
package opensearch

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// Client manages the OpenSearch connection.
type Client struct {
	os     *opensearch.Client
	cfg    config.OpenSearchConfig
	logger logging.Logger
}

// NewClient builds a client and verifies the cluster responds.
func NewClient(ctx context.Context, cfg config.OpenSearchConfig, log logging.Logger) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New(errors.ErrCodeConfigInvalid, "opensearch addresses not configured")
	}
	if cfg.IndexPrefix == "" {
		cfg.IndexPrefix = "lexatlas-"
	}

	transport := &http.Transport{MaxIdleConnsPerHost: 10}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	osc, err := opensearch.NewClient(opensearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.User,
		Password:      cfg.Password,
		Transport:     transport,
		MaxRetries:    3,
		RetryBackoff:  func(int) time.Duration { return 100 * time.Millisecond },
		RetryOnStatus: []int{429, 502, 503, 504},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSearchFailed, "failed to create opensearch client")
	}

	c := &Client{os: osc, cfg: cfg, logger: log}
	if err := c.HealthCheck(ctx); err != nil {
		return nil, err
	}

	log.Info("opensearch connected", logging.Any("addresses", cfg.Addresses))
	return c, nil
}

// HealthCheck pings the cluster.
func (c *Client) HealthCheck(ctx context.Context) error {
	res, err := c.os.Ping(c.os.Ping.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSearchFailed, "opensearch ping failed")
	}
	defer res.Body.Close()
	if res.IsError() {
		return errors.New(errors.ErrCodeSearchFailed, "opensearch ping returned "+res.Status())
	}
	return nil
}

// IndexName returns the prefixed name of the document index.
func (c *Client) IndexName() string {
	return c.cfg.IndexPrefix + "documents"
}
