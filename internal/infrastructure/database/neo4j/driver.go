// Package neo4j wraps the Neo4j driver used by the citation graph store.
package neo4j

import (
	"context"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/lexatlas/lexatlas/internal/config"
	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

const (
	defaultPoolSize       = 50
	defaultAcquireTimeout = 60 * time.Second
	connectTimeout        = 10 * time.Second
)

// Transaction is the unit of work passed to ExecuteRead/ExecuteWrite.
type Transaction = neo4j.ManagedTransaction

// Driver manages the Neo4j connection and session lifecycle.
type Driver struct {
	driver neo4j.DriverWithContext
	cfg    config.Neo4jConfig
	logger logging.Logger
	once   sync.Once
}

// NewDriver connects to Neo4j and verifies connectivity.
func NewDriver(cfg config.Neo4jConfig, log logging.Logger) (*Driver, error) {
	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")

	d, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		if cfg.MaxConnectionPoolSize > 0 {
			c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
		} else {
			c.MaxConnectionPoolSize = defaultPoolSize
		}
		if cfg.ConnectionTimeout > 0 {
			c.ConnectionAcquisitionTimeout = cfg.ConnectionTimeout
		} else {
			c.ConnectionAcquisitionTimeout = defaultAcquireTimeout
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create neo4j driver")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := d.VerifyConnectivity(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to connect to neo4j")
	}

	log.Info("connected to Neo4j",
		logging.String("uri", cfg.URI),
		logging.String("database", cfg.Database),
	)

	return &Driver{driver: d, cfg: cfg, logger: log}, nil
}

func (d *Driver) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	dbName := d.cfg.Database
	if dbName == "" {
		dbName = "neo4j"
	}
	return d.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: dbName,
		AccessMode:   mode,
	})
}

// ExecuteRead runs work inside a managed read transaction.
func (d *Driver) ExecuteRead(ctx context.Context, work func(tx Transaction) (interface{}, error)) (interface{}, error) {
	session := d.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, work)
	if err != nil {
		d.logger.Error("neo4j read transaction failed", logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeGraphQueryFailed, "neo4j read failed")
	}
	return result, nil
}

// ExecuteWrite runs work inside a managed write transaction.
func (d *Driver) ExecuteWrite(ctx context.Context, work func(tx Transaction) (interface{}, error)) (interface{}, error) {
	session := d.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, work)
	if err != nil {
		d.logger.Error("neo4j write transaction failed", logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeGraphStoreFailed, "neo4j write failed")
	}
	return result, nil
}

// HealthCheck verifies connectivity.
func (d *Driver) HealthCheck(ctx context.Context) error {
	if err := d.driver.VerifyConnectivity(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "neo4j connectivity check failed")
	}
	return nil
}

// Close shuts the driver down; safe to call more than once.
func (d *Driver) Close(ctx context.Context) error {
	var err error
	d.once.Do(func() {
		err = d.driver.Close(ctx)
		if err == nil {
			d.logger.Info("closed Neo4j driver")
		}
	})
	return err
}
