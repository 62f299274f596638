// pkg/connector/factory.go
package connector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleanse/pkg/config"
)

// ConnectorFactory creates database connectors
type ConnectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger) *ConnectorFactory {
	return &ConnectorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSnowflakeConnector creates and validates a Snowflake connector
func (f *ConnectorFactory) CreateSnowflakeConnector(ctx context.Context) (*SnowflakeConnector, error) {
	if f.cfg.Snowflake == nil {
		return nil, fmt.Errorf("snowflake configuration is not loaded")
	}
	f.logger.Info("Creating Snowflake connector")

	connector, err := NewSnowflakeConnector(ctx, f.cfg.Snowflake, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
	}

	if err := connector.Validate(ctx); err != nil {
		connector.Close()
		return nil, err
	}
	return connector, nil
}

// CreatePostgresConnector creates and validates a PostgreSQL connector
func (f *ConnectorFactory) CreatePostgresConnector(ctx context.Context) (*PostgresConnector, error) {
	if f.cfg.Postgres == nil {
		return nil, fmt.Errorf("postgreSQL configuration is not loaded")
	}
	f.logger.Info("Creating PostgreSQL connector")

	connector, err := NewPostgresConnector(ctx, f.cfg.Postgres, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
	}

	if err := connector.Validate(ctx); err != nil {
		connector.Close()
		return nil, err
	}
	return connector, nil
}

// CreateSourceConnector returns the connector for a database source, or nil
// for file sources
func (f *ConnectorFactory) CreateSourceConnector(ctx context.Context) (DatabaseConnector, error) {
	switch f.cfg.Source {
	case config.SourcePostgres:
		conn, err := f.CreatePostgresConnector(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	case config.SourceSnowflake:
		conn, err := f.CreateSnowflakeConnector(ctx)
		if err != nil {
			return nil, err
		}
		return conn, nil
	default:
		return nil, nil
	}
}
