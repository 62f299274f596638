package connector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleanse/pkg/config"
)

func TestPoolApply(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	Pool{MaxOpen: 7, MaxIdle: 3, MaxLifetime: time.Minute, MaxIdleTime: time.Second}.Apply(db)
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)

	// Zero values leave the pool untouched
	Pool{}.Apply(db)
	assert.Equal(t, 7, db.Stats().MaxOpenConnections)
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	require.NoError(t, ping(context.Background(), db, time.Second))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err = ping(context.Background(), db, time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func newMockPostgres(t *testing.T) (*PostgresConnector, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &PostgresConnector{
		db:     sqlx.NewDb(db, "postgres"),
		logger: zap.NewNop(),
		cfg:    &config.PostgresConfig{Host: "localhost", Port: 5432, Database: "members"},
	}, mock
}

func TestPostgresValidate(t *testing.T) {
	conn, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT version\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("PostgreSQL 16.2"))
	mock.ExpectQuery(`SELECT has_database_privilege`).
		WillReturnRows(sqlmock.NewRows([]string{"has_database_privilege"}).AddRow(true))

	require.NoError(t, conn.Validate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresValidateVersionError(t *testing.T) {
	conn, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT version\(\)`).WillReturnError(errors.New("connection reset"))

	err := conn.Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query PostgreSQL version")
}

func TestSnowflakeValidate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	conn := &SnowflakeConnector{
		db:     sqlx.NewDb(db, "snowflake"),
		logger: zap.NewNop(),
		cfg:    &config.SnowflakeConfig{Database: "CONTACTS"},
	}

	mock.ExpectQuery(`SELECT CURRENT_ROLE\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"ROLE", "DATABASE", "WAREHOUSE"}).
			AddRow("ANALYST", "CONTACTS", "COMPUTE_WH"))
	require.NoError(t, conn.Validate(context.Background()))

	mock.ExpectQuery(`SELECT CURRENT_ROLE\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"ROLE", "DATABASE", "WAREHOUSE"}).
			AddRow("ANALYST", "OTHER", "COMPUTE_WH"))
	err = conn.Validate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connected to wrong database")
}

func TestFactoryRequiresLoadedConfig(t *testing.T) {
	f := NewConnectorFactory(&config.Config{Source: config.SourceFile}, zap.NewNop())

	conn, err := f.CreateSourceConnector(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, conn)

	_, err = f.CreatePostgresConnector(context.Background())
	assert.Error(t, err)
	_, err = f.CreateSnowflakeConnector(context.Background())
	assert.Error(t, err)
}
