// pkg/tableio/sql.go
package tableio

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// SQLSource reads the contact table from a database query
type SQLSource struct {
	db      *sqlx.DB
	query   string
	name    string
	logger  *zap.Logger
	timeout time.Duration
}

// NewSQLSource creates a source that runs query on db. name labels the
// source in logs and the audit table.
func NewSQLSource(db *sqlx.DB, name, query string, logger *zap.Logger) *SQLSource {
	return &SQLSource{
		db:      db,
		query:   query,
		name:    name,
		logger:  logger.Named("sql-source"),
		timeout: 5 * time.Minute,
	}
}

// WithTimeout sets the query timeout
func (s *SQLSource) WithTimeout(timeout time.Duration) *SQLSource {
	s.timeout = timeout
	return s
}

// Name returns the source label
func (s *SQLSource) Name() string { return s.name }

// Read runs the query and collects every row. Byte slices are converted to
// strings; NULL stays nil.
func (s *SQLSource) Read(ctx context.Context) (*model.Table, error) {
	if s.query == "" {
		return nil, &SourceError{Path: s.name, Op: "query", Err: errors.New("query cannot be empty")}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info("Reading contacts from database", zap.String("source", s.name))

	rows, err := s.db.QueryxContext(ctx, s.query)
	if err != nil {
		return nil, &SourceError{Path: s.name, Op: "query", Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &SourceError{Path: s.name, Op: "query", Err: err}
	}

	t := model.NewTable(columns...)
	for rows.Next() {
		values := make(map[string]interface{}, len(columns))
		if err := rows.MapScan(values); err != nil {
			return nil, &SourceError{Path: s.name, Op: "parse", Err: err}
		}
		for k, v := range values {
			if b, ok := v.([]byte); ok {
				values[k] = string(b)
			}
		}
		t.Rows = append(t.Rows, model.Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, &SourceError{Path: s.name, Op: "query", Err: err}
	}

	s.logger.Info("Read contacts from database",
		zap.String("source", s.name),
		zap.Int("records", t.Len()),
		zap.Strings("columns", columns))
	return t, nil
}
