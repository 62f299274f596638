// pkg/auditlog/postgres_sink.go
package auditlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// DefaultTable is the audit table used when none is configured
const DefaultTable = "contact_corrections"

// correctionRow is the database shape of one correction entry
type correctionRow struct {
	RunID          string         `db:"run_id"`
	Source         string         `db:"source"`
	RowIndex       int            `db:"row_index"`
	CorrectionType string         `db:"correction_type"`
	Severity       string         `db:"severity"`
	FieldName      string         `db:"field_name"`
	OriginalValue  string         `db:"original_value"`
	NewValue       string         `db:"new_value"`
	FirstName      string         `db:"first_name"`
	LastName       string         `db:"last_name"`
	Email          string         `db:"email"`
	Phone          string         `db:"phone"`
	Details        sql.NullString `db:"details"`
	CorrectedAt    time.Time      `db:"corrected_at"`
}

// PostgresSink stores correction entries in an audit table so source data
// owners can query what was changed per run
type PostgresSink struct {
	db     *sqlx.DB
	logger *zap.Logger
	table  string
	runID  uuid.UUID
	source string
}

// NewPostgresSink creates the sink and ensures the audit table exists
func NewPostgresSink(
	ctx context.Context,
	db *sqlx.DB,
	logger *zap.Logger,
	table string,
	runID uuid.UUID,
	source string,
) (*PostgresSink, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if table == "" {
		table = DefaultTable
	}

	sink := &PostgresSink{
		db:     db,
		logger: logger.Named("audit-db"),
		table:  table,
		runID:  runID,
		source: source,
	}

	if err := sink.setupTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to setup audit table: %w", err)
	}
	return sink, nil
}

// Name returns the sink name
func (s *PostgresSink) Name() string { return "postgres" }

func (s *PostgresSink) setupTable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			run_id UUID NOT NULL,
			source TEXT NOT NULL,
			row_index INTEGER NOT NULL,
			correction_type TEXT NOT NULL,
			severity TEXT NOT NULL,
			field_name TEXT NOT NULL,
			original_value TEXT,
			new_value TEXT,
			first_name TEXT,
			last_name TEXT,
			email TEXT,
			phone TEXT,
			details JSONB,
			corrected_at TIMESTAMP WITH TIME ZONE NOT NULL
		)
	`, pq.QuoteIdentifier(s.table))

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create audit table: %w", err)
	}

	s.logger.Info("Ensured audit table exists", zap.String("table", s.table))
	return nil
}

// Write inserts all entries in a single transaction
func (s *PostgresSink) Write(ctx context.Context, entries []model.Correction) (err error) {
	if len(entries) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.NamedError("cause", err))
			}
		}
	}()

	stmt, err := tx.PrepareNamedContext(ctx, fmt.Sprintf(`
		INSERT INTO %s
		(run_id, source, row_index, correction_type, severity, field_name, original_value,
		 new_value, first_name, last_name, email, phone, details, corrected_at)
		VALUES (:run_id, :source, :row_index, :correction_type, :severity, :field_name, :original_value,
		 :new_value, :first_name, :last_name, :email, :phone, :details, :corrected_at)
	`, pq.QuoteIdentifier(s.table)))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		row, convErr := s.toRow(e)
		if convErr != nil {
			err = convErr
			return err
		}
		if _, err = stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("failed to insert correction: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Recorded corrections",
		zap.Int("count", len(entries)),
		zap.String("run_id", s.runID.String()))
	return nil
}

func (s *PostgresSink) toRow(e model.Correction) (correctionRow, error) {
	row := correctionRow{
		RunID:          s.runID.String(),
		Source:         s.source,
		RowIndex:       e.RowIndex,
		CorrectionType: string(e.Type),
		Severity:       e.Severity.String(),
		FieldName:      e.Field,
		OriginalValue:  e.OldValue,
		NewValue:       e.NewValue,
		FirstName:      e.Identity.FirstName,
		LastName:       e.Identity.LastName,
		Email:          e.Identity.Email,
		Phone:          e.Identity.Phone,
		CorrectedAt:    e.Timestamp,
	}
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			return row, fmt.Errorf("failed to encode details: %w", err)
		}
		row.Details = sql.NullString{String: string(b), Valid: true}
	}
	return row, nil
}
