// pkg/guard/guard.go
package guard

import (
	"fmt"

	"go.uber.org/zap"
)

// RowCountError reports that records were added or dropped between the
// input snapshot and the cleaned table
type RowCountError struct {
	Before int
	After  int
}

// Difference returns after minus before
func (e *RowCountError) Difference() int {
	return e.After - e.Before
}

func (e *RowCountError) Error() string {
	return fmt.Sprintf("record count changed from %d to %d (difference %+d)", e.Before, e.After, e.Difference())
}

// RowCountGuard decides whether a cleaned table may be persisted
type RowCountGuard struct {
	logger *zap.Logger
}

// NewRowCountGuard creates a guard that logs through the given logger
func NewRowCountGuard(logger *zap.Logger) *RowCountGuard {
	return &RowCountGuard{logger: logger.Named("guard")}
}

// Check returns nil when the counts match and a *RowCountError otherwise
func (g *RowCountGuard) Check(before, after int) error {
	if before == after {
		g.logger.Info("Record count verification successful",
			zap.Int("count", before))
		return nil
	}

	err := &RowCountError{Before: before, After: after}
	g.logger.Error("Record count mismatch",
		zap.Int("before", before),
		zap.Int("after", after),
		zap.Int("difference", err.Difference()))
	return err
}
