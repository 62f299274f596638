// pkg/pipeline/errors.go
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/David-Botos/contact-cleanse/pkg/guard"
	"github.com/David-Botos/contact-cleanse/pkg/model"
	"github.com/David-Botos/contact-cleanse/pkg/tableio"
)

// ErrorCategory defines categories of conditions raised during a run
type ErrorCategory int

const (
	CategoryNone ErrorCategory = iota
	// CategoryCorrection is an applied change, logged at info
	CategoryCorrection
	// CategoryDataQuality is a finding that never blocks the run
	CategoryDataQuality
	// CategoryFatal stops the run or blocks persisting its output
	CategoryFatal
	// CategoryEnvironment is an I/O failure outside the data itself
	CategoryEnvironment
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case CategoryNone:
		return "None"
	case CategoryCorrection:
		return "Correction"
	case CategoryDataQuality:
		return "DataQuality"
	case CategoryFatal:
		return "Fatal"
	case CategoryEnvironment:
		return "Environment"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// SchemaError reports required columns missing from the input table
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// Categorize determines the category of an error returned by a run or by
// the table I/O around it
func Categorize(err error) ErrorCategory {
	if err == nil {
		return CategoryNone
	}

	var schemaErr *SchemaError
	var countErr *guard.RowCountError
	var sourceErr *tableio.SourceError

	switch {
	case errors.As(err, &schemaErr), errors.As(err, &countErr):
		return CategoryFatal
	case errors.As(err, &sourceErr):
		return CategoryEnvironment
	default:
		// Unclassified errors stop the run
		return CategoryFatal
	}
}

// CategoryOf classifies a correction entry
func CategoryOf(c model.Correction) ErrorCategory {
	if c.Type.IsFinding() {
		return CategoryDataQuality
	}
	return CategoryCorrection
}
