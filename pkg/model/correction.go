// pkg/model/correction.go
package model

import (
	"fmt"
	"time"
)

// Severity is the log level attached to a correction entry
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// CorrectionType identifies the kind of change or finding recorded
type CorrectionType string

const (
	SpaceCleanup          CorrectionType = "SPACE_CLEANUP"
	PhoneFormat           CorrectionType = "PHONE_FORMAT"
	StateNormalization    CorrectionType = "STATE_NORMALIZATION"
	AddressSpacing        CorrectionType = "ADDRESS_SPACING"
	AddressCaseConversion CorrectionType = "ADDRESS_CASE_CONVERSION"
	AddressStreetType     CorrectionType = "ADDRESS_STREET_TYPE"
	AddressUnitType       CorrectionType = "ADDRESS_UNIT_TYPE"
	InvalidPhone          CorrectionType = "INVALID_PHONE"
	InvalidState          CorrectionType = "INVALID_STATE"
	InvalidValue          CorrectionType = "INVALID_VALUE"
	EmptyValue            CorrectionType = "EMPTY_VALUE"
)

// IsFinding reports whether the type is a data-quality finding rather than
// an applied change
func (t CorrectionType) IsFinding() bool {
	switch t {
	case InvalidPhone, InvalidState, InvalidValue, EmptyValue:
		return true
	default:
		return false
	}
}

// Correction is one audit entry describing an automated change or a data-quality finding.
// Entries are append-only; Timestamp is assigned when the entry reaches the log.
type Correction struct {
	Timestamp time.Time
	Severity  Severity
	Type      CorrectionType
	Field     string
	OldValue  string
	NewValue  string
	RowIndex  int // Zero-based position in the table
	Identity  Identity
	Details   map[string]string // Extra context, e.g. cleaned phone and digit count
}

// NewCorrection creates an info-level correction for an applied change
func NewCorrection(t CorrectionType, field, oldValue, newValue string, rowIndex int, id Identity) Correction {
	return Correction{
		Severity: SeverityInfo,
		Type:     t,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
		RowIndex: rowIndex,
		Identity: id,
	}
}

// NewFinding creates a warning-level entry for a value that was reported but not changed
func NewFinding(t CorrectionType, field, value string, rowIndex int, id Identity) Correction {
	return Correction{
		Severity: SeverityWarning,
		Type:     t,
		Field:    field,
		OldValue: value,
		NewValue: value,
		RowIndex: rowIndex,
		Identity: id,
	}
}

// WithDetail adds a key/value pair of extra context
func (c Correction) WithDetail(key, value string) Correction {
	details := make(map[string]string, len(c.Details)+1)
	for k, v := range c.Details {
		details[k] = v
	}
	details[key] = value
	c.Details = details
	return c
}

// String returns the single-line human readable form written to the run log
func (c Correction) String() string {
	if c.Type.IsFinding() {
		return fmt.Sprintf("%s - %s: '%s' | Name: %s | Email: %s | Phone: %s",
			c.Type, c.Field, c.OldValue, c.Identity.Name(), c.Identity.Email, c.Identity.Phone)
	}
	return fmt.Sprintf("%s - %s: '%s' -> '%s' | Name: %s | Email: %s | Phone: %s",
		c.Type, c.Field, c.OldValue, c.NewValue, c.Identity.Name(), c.Identity.Email, c.Identity.Phone)
}
