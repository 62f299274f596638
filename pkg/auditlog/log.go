// pkg/auditlog/log.go
package auditlog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// Sink persists correction entries. Write is called once per flush with
// every entry in emission order.
type Sink interface {
	Name() string
	Write(ctx context.Context, entries []model.Correction) error
}

// Log is the append-only correction log shared by all stages of a run.
// It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []model.Correction
	now     func() time.Time
	flushed bool
}

// New creates an empty correction log
func New() *Log {
	return &Log{now: time.Now}
}

// WithClock replaces the timestamp source, used by tests
func (l *Log) WithClock(now func() time.Time) *Log {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

// Append stamps the entries with the emission time and adds them to the log
func (l *Log) Append(entries ...model.Correction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range entries {
		if e.Timestamp.IsZero() {
			e.Timestamp = l.now()
		}
		l.entries = append(l.entries, e)
	}
}

// Len returns the number of entries recorded so far
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Entries returns a copy of the recorded entries in emission order
func (l *Log) Entries() []model.Correction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Correction(nil), l.entries...)
}

// CountByType tallies entries per correction type
func (l *Log) CountByType() map[model.CorrectionType]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := make(map[model.CorrectionType]int)
	for _, e := range l.entries {
		counts[e.Type]++
	}
	return counts
}

// ErrAlreadyFlushed is returned when Flush is called more than once
var ErrAlreadyFlushed = errors.New("correction log already flushed")

// Flush writes every entry to each sink. A log is flushed once per run;
// all sinks are attempted even when one fails.
func (l *Log) Flush(ctx context.Context, sinks ...Sink) error {
	l.mu.Lock()
	if l.flushed {
		l.mu.Unlock()
		return ErrAlreadyFlushed
	}
	l.flushed = true
	entries := append([]model.Correction(nil), l.entries...)
	l.mu.Unlock()

	var errs []error
	for _, sink := range sinks {
		if err := sink.Write(ctx, entries); err != nil {
			errs = append(errs, fmt.Errorf("sink %s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}
