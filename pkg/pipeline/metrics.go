// pkg/pipeline/metrics.go
package pipeline

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// StageMetrics tracks one stage execution
type StageMetrics struct {
	Stage       string
	Duration    time.Duration
	Corrections int
	Skipped     bool
}

// Metrics tracks metrics for a cleaning run
type Metrics struct {
	mu                sync.Mutex
	logger            *zap.Logger
	StartTime         time.Time
	EndTime           time.Time
	Stages            []StageMetrics
	CorrectionsByType map[model.CorrectionType]int
	RowsIn            int
	RowsOut           int
	NullsFilled       int
}

// NewMetrics creates a new Metrics instance
func NewMetrics(logger *zap.Logger) *Metrics {
	return &Metrics{
		logger:            logger,
		StartTime:         time.Now(),
		CorrectionsByType: make(map[model.CorrectionType]int),
	}
}

// RecordStage records a completed stage and tallies its corrections
func (m *Metrics) RecordStage(stage string, duration time.Duration, out model.Report, corrections []model.Correction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Stages = append(m.Stages, StageMetrics{
		Stage:       stage,
		Duration:    duration,
		Corrections: len(corrections),
		Skipped:     out.Skipped,
	})
	for _, c := range corrections {
		m.CorrectionsByType[c.Type]++
	}
}

// Finish stamps the end time and the output row count
func (m *Metrics) Finish(rowsOut int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EndTime = time.Now()
	m.RowsOut = rowsOut
}

// Duration returns the total duration of the run
func (m *Metrics) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// TotalCorrections returns the number of entries across all types
func (m *Metrics) TotalCorrections() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.CorrectionsByType {
		total += n
	}
	return total
}

// LogSummary logs the run metrics once at the end of a run
func (m *Metrics) LogSummary() {
	if m.logger == nil {
		return
	}
	duration := m.Duration()

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.Stages {
		m.logger.Debug("Stage timing",
			zap.String("stage", s.Stage),
			zap.Duration("duration", s.Duration),
			zap.Int("corrections", s.Corrections),
			zap.Bool("skipped", s.Skipped))
	}

	types := make([]string, 0, len(m.CorrectionsByType))
	for t := range m.CorrectionsByType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	fields := []zap.Field{
		zap.Duration("duration", duration),
		zap.Int("rowsIn", m.RowsIn),
		zap.Int("rowsOut", m.RowsOut),
		zap.Int("nullsFilled", m.NullsFilled),
	}
	for _, t := range types {
		fields = append(fields, zap.Int(t, m.CorrectionsByType[model.CorrectionType(t)]))
	}
	m.logger.Info("Run metrics", fields...)
}
