// pkg/model/report.go
package model

// Count is a named tally in a stage report
type Count struct {
	Name  string
	Value int
}

// Flagged is a row that failed a stage's check, captured as it looked at that moment
type Flagged struct {
	Index int
	Row   Row
}

// Report summarises one pipeline stage. Flagged rows are informational only;
// they are never removed from the table.
type Report struct {
	Stage   string
	Skipped bool   // The stage had nothing to do (column missing or not configured)
	Note    string // Why the stage was skipped
	Missing bool   // Skipped because a referenced column is absent from the table
	Counts  []Count
	Flagged []Flagged
}

// NewReport creates an empty report for a stage
func NewReport(stage string) Report {
	return Report{Stage: stage}
}

// Add increments a named count, creating it on first use
func (r *Report) Add(name string, delta int) {
	for i := range r.Counts {
		if r.Counts[i].Name == name {
			r.Counts[i].Value += delta
			return
		}
	}
	r.Counts = append(r.Counts, Count{Name: name, Value: delta})
}

// Get returns a named count, or zero when the count was never recorded
func (r Report) Get(name string) int {
	for _, c := range r.Counts {
		if c.Name == name {
			return c.Value
		}
	}
	return 0
}

// Flag records a row snapshot as failing the stage's check
func (r *Report) Flag(index int, row Row) {
	r.Flagged = append(r.Flagged, Flagged{Index: index, Row: row.Clone()})
}
