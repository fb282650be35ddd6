package domain

import (
	"context"
	"time"
)

// Source materializes a raw input dataset inside the engine session.
// Implemented by source.JSONSource.
type Source interface {
	// Load creates or replaces relation with the source's records.
	Load(ctx context.Context, relation string) error
	// Location describes where the records are read from, for logs and errors.
	Location() string
}

// Sink persists an output table from the engine session, replacing any prior
// contents at the table's destination. Implemented by sink.ParquetSink.
type Sink interface {
	Write(ctx context.Context, spec TableSpec) (*TableResult, error)
}

// TableResult reports one completed table write.
type TableResult struct {
	Name        string   `json:"name"`
	Rows        int64    `json:"rows"`
	Destination string   `json:"destination"`
	PartitionBy []string `json:"partition_by,omitempty"`
}

// StageResult reports one completed pipeline stage.
type StageResult struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration_ns"`
}

// RunReport summarizes a complete pipeline run.
type RunReport struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Stages     []StageResult `json:"stages"`
	Tables     []TableResult `json:"tables"`
}

// Table returns the result for the named table, or nil when it was not written.
func (r *RunReport) Table(name string) *TableResult {
	for i := range r.Tables {
		if r.Tables[i].Name == name {
			return &r.Tables[i]
		}
	}
	return nil
}
