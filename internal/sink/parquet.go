// Package sink persists output tables from the engine session as Parquet.
package sink

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"songlake/internal/ddl"
	"songlake/internal/domain"
	"songlake/internal/storage"
)

// FlatFile is the single file an unpartitioned table is written to.
const FlatFile = "part-0.parquet"

var _ domain.Sink = (*ParquetSink)(nil)

// ParquetSink writes each table to <output>/<table name>, replacing whatever
// a previous run left there.
type ParquetSink struct {
	db          *sql.DB
	output      string
	compression string
	purger      storage.Purger
	logger      *slog.Logger
}

// NewParquetSink creates a sink rooted at output. An empty compression
// selects snappy.
func NewParquetSink(db *sql.DB, output, compression string, purger storage.Purger, logger *slog.Logger) *ParquetSink {
	if compression == "" {
		compression = ddl.CompressionSnappy
	}
	return &ParquetSink{
		db:          db,
		output:      storage.NormalizeURI(output),
		compression: compression,
		purger:      purger,
		logger:      logger,
	}
}

// Destination returns the directory a table is written to.
func (s *ParquetSink) Destination(table string) string {
	return TableDestination(s.output, table)
}

// TableDestination returns the directory of table under output.
func TableDestination(output, table string) string {
	return storage.Join(storage.NormalizeURI(output), table)
}

// Write implements domain.Sink. The relation named spec.Name must exist in
// the session.
func (s *ParquetSink) Write(ctx context.Context, spec domain.TableSpec) (*domain.TableResult, error) {
	dest := s.Destination(spec.Name)
	start := time.Now()

	target := dest
	if !spec.Partitioned() {
		target = storage.Join(dest, FlatFile)
	}
	stmt, err := ddl.CopyToParquet(ddl.ParquetCopy{
		Relation:    spec.Name,
		Columns:     spec.Columns,
		Destination: target,
		PartitionBy: spec.PartitionBy,
		Compression: s.compression,
	})
	if err != nil {
		return nil, domain.ErrSinkWrite(spec.Name, dest, err)
	}
	countStmt, err := ddl.CountRows(spec.Name)
	if err != nil {
		return nil, domain.ErrSinkWrite(spec.Name, dest, err)
	}

	if err := s.purger.Purge(ctx, dest); err != nil {
		return nil, domain.ErrSinkWrite(spec.Name, dest, fmt.Errorf("purge: %w", err))
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return nil, domain.ErrSinkWrite(spec.Name, dest, fmt.Errorf("copy: %w", err))
	}

	var rows int64
	if err := s.db.QueryRowContext(ctx, countStmt).Scan(&rows); err != nil {
		return nil, domain.ErrSinkWrite(spec.Name, dest, fmt.Errorf("count rows: %w", err))
	}

	s.logger.Info("table written",
		"table", spec.Name,
		"rows", rows,
		"destination", dest,
		"partition_by", spec.PartitionBy,
		"duration", time.Since(start),
	)
	return &domain.TableResult{
		Name:        spec.Name,
		Rows:        rows,
		Destination: dest,
		PartitionBy: spec.PartitionBy,
	}, nil
}
