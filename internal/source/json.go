// Package source reads the raw newline-delimited JSON datasets into the
// engine session.
package source

import (
	"context"
	"database/sql"
	"fmt"

	"songlake/internal/ddl"
	"songlake/internal/domain"
	"songlake/internal/storage"
)

// Default glob patterns, relative to the input base path.
const (
	DefaultSongPattern = "song_data/*/*/*/*.json"
	DefaultLogPattern  = "log_data/*/*/*.json"
)

var _ domain.Source = (*JSONSource)(nil)

// JSONSource reads every file matching BasePath/Pattern as newline-delimited
// JSON with a fixed column schema.
type JSONSource struct {
	db       *sql.DB
	basePath string
	pattern  string
	columns  []ddl.Column
}

// NewJSONSource creates a JSONSource over basePath joined with pattern.
func NewJSONSource(db *sql.DB, basePath, pattern string, columns []ddl.Column) *JSONSource {
	return &JSONSource{db: db, basePath: basePath, pattern: pattern, columns: columns}
}

// NewSongSource reads song-metadata records.
func NewSongSource(db *sql.DB, basePath, pattern string) *JSONSource {
	if pattern == "" {
		pattern = DefaultSongPattern
	}
	return NewJSONSource(db, basePath, pattern, SongColumns)
}

// NewLogSource reads user-activity log events.
func NewLogSource(db *sql.DB, basePath, pattern string) *JSONSource {
	if pattern == "" {
		pattern = DefaultLogPattern
	}
	return NewJSONSource(db, basePath, pattern, LogColumns)
}

// Location returns the glob the source reads.
func (s *JSONSource) Location() string {
	return storage.Join(storage.NormalizeURI(s.basePath), s.pattern)
}

// Load materializes the matched records as relation. Any failure, including
// a glob that matches no files, is a SourceReadError.
func (s *JSONSource) Load(ctx context.Context, relation string) error {
	loc := s.Location()
	reader, err := ddl.ReadJSON(loc, s.columns)
	if err != nil {
		return domain.ErrSourceRead(loc, err)
	}
	stmt, err := ddl.CreateTableAs(relation, "SELECT * FROM "+reader)
	if err != nil {
		return domain.ErrSourceRead(loc, err)
	}
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return domain.ErrSourceRead(loc, fmt.Errorf("load %s: %w", relation, err))
	}
	return nil
}
