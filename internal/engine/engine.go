// Package engine bootstraps the embedded DuckDB session a pipeline run
// executes in.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver

	"songlake/internal/ddl"
	"songlake/internal/domain"
)

// Options configures a Session. Credentials are passed explicitly and never
// read from the process environment.
type Options struct {
	Threads     int    // 0 keeps DuckDB's default (one per core)
	MemoryLimit string // e.g. "4GB"; empty keeps DuckDB's default
	Credentials domain.StorageCredentials
	// Locations are every input and output URI the run touches. They decide
	// which extensions are loaded and which secrets are created.
	Locations []string
}

// Session owns one in-memory DuckDB database. All connections from DB()
// share its tables, so stages running on different connections see each
// other's committed output.
type Session struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates an in-memory DuckDB database and prepares it for opts.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Session, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	s := &Session{db: db, logger: logger}
	if err := s.configure(ctx, opts); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// DB returns the session's database handle.
func (s *Session) DB() *sql.DB {
	return s.db
}

// Close releases the database and every table held in it.
func (s *Session) Close() error {
	return s.db.Close()
}

func (s *Session) configure(ctx context.Context, opts Options) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping duckdb: %w", err)
	}

	settings := map[string]string{}
	if opts.Threads > 0 {
		settings["threads"] = strconv.Itoa(opts.Threads)
	}
	if opts.MemoryLimit != "" {
		settings["memory_limit"] = opts.MemoryLimit
	}
	for name, value := range settings {
		stmt, err := ddl.SetGlobal(name, value)
		if err != nil {
			return fmt.Errorf("build setting: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
		s.logger.Debug("duckdb setting applied", "setting", name, "value", value)
	}

	needed := storageTypes(opts.Locations)
	if err := InstallExtensions(ctx, s.db, needed); err != nil {
		return err
	}
	return NewSecretManager(s.db).CreateSecrets(ctx, opts.Credentials, needed, s.logger)
}

// storageTypes returns the remote storage types referenced by locations.
func storageTypes(locations []string) map[domain.StorageType]bool {
	out := make(map[domain.StorageType]bool)
	for _, loc := range locations {
		if t := domain.StorageTypeOf(loc); t != domain.StorageTypeLocal {
			out[t] = true
		}
	}
	return out
}

// InstallExtensions installs and loads the DuckDB extensions needed to reach
// the given storage types. Local-only runs load nothing: json and parquet are
// built into the driver.
func InstallExtensions(ctx context.Context, db *sql.DB, needed map[domain.StorageType]bool) error {
	var extensions []string
	if needed[domain.StorageTypeS3] || needed[domain.StorageTypeGCS] {
		extensions = append(extensions, "INSTALL httpfs; LOAD httpfs;")
	}
	if needed[domain.StorageTypeAzure] {
		extensions = append(extensions, "INSTALL azure; LOAD azure;")
	}
	for _, ext := range extensions {
		if _, err := db.ExecContext(ctx, ext); err != nil {
			return fmt.Errorf("extension setup (%s): %w", ext, err)
		}
	}
	return nil
}
