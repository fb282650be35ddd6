package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"songlake/internal/ddl"
	"songlake/internal/domain"
	"songlake/internal/storage"
)

// Glob returns the read pattern covering every file ParquetSink writes for
// spec under output.
func Glob(output string, spec domain.TableSpec) string {
	dest := TableDestination(output, spec.Name)
	if spec.Partitioned() {
		return storage.Join(dest, "**/*.parquet")
	}
	return storage.Join(dest, "*.parquet")
}

// Reader reads tables back from an output location. Partition columns are
// recovered from the hive-style directory names.
type Reader struct {
	db     *sql.DB
	output string
}

// NewReader creates a Reader over output.
func NewReader(db *sql.DB, output string) *Reader {
	return &Reader{db: db, output: output}
}

// Preview is a table's column names and a slice of its rows.
type Preview struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Preview returns up to limit rows of the named output table. A limit of
// zero or less returns every row.
func (r *Reader) Preview(ctx context.Context, table string, limit int) (*Preview, error) {
	spec, ok := domain.LookupSpec(table)
	if !ok {
		return nil, domain.ErrValidation("unknown table %q", table)
	}
	rows, err := r.query(ctx, spec, false, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	p := &Preview{Table: spec.Name, Columns: spec.Columns}
	for rows.Next() {
		vals := make([]any, len(spec.Columns))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", spec.Name, err)
		}
		p.Rows = append(p.Rows, vals)
	}
	return p, rows.Err()
}

// Count returns the number of rows stored for spec.
func (r *Reader) Count(ctx context.Context, spec domain.TableSpec) (int64, error) {
	glob := Glob(r.output, spec)
	reader, err := ddl.ReadParquet(glob, spec.Partitioned())
	if err != nil {
		return 0, err
	}
	found, err := r.hasFiles(ctx, glob)
	if err != nil || !found {
		return 0, err
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM "+reader).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", spec.Name, err)
	}
	return n, nil
}

func (r *Reader) query(ctx context.Context, spec domain.TableSpec, ordered bool, limit int) (*sql.Rows, error) {
	glob := Glob(r.output, spec)
	reader, err := ddl.ReadParquet(glob, spec.Partitioned())
	if err != nil {
		return nil, err
	}
	found, err := r.hasFiles(ctx, glob)
	if err != nil {
		return nil, err
	}
	if !found {
		// A table written with zero rows leaves no partition files.
		reader = "(SELECT " + nullColumns(spec.Columns) + " WHERE false)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", ddl.QuoteIdentifiers(spec.Columns), reader)
	if ordered {
		b.WriteString(" ORDER BY ALL")
	}
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	rows, err := r.db.QueryContext(ctx, b.String())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", spec.Name, err)
	}
	return rows, nil
}

// hasFiles reports whether glob matches at least one file.
func (r *Reader) hasFiles(ctx context.Context, glob string) (bool, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM glob("+ddl.QuoteLiteral(glob)+")").Scan(&n); err != nil {
		return false, fmt.Errorf("list %s: %w", glob, err)
	}
	return n > 0, nil
}

func nullColumns(columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = "NULL AS " + ddl.QuoteIdentifier(c)
	}
	return strings.Join(cols, ", ")
}

// scanAll reads every row of spec in a stable order, calling scan per row.
func scanAll[T any](ctx context.Context, r *Reader, spec domain.TableSpec, scan func(*sql.Rows, *T) error) ([]T, error) {
	rows, err := r.query(ctx, spec, true, 0)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []T
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", spec.Name, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Songs reads songs_table.
func (r *Reader) Songs(ctx context.Context) ([]domain.Song, error) {
	return scanAll(ctx, r, domain.SongsSpec, func(rows *sql.Rows, s *domain.Song) error {
		return rows.Scan(&s.SongID, &s.Title, &s.ArtistID, &s.Year, &s.Duration)
	})
}

// Artists reads artists_table.
func (r *Reader) Artists(ctx context.Context) ([]domain.Artist, error) {
	return scanAll(ctx, r, domain.ArtistsSpec, func(rows *sql.Rows, a *domain.Artist) error {
		return rows.Scan(&a.ArtistID, &a.ArtistName, &a.ArtistLocation, &a.ArtistLatitude, &a.ArtistLongitude)
	})
}

// Users reads users_table.
func (r *Reader) Users(ctx context.Context) ([]domain.User, error) {
	return scanAll(ctx, r, domain.UsersSpec, func(rows *sql.Rows, u *domain.User) error {
		return rows.Scan(&u.UserID, &u.FirstName, &u.LastName, &u.Gender, &u.Level)
	})
}

// Time reads time_table.
func (r *Reader) Time(ctx context.Context) ([]domain.TimeRow, error) {
	return scanAll(ctx, r, domain.TimeSpec, func(rows *sql.Rows, t *domain.TimeRow) error {
		return rows.Scan(&t.StartTime, &t.Hour, &t.Day, &t.Week, &t.Month, &t.Year, &t.Weekday)
	})
}

// Songplays reads songplays_table.
func (r *Reader) Songplays(ctx context.Context) ([]domain.Songplay, error) {
	return scanAll(ctx, r, domain.SongplaysSpec, func(rows *sql.Rows, p *domain.Songplay) error {
		return rows.Scan(&p.SongplayID, &p.StartTime, &p.UserID, &p.Level, &p.SongID, &p.ArtistID,
			&p.SessionID, &p.Location, &p.UserAgent, &p.Year, &p.Month)
	})
}
