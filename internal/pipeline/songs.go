package pipeline

import (
	"context"
	"fmt"

	"songlake/internal/ddl"
	"songlake/internal/domain"
)

// dedupQuery removes rows identical in every column. Rows sharing a key but
// differing elsewhere are kept.
func dedupQuery(relation string) string {
	return "SELECT DISTINCT * FROM " + ddl.QuoteIdentifier(relation)
}

// projectQuery selects spec's columns from relation.
func projectQuery(relation string, spec domain.TableSpec) string {
	return fmt.Sprintf("SELECT %s FROM %s", ddl.QuoteIdentifiers(spec.Columns), ddl.QuoteIdentifier(relation))
}

// buildSongs loads song metadata, stages it, and writes the songs and
// artists dimensions.
func (r *Runner) buildSongs(ctx context.Context, st *runState) error {
	if err := r.songs.Load(ctx, domain.RelationRawSongs); err != nil {
		return err
	}
	if err := r.materialize(ctx, domain.RelationStagedSongs, dedupQuery(domain.RelationRawSongs)); err != nil {
		return err
	}
	for _, spec := range []domain.TableSpec{domain.SongsSpec, domain.ArtistsSpec} {
		if err := r.materialize(ctx, spec.Name, projectQuery(domain.RelationStagedSongs, spec)); err != nil {
			return err
		}
		if err := r.write(ctx, spec, st); err != nil {
			return err
		}
	}
	return nil
}
