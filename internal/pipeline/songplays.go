package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"songlake/internal/ddl"
	"songlake/internal/domain"
)

// matchCondition is the join predicate between plays p and staged songs s.
// Matching is exact string equality with no case folding.
func matchCondition(m domain.MatchStrategy) string {
	if m == domain.MatchByTitleArtist {
		return "p.song = s.title AND p.artist = s.artist_name"
	}
	return "p.song = s.title"
}

// songplaysQuery joins plays to songs, numbers the matches from 0, and
// attaches year and month from the time dimension. Plays without a matching
// song or time row are dropped.
func songplaysQuery(m domain.MatchStrategy) string {
	return fmt.Sprintf(`WITH matched AS (
	SELECT p.start_time, p."userId", p.level, s.song_id, s.artist_id, p."sessionId", p.location, p."userAgent"
	FROM %s p
	JOIN %s s ON %s
), keyed AS (
	SELECT row_number() OVER () - 1 AS songplay_id, * FROM matched
)
SELECT
	k.songplay_id,
	k.start_time,
	k."userId" AS user_id,
	k.level,
	k.song_id,
	k.artist_id,
	k."sessionId" AS session_id,
	k.location,
	k."userAgent" AS user_agent,
	t.year,
	t.month
FROM keyed k
JOIN %s t ON k.start_time = t.start_time`,
		ddl.QuoteIdentifier(domain.RelationPlays),
		ddl.QuoteIdentifier(domain.RelationStagedSongs),
		matchCondition(m),
		ddl.QuoteIdentifier(domain.TableTime),
	)
}

// unmatchedQuery counts plays that no staged song matches.
func unmatchedQuery(m domain.MatchStrategy) string {
	return fmt.Sprintf("SELECT count(*) FROM %s p WHERE NOT EXISTS (SELECT 1 FROM %s s WHERE %s)",
		ddl.QuoteIdentifier(domain.RelationPlays),
		ddl.QuoteIdentifier(domain.RelationStagedSongs),
		matchCondition(m),
	)
}

// buildSongplays derives the fact table from the staged songs and plays of
// the two dimension stages.
func (r *Runner) buildSongplays(ctx context.Context, st *runState) error {
	if err := r.materialize(ctx, domain.TableSongplays, songplaysQuery(r.opts.Match)); err != nil {
		return err
	}
	if st.logger.Enabled(ctx, slog.LevelDebug) {
		r.logMatchCounts(ctx, st.logger)
	}
	return r.write(ctx, domain.SongplaysSpec, st)
}

// logMatchCounts reports how many plays the title join resolved. Ambiguous
// titles show up as more songplays than plays.
func (r *Runner) logMatchCounts(ctx context.Context, logger *slog.Logger) {
	var plays, matched, unmatched int64
	countPlays, _ := ddl.CountRows(domain.RelationPlays)
	countMatched, _ := ddl.CountRows(domain.TableSongplays)
	if err := r.db.QueryRowContext(ctx, countPlays).Scan(&plays); err != nil {
		logger.Debug("count plays failed", "error", err)
		return
	}
	if err := r.db.QueryRowContext(ctx, countMatched).Scan(&matched); err != nil {
		logger.Debug("count songplays failed", "error", err)
		return
	}
	if err := r.db.QueryRowContext(ctx, unmatchedQuery(r.opts.Match)).Scan(&unmatched); err != nil {
		logger.Debug("count unmatched plays failed", "error", err)
		return
	}
	logger.Debug("song match",
		"strategy", r.opts.Match,
		"plays", plays,
		"matched", matched,
		"unmatched_plays", unmatched,
	)
}
