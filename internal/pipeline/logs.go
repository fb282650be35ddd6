package pipeline

import (
	"context"
	"fmt"
	"strings"

	"songlake/internal/ddl"
	"songlake/internal/domain"
)

// startTimeExpr converts the epoch-millisecond ts column into a wall-clock
// TIMESTAMP in tz. UTC keeps millisecond precision without the ICU
// extension.
func startTimeExpr(tz string) string {
	if tz == "" || strings.EqualFold(tz, "UTC") {
		return "epoch_ms(ts)"
	}
	return fmt.Sprintf("timezone(%s, to_timestamp(ts / 1000.0))", ddl.QuoteLiteral(tz))
}

// playsQuery keeps NextSong events from relation and derives start_time.
func playsQuery(relation, tz string) string {
	return fmt.Sprintf("SELECT *, %s AS start_time FROM %s WHERE page = %s",
		startTimeExpr(tz), ddl.QuoteIdentifier(relation), ddl.QuoteLiteral(domain.PlayPage))
}

// timeQuery decomposes every distinct start_time of relation. week is the
// ISO week number, weekday the abbreviated English day name.
func timeQuery(relation string) string {
	return `SELECT
	start_time,
	hour(start_time) AS hour,
	day(start_time) AS day,
	week(start_time) AS week,
	month(start_time) AS month,
	year(start_time) AS year,
	strftime(start_time, '%a') AS weekday
FROM (SELECT DISTINCT start_time FROM ` + ddl.QuoteIdentifier(relation) + ` WHERE start_time IS NOT NULL)`
}

// buildLogs loads the event log, keeps plays, and writes the users and time
// dimensions. Users are projected without further deduplication, so a user
// seen with different levels keeps one row per distinct event.
func (r *Runner) buildLogs(ctx context.Context, st *runState) error {
	if err := r.logs.Load(ctx, domain.RelationRawEvents); err != nil {
		return err
	}
	if err := r.materialize(ctx, domain.RelationStagedEvents, dedupQuery(domain.RelationRawEvents)); err != nil {
		return err
	}
	if err := r.materialize(ctx, domain.RelationPlays, playsQuery(domain.RelationStagedEvents, r.opts.TimeZone)); err != nil {
		return err
	}

	if err := r.materialize(ctx, domain.TableUsers, projectQuery(domain.RelationPlays, domain.UsersSpec)); err != nil {
		return err
	}
	if err := r.write(ctx, domain.UsersSpec, st); err != nil {
		return err
	}

	if err := r.materialize(ctx, domain.TableTime, timeQuery(domain.RelationPlays)); err != nil {
		return err
	}
	return r.write(ctx, domain.TimeSpec, st)
}
