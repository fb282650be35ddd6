package source

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songlake/internal/domain"
	"songlake/internal/engine"
	"songlake/internal/testutil"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	s, err := engine.Open(context.Background(), engine.Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s.DB()
}

func TestSongSource_Load(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	base := t.TempDir()

	song := testutil.SampleSong()
	testutil.WriteSongFile(t, base, song)
	other := testutil.SampleSong()
	other.SongID = "SOBAYLL12A8C138AF9"
	other.Title = "Sono andati? Fingevo di dormire"
	other.ArtistLocation = nil
	other.ArtistLatitude = nil
	testutil.WriteSongFile(t, base, other)

	src := NewSongSource(db, base, "")
	require.NoError(t, src.Load(ctx, domain.RelationRawSongs))

	var n int64
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM raw_songs`).Scan(&n))
	assert.Equal(t, int64(2), n)

	var loc sql.NullString
	var lat sql.NullFloat64
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT artist_location, artist_latitude FROM raw_songs WHERE song_id = 'SOBAYLL12A8C138AF9'`).Scan(&loc, &lat))
	assert.False(t, loc.Valid)
	assert.False(t, lat.Valid)

	var numSongs int64
	var duration float64
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT num_songs, duration FROM raw_songs WHERE song_id = ?`, song.SongID).Scan(&numSongs, &duration))
	assert.Equal(t, int64(1), numSongs)
	assert.InDelta(t, song.Duration, duration, 1e-9)
}

func TestLogSource_Load(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	base := t.TempDir()

	ev := testutil.SampleEvent()
	home := ev
	home.Page = "Home"
	home.Song = nil
	home.Artist = nil
	home.Length = nil
	testutil.WriteLogFile(t, base, "2018-11-02-events.json", ev, home)

	src := NewLogSource(db, base, "")
	require.NoError(t, src.Load(ctx, domain.RelationRawEvents))

	var n int64
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM raw_events`).Scan(&n))
	assert.Equal(t, int64(2), n)

	var ts int64
	var userID, sessionID string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT ts, "userId", "sessionId" FROM raw_events WHERE page = 'NextSong'`).Scan(&ts, &userID, &sessionID))
	assert.Equal(t, int64(1541121934796), ts)
	assert.Equal(t, "15", userID)
	assert.Equal(t, "818", sessionID)
}

func TestLogSource_NumericIdentifiers(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	base := t.TempDir()
	testutil.WriteRawFile(t, base, "log_data/2018/11/numeric.json",
		`{"page":"NextSong","userId":26,"sessionId":583,"ts":1542241826796,"song":"Sehr kosmisch"}`+"\n"+
			`{"page":"Home","userId":"","sessionId":"584","ts":1542241826797}`+"\n")

	require.NoError(t, NewLogSource(db, base, "").Load(ctx, domain.RelationRawEvents))

	var userID, sessionID string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT "userId", "sessionId" FROM raw_events WHERE page = 'NextSong'`).Scan(&userID, &sessionID))
	assert.Equal(t, "26", userID)
	assert.Equal(t, "583", sessionID)

	var firstName sql.NullString
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT "firstName" FROM raw_events WHERE page = 'NextSong'`).Scan(&firstName))
	assert.False(t, firstName.Valid)
}

func TestJSONSource_MissingInput(t *testing.T) {
	db := openDB(t)
	src := NewSongSource(db, t.TempDir(), "")

	err := src.Load(context.Background(), domain.RelationRawSongs)
	require.Error(t, err)

	var readErr *domain.SourceReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, src.Location(), readErr.Source)
}

func TestJSONSource_Location(t *testing.T) {
	src := NewLogSource(nil, "s3a://udacity-dend/", "log_data/*/*/*.json")
	assert.Equal(t, "s3://udacity-dend/log_data/*/*/*.json", src.Location())

	src = NewSongSource(nil, "data", "song_data/A/*/*/*.json")
	assert.Equal(t, "data/song_data/A/*/*/*.json", src.Location())
}

func TestJSONSource_InvalidRelation(t *testing.T) {
	src := NewSongSource(openDB(t), t.TempDir(), "")
	err := src.Load(context.Background(), "raw songs")
	var readErr *domain.SourceReadError
	require.True(t, errors.As(err, &readErr))
}
