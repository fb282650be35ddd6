// Package testutil provides input fixtures and mock implementations of
// domain interfaces for tests across the codebase.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"songlake/internal/domain"
)

// Ptr returns a pointer to v. Handy for the nullable fields of raw records.
func Ptr[T any](v T) *T {
	return &v
}

// WriteSongFile writes rec as a one-line JSON file under
// base/song_data/<a>/<b>/<c>/, the layout DefaultSongPattern matches.
func WriteSongFile(t testing.TB, base string, rec domain.RawSongRecord) string {
	t.Helper()
	a, b, c := "A", "A", "A"
	if len(rec.SongID) >= 5 {
		a, b, c = rec.SongID[2:3], rec.SongID[3:4], rec.SongID[4:5]
	}
	path := filepath.Join(base, "song_data", a, b, c, rec.SongID+".json")
	writeLines(t, path, rec)
	return path
}

// WriteSongLines writes several song records as newline-delimited JSON to
// base/song_data/A/B/C/<name>.
func WriteSongLines(t testing.TB, base, name string, records ...domain.RawSongRecord) string {
	t.Helper()
	path := filepath.Join(base, "song_data", "A", "B", "C", name)
	vals := make([]any, len(records))
	for i, r := range records {
		vals[i] = r
	}
	writeLines(t, path, vals...)
	return path
}

// WriteLogFile writes records as newline-delimited JSON to
// base/log_data/2018/11/<name>, the layout DefaultLogPattern matches.
func WriteLogFile(t testing.TB, base, name string, records ...domain.RawLogRecord) string {
	t.Helper()
	path := filepath.Join(base, "log_data", "2018", "11", name)
	vals := make([]any, len(records))
	for i, r := range records {
		vals[i] = r
	}
	writeLines(t, path, vals...)
	return path
}

// WriteRawFile writes content verbatim to base/rel, creating parent
// directories.
func WriteRawFile(t testing.TB, base, rel, content string) string {
	t.Helper()
	path := filepath.Join(base, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func writeLines(t testing.TB, path string, vals ...any) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	for _, v := range vals {
		if err := enc.Encode(v); err != nil {
			t.Fatalf("encode %s: %v", path, err)
		}
	}
}

// SampleSong is the song record used by the end-to-end scenarios.
func SampleSong() domain.RawSongRecord {
	return domain.RawSongRecord{
		NumSongs:        Ptr(int64(1)),
		ArtistID:        "AR5KOSW1187FB35FF4",
		ArtistLatitude:  Ptr(49.80388),
		ArtistLongitude: Ptr(15.47491),
		ArtistLocation:  Ptr("Dubai UAE"),
		ArtistName:      "Elena",
		SongID:          "SOZCTXZ12AB0182364",
		Title:           "Setanta matins",
		Duration:        269.58322,
		Year:            0,
	}
}

// SampleEvent is a NextSong event that matches SampleSong. Its timestamp is
// 2018-11-02 01:25:34.796 UTC.
func SampleEvent() domain.RawLogRecord {
	return domain.RawLogRecord{
		Artist:        Ptr("Elena"),
		Auth:          "Logged In",
		FirstName:     "Lily",
		Gender:        "F",
		ItemInSession: 5,
		LastName:      "Koch",
		Length:        Ptr(269.58322),
		Level:         "paid",
		Location:      "Chicago-Naperville-Elgin, IL-IN-WI",
		Method:        "PUT",
		Page:          domain.PlayPage,
		Registration:  Ptr(1.541048010796e12),
		SessionID:     "818",
		Song:          Ptr("Setanta matins"),
		Status:        200,
		Ts:            1541121934796,
		UserAgent:     `"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"`,
		UserID:        "15",
	}
}
