package domain

import (
	"database/sql"
	"time"
)

// RawSongRecord is one song-metadata record as found in song_data.
// Pointer fields are nullable in the source.
type RawSongRecord struct {
	NumSongs        *int64   `json:"num_songs,omitempty"`
	ArtistID        string   `json:"artist_id"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
	ArtistLocation  *string  `json:"artist_location"`
	ArtistName      string   `json:"artist_name"`
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	Duration        float64  `json:"duration"`
	Year            int64    `json:"year"`
}

// RawLogRecord is one user-activity event as found in log_data.
// Ts is milliseconds since the Unix epoch.
type RawLogRecord struct {
	Artist        *string  `json:"artist"`
	Auth          string   `json:"auth,omitempty"`
	FirstName     string   `json:"firstName"`
	Gender        string   `json:"gender"`
	ItemInSession int64    `json:"itemInSession,omitempty"`
	LastName      string   `json:"lastName"`
	Length        *float64 `json:"length"`
	Level         string   `json:"level"`
	Location      string   `json:"location"`
	Method        string   `json:"method,omitempty"`
	Page          string   `json:"page"`
	Registration  *float64 `json:"registration,omitempty"`
	SessionID     string   `json:"sessionId"`
	Song          *string  `json:"song"`
	Status        int64    `json:"status,omitempty"`
	Ts            int64    `json:"ts"`
	UserAgent     string   `json:"userAgent"`
	UserID        string   `json:"userId"`
}

// Song is a row of songs_table.
type Song struct {
	SongID   string
	Title    string
	ArtistID string
	Year     int64
	Duration float64
}

// Artist is a row of artists_table.
type Artist struct {
	ArtistID        string
	ArtistName      string
	ArtistLocation  sql.NullString
	ArtistLatitude  sql.NullFloat64
	ArtistLongitude sql.NullFloat64
}

// User is a row of users_table.
type User struct {
	UserID    string
	FirstName sql.NullString
	LastName  sql.NullString
	Gender    sql.NullString
	Level     sql.NullString
}

// TimeRow is a row of time_table. Every field but StartTime is derived from it.
type TimeRow struct {
	StartTime time.Time
	Hour      int64
	Day       int64
	Week      int64
	Month     int64
	Year      int64
	Weekday   string
}

// Songplay is a row of songplays_table.
type Songplay struct {
	SongplayID int64
	StartTime  time.Time
	UserID     sql.NullString
	Level      sql.NullString
	SongID     string
	ArtistID   string
	SessionID  sql.NullString
	Location   sql.NullString
	UserAgent  sql.NullString
	Year       int64
	Month      int64
}
