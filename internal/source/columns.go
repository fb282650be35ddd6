package source

import "songlake/internal/ddl"

// SongColumns is the read schema of song-metadata records.
var SongColumns = []ddl.Column{
	{Name: "num_songs", Type: "BIGINT"},
	{Name: "artist_id", Type: "VARCHAR"},
	{Name: "artist_latitude", Type: "DOUBLE"},
	{Name: "artist_longitude", Type: "DOUBLE"},
	{Name: "artist_location", Type: "VARCHAR"},
	{Name: "artist_name", Type: "VARCHAR"},
	{Name: "song_id", Type: "VARCHAR"},
	{Name: "title", Type: "VARCHAR"},
	{Name: "duration", Type: "DOUBLE"},
	{Name: "year", Type: "BIGINT"},
}

// LogColumns is the read schema of user-activity log events. userId and
// sessionId are VARCHAR so both numeric and string encodings load.
var LogColumns = []ddl.Column{
	{Name: "artist", Type: "VARCHAR"},
	{Name: "auth", Type: "VARCHAR"},
	{Name: "firstName", Type: "VARCHAR"},
	{Name: "gender", Type: "VARCHAR"},
	{Name: "itemInSession", Type: "BIGINT"},
	{Name: "lastName", Type: "VARCHAR"},
	{Name: "length", Type: "DOUBLE"},
	{Name: "level", Type: "VARCHAR"},
	{Name: "location", Type: "VARCHAR"},
	{Name: "method", Type: "VARCHAR"},
	{Name: "page", Type: "VARCHAR"},
	{Name: "registration", Type: "DOUBLE"},
	{Name: "sessionId", Type: "VARCHAR"},
	{Name: "song", Type: "VARCHAR"},
	{Name: "status", Type: "BIGINT"},
	{Name: "ts", Type: "BIGINT"},
	{Name: "userAgent", Type: "VARCHAR"},
	{Name: "userId", Type: "VARCHAR"},
}
