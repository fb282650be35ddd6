package domain

// Relation names of the raw, intermediate, and output datasets inside a run's
// engine session. Output tables keep their relation name as their directory
// name under the output location.
const (
	RelationRawSongs     = "raw_songs"
	RelationRawEvents    = "raw_events"
	RelationStagedSongs  = "staged_songs"
	RelationStagedEvents = "staged_events"
	RelationPlays        = "plays"

	TableSongs     = "songs_table"
	TableArtists   = "artists_table"
	TableUsers     = "users_table"
	TableTime      = "time_table"
	TableSongplays = "songplays_table"
)

// PlayPage is the log page tag that marks a song play.
const PlayPage = "NextSong"

// TableSpec describes one output table handed to a Sink.
type TableSpec struct {
	Name        string   // relation in the session; also the output directory name
	Columns     []string // projected columns, in write order
	PartitionBy []string // zero, one or two partition columns
}

// Partitioned reports whether the table is written with partition directories.
func (t TableSpec) Partitioned() bool {
	return len(t.PartitionBy) > 0
}

// Output table layouts.
var (
	SongsSpec = TableSpec{
		Name:        TableSongs,
		Columns:     []string{"song_id", "title", "artist_id", "year", "duration"},
		PartitionBy: []string{"year", "artist_id"},
	}
	ArtistsSpec = TableSpec{
		Name:    TableArtists,
		Columns: []string{"artist_id", "artist_name", "artist_location", "artist_latitude", "artist_longitude"},
	}
	UsersSpec = TableSpec{
		Name:    TableUsers,
		Columns: []string{"userId", "firstName", "lastName", "gender", "level"},
	}
	TimeSpec = TableSpec{
		Name:        TableTime,
		Columns:     []string{"start_time", "hour", "day", "week", "month", "year", "weekday"},
		PartitionBy: []string{"year", "month"},
	}
	SongplaysSpec = TableSpec{
		Name: TableSongplays,
		Columns: []string{
			"songplay_id", "start_time", "user_id", "level", "song_id", "artist_id",
			"session_id", "location", "user_agent", "year", "month",
		},
		PartitionBy: []string{"year", "month"},
	}
)

// OutputSpecs lists every table a successful run writes, in write order.
func OutputSpecs() []TableSpec {
	return []TableSpec{SongsSpec, ArtistsSpec, UsersSpec, TimeSpec, SongplaysSpec}
}

// LookupSpec returns the output layout for a table name. The "_table"
// suffix may be omitted.
func LookupSpec(name string) (TableSpec, bool) {
	for _, s := range OutputSpecs() {
		if s.Name == name || s.Name == name+"_table" {
			return s, true
		}
	}
	return TableSpec{}, false
}
