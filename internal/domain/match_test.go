package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatchStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchStrategy
		wantErr bool
	}{
		{in: "", want: MatchByTitle},
		{in: "title", want: MatchByTitle},
		{in: " Title_Artist ", want: MatchByTitleArtist},
		{in: "fuzzy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMatchStrategy(tt.in)
			if tt.wantErr {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupSpec(t *testing.T) {
	spec, ok := LookupSpec(TableSongplays)
	require.True(t, ok)
	assert.Equal(t, []string{"year", "month"}, spec.PartitionBy)
	assert.True(t, spec.Partitioned())

	spec, ok = LookupSpec(TableArtists)
	require.True(t, ok)
	assert.False(t, spec.Partitioned())

	spec, ok = LookupSpec("time")
	require.True(t, ok)
	assert.Equal(t, TableTime, spec.Name)

	_, ok = LookupSpec("nope")
	assert.False(t, ok)
}

func TestRunReportTable(t *testing.T) {
	r := &RunReport{Tables: []TableResult{{Name: TableSongs, Rows: 3}}}
	require.NotNil(t, r.Table(TableSongs))
	assert.Equal(t, int64(3), r.Table(TableSongs).Rows)
	assert.Nil(t, r.Table(TableTime))
}
