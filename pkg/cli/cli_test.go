package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songlake/internal/domain"
	"songlake/internal/testutil"
)

// execute runs the root command with args and returns what it printed to
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "--log-level", "error"}, args...))
	restore := captureStdout(t)
	err := cmd.Execute()
	return restore(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "songlake version dev (commit: none)\n", out)

	out, err = execute(t, "version", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"dev","commit":"none"}`, out)
}

func TestRootCmd_RejectsOutputFormat(t *testing.T) {
	_, err := execute(t, "version", "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestTablesCmd(t *testing.T) {
	out, err := execute(t, "tables", "-o", "json")
	require.NoError(t, err)

	var tables []struct {
		Name        string   `json:"name"`
		PartitionBy []string `json:"partition_by"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, 5)
	assert.Equal(t, domain.TableSongs, tables[0].Name)
	assert.Equal(t, []string{"year", "artist_id"}, tables[0].PartitionBy)
	assert.Empty(t, tables[2].PartitionBy)
}

func TestRunAndInspect(t *testing.T) {
	input, output := t.TempDir(), t.TempDir()
	testutil.WriteSongFile(t, input, testutil.SampleSong())
	testutil.WriteLogFile(t, input, "2018-11-02-events.json", testutil.SampleEvent())

	out, err := execute(t, "run", "--input", input, "--output-path", output, "-o", "json")
	require.NoError(t, err)

	var report domain.RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Tables, 5)
	for _, tr := range report.Tables {
		assert.Equal(t, int64(1), tr.Rows, tr.Name)
	}

	out, err = execute(t, "inspect", "users", "--output-path", output, "-o", "json")
	require.NoError(t, err)
	var preview struct {
		Table   string          `json:"table"`
		Columns []string        `json:"columns"`
		Rows    [][]interface{} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.Equal(t, domain.TableUsers, preview.Table)
	require.Len(t, preview.Rows, 1)
	assert.Equal(t, testutil.SampleEvent().UserID, preview.Rows[0][0])

	out, err = execute(t, "inspect", "songplays_table", "--output-path", output)
	require.NoError(t, err)
	assert.Contains(t, out, "SONGPLAY_ID")
	assert.Contains(t, out, testutil.SampleSong().SongID)
}

func TestInspect_UnknownTable(t *testing.T) {
	_, err := execute(t, "inspect", "plays", "--output-path", t.TempDir())
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), `unknown table "plays"`)
}

func TestRun_InvalidFlag(t *testing.T) {
	_, err := execute(t, "run", "--input", t.TempDir(), "--match", "fuzzy")
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestSchedule_RequiresExpression(t *testing.T) {
	_, err := execute(t, "schedule")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a schedule is required")

	_, err = execute(t, "schedule", "--cron", "every tuesday")
	require.Error(t, err)
}

func TestErrorObject(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want map[string]interface{}
	}{
		{
			name: "plain",
			err:  errors.New("boom"),
			want: map[string]interface{}{"error": "boom"},
		},
		{
			name: "validation",
			err:  fmt.Errorf("config: %w", domain.ErrValidation("bad zone")),
			want: map[string]interface{}{"error": "config: bad zone", "kind": "validation"},
		},
		{
			name: "source",
			err:  domain.ErrSourceRead("data/log_data", errors.New("no files")),
			want: map[string]interface{}{
				"error": "read source data/log_data: no files", "kind": "source_read", "source": "data/log_data",
			},
		},
		{
			name: "sink",
			err:  fmt.Errorf("stage songs: %w", domain.ErrSinkWrite("songs_table", "out/songs_table", errors.New("disk full"))),
			want: map[string]interface{}{
				"kind": "sink_write", "table": "songs_table", "destination": "out/songs_table",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorObject(tt.err)
			for k, v := range tt.want {
				assert.Equal(t, v, got[k], k)
			}
		})
	}
}
