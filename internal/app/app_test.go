package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songlake/internal/config"
	"songlake/internal/domain"
	"songlake/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnce_LocalEndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Input = t.TempDir()
	cfg.Output = t.TempDir()
	testutil.WriteSongFile(t, cfg.Input, testutil.SampleSong())
	testutil.WriteLogFile(t, cfg.Input, "2018-11-02-events.json", testutil.SampleEvent())

	report, err := RunOnce(ctx, Deps{Cfg: cfg, Logger: discardLogger()})
	require.NoError(t, err)
	require.Len(t, report.Tables, len(domain.OutputSpecs()))
	for _, tr := range report.Tables {
		assert.Equal(t, int64(1), tr.Rows, tr.Name)
	}

	a, err := Open(ctx, Deps{Cfg: cfg, Logger: discardLogger()})
	require.NoError(t, err)
	defer a.Close() //nolint:errcheck

	plays, err := a.Reader().Songplays(ctx)
	require.NoError(t, err)
	require.Len(t, plays, 1)
	assert.Equal(t, testutil.SampleSong().SongID, plays[0].SongID)
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MatchStrategy = "soundex"
	_, err := Open(context.Background(), Deps{Cfg: cfg, Logger: discardLogger()})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	logger := NewLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "table", domain.TableUsers)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, domain.TableUsers, entry["table"])
}
