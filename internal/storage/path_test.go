package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURI(t *testing.T) {
	assert.Equal(t, "s3://udacity-dend/", NormalizeURI("s3a://udacity-dend/"))
	assert.Equal(t, "s3://b/x", NormalizeURI("S3N://b/x"))
	assert.Equal(t, "gs://b/x", NormalizeURI("gcs://b/x"))
	assert.Equal(t, "az://c/x", NormalizeURI("azure://c/x"))
	assert.Equal(t, "s3://b/x", NormalizeURI("s3://b/x"))
	assert.Equal(t, "/tmp/out", NormalizeURI("/tmp/out"))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "s3://bucket/song_data/*/*/*/*.json", Join("s3://bucket/", "song_data/*/*/*/*.json"))
	assert.Equal(t, "/out/songs_table/part-0.parquet", Join("/out", "songs_table", "part-0.parquet"))
	assert.Equal(t, "data/log_data", Join("data//", "/log_data"))
	assert.Equal(t, "log_data", Join("", "log_data"))
	assert.Equal(t, "/out", Join("/out", ""))
}

func TestParseS3Path(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{name: "table_dir", input: "s3://my-bucket/out/songs_table", wantBucket: "my-bucket", wantKey: "out/songs_table"},
		{name: "hadoop_scheme", input: "s3a://my-bucket/out/", wantBucket: "my-bucket", wantKey: "out/"},
		{name: "bucket_root", input: "s3://my-bucket", wantBucket: "my-bucket", wantKey: ""},
		{name: "wrong_scheme", input: "gs://bucket/key", wantErr: true},
		{name: "no_bucket", input: "s3:///key", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := ParseS3Path(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestParseGCSPath(t *testing.T) {
	bucket, key, err := ParseGCSPath("gs://lake/out/time_table")
	require.NoError(t, err)
	assert.Equal(t, "lake", bucket)
	assert.Equal(t, "out/time_table", key)

	_, _, err = ParseGCSPath("s3://lake/out")
	require.Error(t, err)
}

func TestParseAzurePath(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantContainer string
		wantKey       string
		wantErr       bool
	}{
		{name: "az", input: "az://lake/out/users_table", wantContainer: "lake", wantKey: "out/users_table"},
		{name: "abfss", input: "abfss://lake@acct.dfs.core.windows.net/out", wantContainer: "lake", wantKey: "out"},
		{name: "alias", input: "azure://lake/out", wantContainer: "lake", wantKey: "out"},
		{name: "abfss_without_container", input: "abfss://acct.dfs.core.windows.net/out", wantErr: true},
		{name: "wrong_scheme", input: "https://acct.blob.core.windows.net/lake", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, k, err := ParseAzurePath(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantContainer, c)
			assert.Equal(t, tt.wantKey, k)
		})
	}
}
