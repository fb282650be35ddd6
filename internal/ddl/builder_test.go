package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateS3Secret(t *testing.T) {
	tests := []struct {
		name    string
		in      S3Secret
		want    string
		wantErr string
	}{
		{
			name: "aws_defaults",
			in:   S3Secret{Name: "songlake_s3", KeyID: "AKIA", Secret: "s3cr3t", Region: "us-west-2"},
			want: "CREATE OR REPLACE SECRET \"songlake_s3\" (\n\tTYPE S3,\n\tKEY_ID 'AKIA',\n\tSECRET 's3cr3t',\n\tREGION 'us-west-2'\n)",
		},
		{
			name: "custom_endpoint",
			in: S3Secret{
				Name: "songlake_s3", KeyID: "k", Secret: "s", Region: "eu-central",
				Endpoint: "fsn1.your-objectstorage.com", URLStyle: "path",
			},
			want: "CREATE OR REPLACE SECRET \"songlake_s3\" (\n\tTYPE S3,\n\tKEY_ID 'k',\n\tSECRET 's',\n\tREGION 'eu-central',\n\tENDPOINT 'fsn1.your-objectstorage.com',\n\tURL_STYLE 'path'\n)",
		},
		{
			name: "escapes_secret",
			in:   S3Secret{Name: "s", KeyID: "k", Secret: "it's"},
			want: "CREATE OR REPLACE SECRET \"s\" (\n\tTYPE S3,\n\tKEY_ID 'k',\n\tSECRET 'it''s'\n)",
		},
		{name: "missing_secret", in: S3Secret{Name: "s", KeyID: "k"}, wantErr: "key id and secret are required"},
		{name: "bad_name", in: S3Secret{Name: "my-secret", KeyID: "k", Secret: "s"}, wantErr: "invalid secret name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateS3Secret(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateAzureSecret(t *testing.T) {
	got, err := CreateAzureSecret("songlake_azure", "", "", "DefaultEndpointsProtocol=https;AccountName=a")
	require.NoError(t, err)
	assert.Contains(t, got, "CONNECTION_STRING 'DefaultEndpointsProtocol=https;AccountName=a'")

	got, err = CreateAzureSecret("songlake_azure", "acct", "key", "")
	require.NoError(t, err)
	assert.Contains(t, got, "AccountName=acct;AccountKey=key")

	_, err = CreateAzureSecret("songlake_azure", "acct", "", "")
	require.Error(t, err)
}

func TestCreateGCSSecret(t *testing.T) {
	got, err := CreateGCSSecret("songlake_gcs", "GOOG1", "hmac")
	require.NoError(t, err)
	assert.Contains(t, got, "TYPE GCS")
	assert.Contains(t, got, "KEY_ID 'GOOG1'")

	_, err = CreateGCSSecret("songlake_gcs", "", "hmac")
	require.Error(t, err)
}

func TestDropSecret(t *testing.T) {
	got, err := DropSecret("songlake_s3")
	require.NoError(t, err)
	assert.Equal(t, `DROP SECRET IF EXISTS "songlake_s3"`, got)
}

func TestSetGlobal(t *testing.T) {
	got, err := SetGlobal("threads", "4")
	require.NoError(t, err)
	assert.Equal(t, "SET GLOBAL threads = 4", got)

	got, err = SetGlobal("TimeZone", "UTC")
	require.NoError(t, err)
	assert.Equal(t, "SET GLOBAL TimeZone = 'UTC'", got)

	_, err = SetGlobal("memory_limit", "")
	require.Error(t, err)
}

func TestReadJSON(t *testing.T) {
	got, err := ReadJSON("/data/song_data/*/*/*/*.json", []Column{
		{Name: "song_id", Type: "VARCHAR"},
		{Name: "year", Type: "bigint"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"read_json('/data/song_data/*/*/*/*.json', format = 'newline_delimited', columns = {'song_id': 'VARCHAR', 'year': 'BIGINT'})",
		got)

	_, err = ReadJSON("", []Column{{Name: "a", Type: "VARCHAR"}})
	require.Error(t, err)
	_, err = ReadJSON("x.json", nil)
	require.Error(t, err)
	_, err = ReadJSON("x.json", []Column{{Name: "a", Type: "MAP"}})
	require.Error(t, err)
}

func TestReadParquet(t *testing.T) {
	got, err := ReadParquet("/out/time_table/**/*.parquet", true)
	require.NoError(t, err)
	assert.Equal(t, "read_parquet('/out/time_table/**/*.parquet', hive_partitioning = true)", got)
}

func TestCreateTableAs(t *testing.T) {
	got, err := CreateTableAs("staged_songs", "SELECT DISTINCT * FROM raw_songs")
	require.NoError(t, err)
	assert.Equal(t, "CREATE OR REPLACE TABLE \"staged_songs\" AS\nSELECT DISTINCT * FROM raw_songs", got)

	_, err = CreateTableAs("staged songs", "SELECT 1")
	require.Error(t, err)
	_, err = CreateTableAs("t", "  ")
	require.Error(t, err)
}

func TestCountRows(t *testing.T) {
	got, err := CountRows("users_table")
	require.NoError(t, err)
	assert.Equal(t, `SELECT count(*) FROM "users_table"`, got)
}

func TestCopyToParquet(t *testing.T) {
	tests := []struct {
		name    string
		in      ParquetCopy
		want    string
		wantErr string
	}{
		{
			name: "flat",
			in: ParquetCopy{
				Relation:    "artists_table",
				Columns:     []string{"artist_id", "artist_name"},
				Destination: "/out/artists_table/part-0.parquet",
			},
			want: `COPY (SELECT "artist_id", "artist_name" FROM "artists_table") TO '/out/artists_table/part-0.parquet' (FORMAT PARQUET, COMPRESSION snappy)`,
		},
		{
			name: "partitioned",
			in: ParquetCopy{
				Relation:    "time_table",
				Columns:     []string{"start_time", "month", "year"},
				Destination: "s3://bucket/time_table",
				PartitionBy: []string{"year", "month"},
				Compression: "ZSTD",
			},
			want: `COPY (SELECT "start_time", "month", "year" FROM "time_table") TO 's3://bucket/time_table' (FORMAT PARQUET, COMPRESSION zstd, PARTITION_BY ("year", "month"), OVERWRITE_OR_IGNORE true)`,
		},
		{
			name: "partition_not_projected",
			in: ParquetCopy{
				Relation: "songs_table", Columns: []string{"song_id"}, Destination: "/out/songs",
				PartitionBy: []string{"year"},
			},
			wantErr: `partition column "year" is not projected`,
		},
		{
			name:    "bad_codec",
			in:      ParquetCopy{Relation: "t", Columns: []string{"a"}, Destination: "/x", Compression: "brotli"},
			wantErr: "unsupported parquet compression",
		},
		{
			name:    "no_destination",
			in:      ParquetCopy{Relation: "t", Columns: []string{"a"}},
			wantErr: "destination is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CopyToParquet(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
