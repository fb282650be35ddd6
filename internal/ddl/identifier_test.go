package ddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "snake", input: "songs_table"},
		{name: "camel", input: "userAgent"},
		{name: "underscore_prefix", input: "_staged"},
		{name: "max_length", input: strings.Repeat("a", 128)},

		{name: "empty", input: "", wantErr: "name is required"},
		{name: "too_long", input: strings.Repeat("a", 129), wantErr: "at most 128 characters"},
		{name: "starts_with_digit", input: "1table", wantErr: "must match"},
		{name: "hyphen", input: "log-data", wantErr: "must match"},
		{name: "dot", input: "main.songs", wantErr: "must match"},
		{name: "injection", input: "x; DROP TABLE y", wantErr: "must match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateColumnType(t *testing.T) {
	for _, ok := range []string{"VARCHAR", "bigint", "Double", "TIMESTAMP"} {
		assert.NoError(t, ValidateColumnType(ok), ok)
	}
	for _, bad := range []string{"", "STRUCT(a INT)", "VARCHAR'; --", "JSON"} {
		assert.Error(t, ValidateColumnType(bad), bad)
	}
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `"songs_table"`, QuoteIdentifier("songs_table"))
	assert.Equal(t, `"a""b"`, QuoteIdentifier(`a"b`))
	assert.Equal(t, `"year", "month"`, QuoteIdentifiers([]string{"year", "month"}))
	assert.Equal(t, "'s3://bucket/log_data'", QuoteLiteral("s3://bucket/log_data"))
	assert.Equal(t, "'/tmp/it''s'", QuoteLiteral("/tmp/it's"))
}
