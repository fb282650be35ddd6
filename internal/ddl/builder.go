// Package ddl builds the DuckDB statements the pipeline runs: secrets, source
// readers, table materialization, and Parquet export.
package ddl

import (
	"fmt"
	"slices"
	"strings"
)

// Column declares one column of a JSON source.
type Column struct {
	Name string
	Type string
}

// Parquet compression codecs accepted by CopyToParquet.
const (
	CompressionSnappy       = "snappy"
	CompressionZstd         = "zstd"
	CompressionGzip         = "gzip"
	CompressionUncompressed = "uncompressed"
)

// ValidateCompression checks codec against the supported Parquet codecs.
func ValidateCompression(codec string) error {
	switch strings.ToLower(codec) {
	case CompressionSnappy, CompressionZstd, CompressionGzip, CompressionUncompressed:
		return nil
	default:
		return fmt.Errorf("unsupported parquet compression %q", codec)
	}
}

// S3Secret holds the parameters of a DuckDB S3 secret. Empty optional fields
// are omitted from the statement so DuckDB applies its defaults.
type S3Secret struct {
	Name         string
	KeyID        string
	Secret       string
	SessionToken string
	Region       string
	Endpoint     string
	URLStyle     string
}

// CreateS3Secret returns a CREATE OR REPLACE SECRET statement of TYPE S3.
func CreateS3Secret(s S3Secret) (string, error) {
	if err := ValidateIdentifier(s.Name); err != nil {
		return "", fmt.Errorf("invalid secret name: %w", err)
	}
	if s.KeyID == "" || s.Secret == "" {
		return "", fmt.Errorf("key id and secret are required")
	}
	opts := []string{
		"TYPE S3",
		"KEY_ID " + QuoteLiteral(s.KeyID),
		"SECRET " + QuoteLiteral(s.Secret),
	}
	if s.SessionToken != "" {
		opts = append(opts, "SESSION_TOKEN "+QuoteLiteral(s.SessionToken))
	}
	if s.Region != "" {
		opts = append(opts, "REGION "+QuoteLiteral(s.Region))
	}
	if s.Endpoint != "" {
		opts = append(opts, "ENDPOINT "+QuoteLiteral(s.Endpoint))
	}
	if s.URLStyle != "" {
		opts = append(opts, "URL_STYLE "+QuoteLiteral(s.URLStyle))
	}
	return createSecret(s.Name, opts), nil
}

// CreateGCSSecret returns a CREATE OR REPLACE SECRET statement of TYPE GCS
// using HMAC interoperability keys.
func CreateGCSSecret(name, keyID, secret string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", fmt.Errorf("invalid secret name: %w", err)
	}
	if keyID == "" || secret == "" {
		return "", fmt.Errorf("hmac key id and secret are required")
	}
	return createSecret(name, []string{
		"TYPE GCS",
		"KEY_ID " + QuoteLiteral(keyID),
		"SECRET " + QuoteLiteral(secret),
	}), nil
}

// CreateAzureSecret returns a CREATE OR REPLACE SECRET statement of TYPE AZURE.
// A connection string takes precedence over account name and key.
func CreateAzureSecret(name, accountName, accountKey, connectionString string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", fmt.Errorf("invalid secret name: %w", err)
	}
	if connectionString != "" {
		return createSecret(name, []string{
			"TYPE AZURE",
			"CONNECTION_STRING " + QuoteLiteral(connectionString),
		}), nil
	}
	if accountName == "" || accountKey == "" {
		return "", fmt.Errorf("connection string or account name and key are required")
	}
	conn := fmt.Sprintf("DefaultEndpointsProtocol=https;AccountName=%s;AccountKey=%s;EndpointSuffix=core.windows.net", accountName, accountKey)
	return createSecret(name, []string{
		"TYPE AZURE",
		"CONNECTION_STRING " + QuoteLiteral(conn),
	}), nil
}

func createSecret(name string, opts []string) string {
	return fmt.Sprintf("CREATE OR REPLACE SECRET %s (\n\t%s\n)", QuoteIdentifier(name), strings.Join(opts, ",\n\t"))
}

// DropSecret returns DROP SECRET IF EXISTS "<name>".
func DropSecret(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", fmt.Errorf("invalid secret name: %w", err)
	}
	return "DROP SECRET IF EXISTS " + QuoteIdentifier(name), nil
}

// SetGlobal returns SET GLOBAL <option> = <value>. The value is emitted as a
// string literal unless it is numeric.
func SetGlobal(option, value string) (string, error) {
	if err := ValidateIdentifier(option); err != nil {
		return "", fmt.Errorf("invalid option name: %w", err)
	}
	if value == "" {
		return "", fmt.Errorf("value for %s is required", option)
	}
	if isDigits(value) {
		return fmt.Sprintf("SET GLOBAL %s = %s", option, value), nil
	}
	return fmt.Sprintf("SET GLOBAL %s = %s", option, QuoteLiteral(value)), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// ReadJSON returns a read_json table function over a newline-delimited JSON
// glob with an explicit column schema. Keys not listed are ignored and listed
// keys missing from a record read as NULL.
func ReadJSON(glob string, columns []Column) (string, error) {
	if glob == "" {
		return "", fmt.Errorf("source glob is required")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("at least one column is required")
	}
	fields := make([]string, len(columns))
	for i, c := range columns {
		if err := ValidateIdentifier(c.Name); err != nil {
			return "", fmt.Errorf("invalid column name: %w", err)
		}
		if err := ValidateColumnType(c.Type); err != nil {
			return "", fmt.Errorf("invalid type for column %q: %w", c.Name, err)
		}
		fields[i] = fmt.Sprintf("%s: %s", QuoteLiteral(c.Name), QuoteLiteral(strings.ToUpper(c.Type)))
	}
	return fmt.Sprintf("read_json(%s, format = 'newline_delimited', columns = {%s})",
		QuoteLiteral(glob), strings.Join(fields, ", ")), nil
}

// ReadParquet returns a read_parquet table function over glob. With hive set,
// key=value directory names are decoded back into columns.
func ReadParquet(glob string, hive bool) (string, error) {
	if glob == "" {
		return "", fmt.Errorf("parquet glob is required")
	}
	return fmt.Sprintf("read_parquet(%s, hive_partitioning = %t)", QuoteLiteral(glob), hive), nil
}

// CreateTableAs returns CREATE OR REPLACE TABLE "<name>" AS <query>.
func CreateTableAs(name, query string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", fmt.Errorf("invalid table name: %w", err)
	}
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query for %s is required", name)
	}
	return fmt.Sprintf("CREATE OR REPLACE TABLE %s AS\n%s", QuoteIdentifier(name), query), nil
}

// CountRows returns SELECT count(*) FROM "<name>".
func CountRows(name string) (string, error) {
	if err := ValidateIdentifier(name); err != nil {
		return "", fmt.Errorf("invalid table name: %w", err)
	}
	return "SELECT count(*) FROM " + QuoteIdentifier(name), nil
}

// ParquetCopy describes a COPY of a projected relation to Parquet.
type ParquetCopy struct {
	Relation    string
	Columns     []string
	Destination string   // a file for flat copies, a directory for partitioned ones
	PartitionBy []string // hive-style key=value directories, in order
	Compression string
}

// CopyToParquet returns the COPY statement for c. Partitioned copies use
// OVERWRITE_OR_IGNORE so an emptied destination directory is accepted.
func CopyToParquet(c ParquetCopy) (string, error) {
	if err := ValidateIdentifier(c.Relation); err != nil {
		return "", fmt.Errorf("invalid relation name: %w", err)
	}
	if len(c.Columns) == 0 {
		return "", fmt.Errorf("at least one column is required")
	}
	if c.Destination == "" {
		return "", fmt.Errorf("destination is required")
	}
	for _, col := range c.Columns {
		if err := ValidateIdentifier(col); err != nil {
			return "", fmt.Errorf("invalid column name: %w", err)
		}
	}
	codec := c.Compression
	if codec == "" {
		codec = CompressionSnappy
	}
	if err := ValidateCompression(codec); err != nil {
		return "", err
	}

	opts := []string{"FORMAT PARQUET", "COMPRESSION " + strings.ToLower(codec)}
	if len(c.PartitionBy) > 0 {
		for _, p := range c.PartitionBy {
			if !slices.Contains(c.Columns, p) {
				return "", fmt.Errorf("partition column %q is not projected", p)
			}
		}
		opts = append(opts, fmt.Sprintf("PARTITION_BY (%s)", QuoteIdentifiers(c.PartitionBy)), "OVERWRITE_OR_IGNORE true")
	}

	return fmt.Sprintf("COPY (SELECT %s FROM %s) TO %s (%s)",
		QuoteIdentifiers(c.Columns),
		QuoteIdentifier(c.Relation),
		QuoteLiteral(c.Destination),
		strings.Join(opts, ", "),
	), nil
}
