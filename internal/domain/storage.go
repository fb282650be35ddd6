package domain

import "strings"

// StorageType identifies the storage backend behind a location URI.
type StorageType string

// Supported storage types.
const (
	StorageTypeLocal StorageType = "LOCAL"
	StorageTypeS3    StorageType = "S3"
	StorageTypeAzure StorageType = "AZURE"
	StorageTypeGCS   StorageType = "GCS"
)

// StorageTypeOf classifies a location by its URI scheme. Paths without a
// recognized scheme are local.
func StorageTypeOf(uri string) StorageType {
	lower := strings.ToLower(uri)
	switch {
	case strings.HasPrefix(lower, "s3://"), strings.HasPrefix(lower, "s3a://"), strings.HasPrefix(lower, "s3n://"):
		return StorageTypeS3
	case strings.HasPrefix(lower, "gs://"), strings.HasPrefix(lower, "gcs://"):
		return StorageTypeGCS
	case strings.HasPrefix(lower, "az://"), strings.HasPrefix(lower, "azure://"), strings.HasPrefix(lower, "abfss://"):
		return StorageTypeAzure
	default:
		return StorageTypeLocal
	}
}

// StorageCredentials carries object-storage credentials explicitly from
// configuration into the engine session and the storage clients. Nothing in
// the pipeline reads credentials from the process environment.
type StorageCredentials struct {
	// S3 fields
	S3KeyID        string `yaml:"s3_key_id"`
	S3Secret       string `yaml:"s3_secret"`
	S3SessionToken string `yaml:"s3_session_token"`
	S3Region       string `yaml:"s3_region"`
	S3Endpoint     string `yaml:"s3_endpoint"`  // host[:port] without scheme; empty for AWS
	S3URLStyle     string `yaml:"s3_url_style"` // "path" or "vhost"

	// GCS fields
	GCSKeyFile    string `yaml:"gcs_key_file"`    // service-account JSON for the storage client
	GCSHMACKeyID  string `yaml:"gcs_hmac_key_id"` // HMAC key for the engine's GCS secret
	GCSHMACSecret string `yaml:"gcs_hmac_secret"`

	// Azure fields
	AzureAccountName      string `yaml:"azure_account_name"`
	AzureAccountKey       string `yaml:"azure_account_key"`
	AzureConnectionString string `yaml:"azure_connection_string"`
}

// HasS3 reports whether static S3 credentials are present.
func (c StorageCredentials) HasS3() bool {
	return c.S3KeyID != "" && c.S3Secret != ""
}

// HasGCS reports whether GCS HMAC credentials are present.
func (c StorageCredentials) HasGCS() bool {
	return c.GCSHMACKeyID != "" && c.GCSHMACSecret != ""
}

// HasAzure reports whether Azure credentials are present.
func (c StorageCredentials) HasAzure() bool {
	return c.AzureConnectionString != "" || (c.AzureAccountName != "" && c.AzureAccountKey != "")
}
