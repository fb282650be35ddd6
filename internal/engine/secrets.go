package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"songlake/internal/ddl"
	"songlake/internal/domain"
)

// Secret names created in a session.
const (
	SecretS3    = "songlake_s3"
	SecretGCS   = "songlake_gcs"
	SecretAzure = "songlake_azure"
)

// SecretManager creates and drops DuckDB secrets on a database.
type SecretManager struct {
	db *sql.DB
}

// NewSecretManager creates a SecretManager for db.
func NewSecretManager(db *sql.DB) *SecretManager {
	return &SecretManager{db: db}
}

// CreateSecrets creates one secret per needed storage type that has
// credentials. A needed type without credentials relies on DuckDB's own
// credential chain (instance profile, env) and is only logged.
func (m *SecretManager) CreateSecrets(ctx context.Context, creds domain.StorageCredentials,
	needed map[domain.StorageType]bool, logger *slog.Logger) error {

	if needed[domain.StorageTypeS3] {
		if creds.HasS3() {
			if err := m.CreateS3Secret(ctx, creds); err != nil {
				return err
			}
			logger.Info("S3 secret created", "secret", SecretS3, "region", creds.S3Region)
		} else {
			logger.Warn("no S3 credentials configured, using DuckDB defaults")
		}
	}
	if needed[domain.StorageTypeGCS] {
		if creds.HasGCS() {
			if err := m.CreateGCSSecret(ctx, creds); err != nil {
				return err
			}
			logger.Info("GCS secret created", "secret", SecretGCS)
		} else {
			logger.Warn("no GCS HMAC credentials configured, using DuckDB defaults")
		}
	}
	if needed[domain.StorageTypeAzure] {
		if creds.HasAzure() {
			if err := m.CreateAzureSecret(ctx, creds); err != nil {
				return err
			}
			logger.Info("Azure secret created", "secret", SecretAzure)
		} else {
			logger.Warn("no Azure credentials configured, using DuckDB defaults")
		}
	}
	return nil
}

// CreateS3Secret creates the session's S3 secret.
func (m *SecretManager) CreateS3Secret(ctx context.Context, creds domain.StorageCredentials) error {
	stmt, err := ddl.CreateS3Secret(ddl.S3Secret{
		Name:         SecretS3,
		KeyID:        creds.S3KeyID,
		Secret:       creds.S3Secret,
		SessionToken: creds.S3SessionToken,
		Region:       creds.S3Region,
		Endpoint:     creds.S3Endpoint,
		URLStyle:     creds.S3URLStyle,
	})
	if err != nil {
		return fmt.Errorf("build DDL: %w", err)
	}
	return m.exec(ctx, SecretS3, stmt)
}

// CreateGCSSecret creates the session's GCS secret.
func (m *SecretManager) CreateGCSSecret(ctx context.Context, creds domain.StorageCredentials) error {
	stmt, err := ddl.CreateGCSSecret(SecretGCS, creds.GCSHMACKeyID, creds.GCSHMACSecret)
	if err != nil {
		return fmt.Errorf("build DDL: %w", err)
	}
	return m.exec(ctx, SecretGCS, stmt)
}

// CreateAzureSecret creates the session's Azure secret.
func (m *SecretManager) CreateAzureSecret(ctx context.Context, creds domain.StorageCredentials) error {
	stmt, err := ddl.CreateAzureSecret(SecretAzure, creds.AzureAccountName, creds.AzureAccountKey, creds.AzureConnectionString)
	if err != nil {
		return fmt.Errorf("build DDL: %w", err)
	}
	return m.exec(ctx, SecretAzure, stmt)
}

// DropSecret removes a named secret.
func (m *SecretManager) DropSecret(ctx context.Context, name string) error {
	stmt, err := ddl.DropSecret(name)
	if err != nil {
		return fmt.Errorf("build DDL: %w", err)
	}
	return m.exec(ctx, name, stmt)
}

func (m *SecretManager) exec(ctx context.Context, name, stmt string) error {
	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("secret %q: %w", name, err)
	}
	return nil
}
