package engine

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"songlake/internal/domain"
)

func TestSecretManager_NothingNeeded(t *testing.T) {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := NewSecretManager(db)
	creds := domain.StorageCredentials{S3KeyID: "k", S3Secret: "s"}
	require.NoError(t, m.CreateSecrets(context.Background(), creds, nil, discardLogger()))
}

func TestSecretManager_DropMissingSecret(t *testing.T) {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, NewSecretManager(db).DropSecret(context.Background(), SecretS3))
}

func TestSecretManager_InvalidCredentials(t *testing.T) {
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = NewSecretManager(db).CreateAzureSecret(context.Background(), domain.StorageCredentials{AzureAccountName: "a"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "build DDL")
}
