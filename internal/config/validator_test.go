package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEnv_MissingVersion(t *testing.T) {
	t.Setenv("ENV_SCHEMA_VERSION", "")

	err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV_SCHEMA_VERSION is not set")
}

func TestValidateEnv_VersionMismatch(t *testing.T) {
	t.Setenv("ENV_SCHEMA_VERSION", "0.9")

	err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1.0, got 0.9")
}

func TestValidateEnv_MissingPostgresVars(t *testing.T) {
	t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
	t.Setenv("STORE_BACKEND", StoreBackendPostgres)
	for _, v := range RequiredPostgresEnvVars {
		t.Setenv(v, "")
	}

	err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestValidateEnv_MemoryBackendNeedsNoDatabase(t *testing.T) {
	t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
	t.Setenv("STORE_BACKEND", StoreBackendMemory)
	for _, v := range RequiredPostgresEnvVars {
		t.Setenv(v, "")
	}

	assert.NoError(t, ValidateEnv())
}
