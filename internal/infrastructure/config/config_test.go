package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "opticrm-lookup", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Positive(t, cfg.Lookup.FetchTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OPTICRM_DATABASE_HOST", "db.internal")
	t.Setenv("OPTICRM_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate_RejectsBadPort(t *testing.T) {
	cfg := &Config{
		App:      AppConfig{Port: "8080"},
		Database: DatabaseConfig{Host: "localhost", Port: 99999},
	}

	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	cfg := &Config{
		App:      AppConfig{Port: "8080"},
		Database: DatabaseConfig{Host: "localhost", Port: 5432},
		Log:      LogConfig{Level: "loud"},
	}

	assert.Error(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "opticrm", Password: "secret",
		DBName: "opticrm", SSLMode: "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=opticrm password=secret dbname=opticrm sslmode=disable",
		cfg.DSN(),
	)
}

func TestDatabaseConfig_URL_EscapesCredentials(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "opticrm", Password: "p@ss/word",
		DBName: "opticrm", SSLMode: "disable",
	}

	url := cfg.URL()
	assert.Contains(t, url, "postgres://opticrm:")
	assert.NotContains(t, url, "p@ss/word")
}

func TestAppConfig_IsProduction(t *testing.T) {
	assert.True(t, AppConfig{Env: "production"}.IsProduction())
	assert.False(t, AppConfig{Env: "development"}.IsProduction())
}
