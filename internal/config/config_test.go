package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"PORT", "OPENAI_API_KEY", "CLASSIFIER", "ANALYSIS_DELAY", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Analysis.Delay)
	assert.Equal(t, 5, cfg.Analysis.HistorySize)
	assert.Equal(t, int64(5242880), cfg.Upload.MaxBytes)
	assert.Equal(t, "random", cfg.Analysis.Classifier)
	assert.Equal(t, "builtin", cfg.Catalog.Source)
	assert.Equal(t, int64(64<<20), cfg.Upload.MemoryBytes)
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
analysis:
  delay: 250ms
  seed: 42
catalog:
  source: postgres
  seed: true
database:
  host: db
  port: 5432
  user: herb
  password: secret
  name: plants
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Analysis.Delay)
	assert.Equal(t, uint64(42), cfg.Analysis.Seed)
	assert.Equal(t, 5, cfg.Analysis.HistorySize, "untouched default")
	assert.True(t, cfg.Catalog.Seed)
	assert.Equal(t, "host=db port=5432 user=herb password=secret dbname=plants sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, "herb:secret@tcp(db:5432)/plants?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("CLASSIFIER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANALYSIS_DELAY", "1s")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.Analysis.Classifier)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, time.Second, cfg.Analysis.Delay)
}

func TestEnvOverrideBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "PORT")
}

func TestValidate(t *testing.T) {
	t.Run("openai without key", func(t *testing.T) {
		cfg := Default()
		cfg.Analysis.Classifier = "openai"
		assert.ErrorContains(t, cfg.Validate(), "apiKey")
	})
	t.Run("minio without endpoint", func(t *testing.T) {
		cfg := Default()
		cfg.Upload.Store = "minio"
		assert.ErrorContains(t, cfg.Validate(), "minio.endpoint")
	})
	t.Run("unknown values are all reported", func(t *testing.T) {
		cfg := Default()
		cfg.Catalog.Source = "csv"
		cfg.Analysis.Classifier = "magic"
		err := cfg.Validate()
		assert.ErrorContains(t, err, "catalog.source")
		assert.ErrorContains(t, err, "analysis.classifier")
	})
	t.Run("negative preview budget", func(t *testing.T) {
		cfg := Default()
		cfg.Upload.MemoryBytes = -1
		assert.ErrorContains(t, cfg.Validate(), "upload.memoryBytes")
	})
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [oops"))
	assert.Error(t, err)
}
