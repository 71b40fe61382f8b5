package config_test

import (
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/datasim/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestMustLoad_Defaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "data.txt", cfg.OutputPath)
	assert.False(t, cfg.HasSeed)
	assert.False(t, cfg.Progress)
	assert.Empty(t, cfg.MetricsFile)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestMustLoad_FromEnv(t *testing.T) {
	t.Setenv("DATASIM_ENV", "local")
	t.Setenv("DATASIM_OUTPUT", "/tmp/out.txt")
	t.Setenv("DATASIM_SEED", "1234")
	t.Setenv("DATASIM_PROGRESS", "true")
	t.Setenv("DATASIM_METRICS_FILE", "/tmp/datasim.prom")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "/tmp/out.txt", cfg.OutputPath)
	assert.True(t, cfg.HasSeed)
	assert.Equal(t, uint64(1234), cfg.Seed)
	assert.True(t, cfg.Progress)
	assert.Equal(t, "/tmp/datasim.prom", cfg.MetricsFile)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
}

func TestMustLoad_FromFile(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "datasim.yaml")
	filet.File(t, path, `
env: development
output: from-file.txt
seed: 99
db:
  host: filehost
  name: filedb
`)
	t.Setenv("DATASIM_CONFIG", path)
	t.Setenv("DATASIM_OUTPUT", "from-env.txt")

	cfg := config.MustLoad()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "from-env.txt", cfg.OutputPath)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, "filehost", cfg.Database.Host)
	assert.Equal(t, "filedb", cfg.Database.Name)
	assert.Equal(t, "5432", cfg.Database.Port)
}

func TestMustLoad_SeedError(t *testing.T) {
	t.Setenv("DATASIM_SEED", "error_value")

	assert.PanicsWithValue(t, "failed to parse seed from configuration, must be an unsigned integer", func() {
		config.MustLoad()
	})
}

func TestMustLoad_NegativeSeedError(t *testing.T) {
	t.Setenv("DATASIM_SEED", "-1")

	assert.PanicsWithValue(t, "failed to parse seed from configuration, must be an unsigned integer", func() {
		config.MustLoad()
	})
}

func TestMustLoad_ConfigFileError(t *testing.T) {
	t.Setenv("DATASIM_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	assert.PanicsWithValue(t, "failed to read configuration file", func() {
		config.MustLoad()
	})
}
