package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"todoApp/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(config.TableEnv, "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultTable, cfg.Store.Table)
	assert.Equal(t, "us-east-1", cfg.Store.Region)
	assert.Equal(t, config.RepoDynamo, cfg.Repository.Type)
	assert.Equal(t, "0.0.0.0:80", cfg.GetServerAddr())
	assert.Zero(t, cfg.RateLimit.RPM)
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Setenv(config.TableEnv, "")

	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTable, cfg.Store.Table)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv(config.TableEnv, "")

	cfg, err := config.Load(writeConfig(t, `
server:
  port: "8080"
repository:
  type: redis
store:
  table: tasks-from-file
  redis_url: redis://localhost:6379/0
cors:
  allowed_origins: ["https://example.com"]
`))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, config.RepoRedis, cfg.Repository.Type)
	assert.Equal(t, "tasks-from-file", cfg.Store.Table)
	assert.Equal(t, "us-east-1", cfg.Store.Region)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvTableWins(t *testing.T) {
	t.Setenv(config.TableEnv, "todo-table-prod")

	cfg, err := config.Load(writeConfig(t, "store:\n  table: tasks-from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "todo-table-prod", cfg.Store.Table)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(config.TableEnv, "")

	tests := []struct {
		name string
		body string
	}{
		{name: "broken yaml", body: "server: [unclosed"},
		{name: "unknown repository", body: "repository:\n  type: cassandra\n"},
		{name: "postgres without url", body: "repository:\n  type: postgres\n"},
		{name: "redis without url", body: "repository:\n  type: redis\n"},
		{name: "empty table", body: "store:\n  table: \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
