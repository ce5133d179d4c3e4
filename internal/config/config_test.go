package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  host: db.internal
  port: 3306
  user: app
  password: secret
  name: technews
jwt:
  secret: test-secret
workflow:
  poll_interval: 30
  min_schedule_lead: 120
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "app:secret@tcp(db.internal:3306)/technews?charset=utf8mb4&parseTime=True&loc=UTC", cfg.Database.GetDSN())
	assert.Equal(t, 30*time.Second, cfg.Workflow.PollIntervalDuration())
	assert.Equal(t, 2*time.Minute, cfg.Workflow.MinScheduleLeadDuration())
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: test-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Workflow.PollIntervalDuration())
	assert.Equal(t, time.Minute, cfg.Workflow.MinScheduleLeadDuration())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, `
server:
  port: 8080
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("WORKFLOW_POLL_INTERVAL", "15")

	path := writeConfig(t, `
jwt:
  secret: file-secret
workflow:
  poll_interval: 60
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 15*time.Second, cfg.Workflow.PollIntervalDuration())
}
