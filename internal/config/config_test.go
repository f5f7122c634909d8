package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // без .env файла

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StoreFile, cfg.PlanStore)
	assert.Equal(t, "plans", cfg.PlansDir)
	assert.Equal(t, "last_routing.json", cfg.CurrentPlanName)
	assert.Equal(t, []string{"python", "src/step5_agent_logic.py"}, cfg.SimulatorCommand)
	assert.Equal(t, 2*time.Minute, cfg.SimulatorTimeout)
	assert.Equal(t, 3, cfg.WebhookMaxRetries)
	assert.False(t, cfg.NeedsRedis())
}

func TestLoadConfig_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PLAN_STORE", "Redis")
	t.Setenv("SIMULATOR_TIMEOUT", "30s")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("S3_USE_SSL", "true")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, StoreRedis, cfg.PlanStore)
	assert.Equal(t, 30*time.Second, cfg.SimulatorTimeout)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.S3UseSSL)
	assert.True(t, cfg.NeedsRedis())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{name: "unknown store", env: map[string]string{"PLAN_STORE": "tape"}, msg: "unknown PLAN_STORE"},
		{name: "postgres without url", env: map[string]string{"PLAN_STORE": "postgres"}, msg: "DATABASE_URL"},
		{name: "s3 without credentials", env: map[string]string{"PLAN_STORE": "s3"}, msg: "S3_ACCESS_KEY"},
		{name: "empty simulator", env: map[string]string{"SIMULATOR_COMMAND": " "}, msg: "SIMULATOR_COMMAND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("DATABASE_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig()
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
