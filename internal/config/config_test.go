package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, BackendCSV, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join("data", "tickets.csv"), cfg.Storage.TicketsFile())
	assert.Equal(t, filepath.Join("data", "ticket_history.csv"), cfg.Storage.HistoryFile())
	assert.Equal(t, filepath.Join("data", "uploads"), cfg.Storage.UploadsDir)
	assert.Equal(t, "/uploads", cfg.Storage.PublicPath)
	assert.False(t, cfg.Auth.Required)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, 5*time.Second, cfg.Notification.Timeout())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATA_DIR", "/var/lib/tickets")
	t.Setenv("STORAGE_BACKEND", "Memory")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/tickets/uploads", cfg.Storage.UploadsDir)
	assert.True(t, cfg.Auth.Required)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "redis db", env: map[string]string{"REDIS_DB": "zero"}},
		{name: "backend", env: map[string]string{"STORAGE_BACKEND": "sqlite"}},
		{name: "postgres without dsn", env: map[string]string{"STORAGE_BACKEND": "postgres"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
