package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFrom_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "Asia/Tokyo", cfg.Calendar.TimeZone)
	assert.Equal(t, "admin_session", cfg.Admin.CookieName)
	assert.Len(t, cfg.Prompt.Guidelines, 3)
	assert.Contains(t, cfg.Prompt.UpcomingSection, "{{events}}")
	assert.Equal(t, "/files/photos", cfg.Storage.PhotosPublicPrefix)
}

func TestLoadConfigFrom_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9090
database:
  driver: sqlite
  dsn: ":memory:"
calendar:
  time_zone: Europe/Berlin
chat:
  api_key: from-file
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("ADMIN_TOKEN", "secret-token")

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Chat.APIKey)
	assert.Equal(t, "secret-token", cfg.Admin.Token)

	loc, err := cfg.Calendar.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadConfigFrom_InvalidTimeZone(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("calendar:\n  time_zone: Mars/Olympus\n"), 0o644))

	_, err := LoadConfigFrom(dir)
	assert.Error(t, err)
}
