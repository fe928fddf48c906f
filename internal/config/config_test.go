package config

import (
	"os"
	"path/filepath"
	"testing"

	"agenda/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: agenda
database:
  path: data/agenda.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.HTTP.Port)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, models.WorkStartMinutes, cfg.Business.WorkStartMinutes)
	assert.Equal(t, models.WorkEndMinutes, cfg.Business.WorkEndMinutes)
	assert.Equal(t, models.SlotMinutes, cfg.Business.SlotMinutes)
	assert.Equal(t, models.DefaultLockTTL, cfg.Redis.LockTTL)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("AGENDA_TEST_DB_PATH", "/tmp/agenda-test.db")
	path := writeConfig(t, `
database:
  path: ${AGENDA_TEST_DB_PATH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/agenda-test.db", cfg.Database.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsEmptyWorkWindow(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/agenda.db
business:
  work_start_minutes: 1200
  work_end_minutes: 480
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateTelegramNeedsToken(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/agenda.db
telegram:
  enabled: true
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateGoogleNeedsCredentials(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/agenda.db
google:
  enabled: true
  spreadsheet_id: sheet-id
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRequiresDatabasePath(t *testing.T) {
	path := writeConfig(t, `
app:
  name: agenda
`)

	_, err := Load(path)
	assert.Error(t, err)
}
