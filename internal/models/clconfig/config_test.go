package clconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExampleConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "neuronet.yaml")

	written, err := CreateExampleConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, filename, written)

	config, err := LoadConfig(written)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", config.Database.Db)
	assert.Equal(t, "0.0.0.0:8080", config.Listen.Website)
	assert.Equal(t, "NeuroNet AI Solutions", config.Site.Name)
	assert.Equal(t, "deepseek-chat", config.AI.Model)
	assert.Equal(t, 500, config.AI.MaxTokens)
	assert.Equal(t, "0 9 * * *", config.Newsletter.Cron)
}

func TestLoadConfigApplyDefaults(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "minimal.yaml")

	// Une configuration minimale doit hériter des valeurs par défaut
	content := "database:\n  db: sqlite\n  path: ./test.db\nlisten:\n  website: 127.0.0.1:9000\n"
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))

	config, err := LoadConfig(filename)
	require.NoError(t, err)

	assert.Equal(t, "https://api.deepseek.com/chat/completions", config.AI.Endpoint)
	assert.Equal(t, "deepseek-chat", config.AI.Model)
	assert.InDelta(t, 0.7, config.AI.Temperature, 0.0001)
	assert.Equal(t, 20, config.AI.TimeoutSec)
	assert.Equal(t, 1000, config.Newsletter.DelayMs)
	assert.Equal(t, 365, config.Analytics.RetentionDays)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}
