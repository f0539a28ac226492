package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arolfes/backsnap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_LoadReader_FullConfig(t *testing.T) {
	jsonCfg := `{
  "source": "/home/alice/photos",
  "destination": "gdrive:Backups",
  "exclude": ["*.tmp", ".git"],
  "encrypt": true,
  "name_pattern": "photos",
  "compression_level": 7,
  "keep_local": true,
  "secret_provider": "bitwarden",
  "providers": {
    "bitwarden": {"item": "backup-pw"},
    "vault": {"address": "http://127.0.0.1:8200", "mount": "secret", "path": "backup", "field": "password"}
  }
}`
	parser := NewParser()
	cfg, err := parser.LoadReader(jsonCfg)

	require.NoError(t, err)
	require.NotNil(t, cfg.Source)
	assert.Equal(t, "/home/alice/photos", *cfg.Source)
	require.NotNil(t, cfg.Destination)
	assert.Equal(t, "gdrive:Backups", *cfg.Destination)
	assert.Equal(t, []string{"*.tmp", ".git"}, cfg.Exclude)
	require.NotNil(t, cfg.Encrypt)
	assert.True(t, *cfg.Encrypt)
	require.NotNil(t, cfg.CompressionLevel)
	assert.Equal(t, 7, *cfg.CompressionLevel)
	require.NotNil(t, cfg.KeepLocal)
	assert.True(t, *cfg.KeepLocal)
	require.NotNil(t, cfg.Bitwarden)
	assert.Equal(t, "backup-pw", cfg.Bitwarden.Item)
	require.NotNil(t, cfg.Vault)
	assert.Equal(t, "http://127.0.0.1:8200", cfg.Vault.Address)
	assert.Equal(t, "backup", cfg.Vault.Path)
}

func TestParser_LoadReader_AbsentKeysStayNil(t *testing.T) {
	parser := NewParser()
	cfg, err := parser.LoadReader(`{"source": "/data"}`)

	require.NoError(t, err)
	assert.NotNil(t, cfg.Source)
	assert.Nil(t, cfg.Destination)
	assert.Nil(t, cfg.Encrypt)
	assert.Nil(t, cfg.Exclude)
	assert.Nil(t, cfg.CompressionLevel)
	assert.Nil(t, cfg.Bitwarden)
	assert.Nil(t, cfg.Vault)
}

func TestParser_LoadReader_ExplicitFalseIsPresent(t *testing.T) {
	parser := NewParser()
	cfg, err := parser.LoadReader(`{"encrypt": false}`)

	require.NoError(t, err)
	require.NotNil(t, cfg.Encrypt)
	assert.False(t, *cfg.Encrypt)
}

func TestParser_LoadReader_UnknownKeysIgnored(t *testing.T) {
	parser := NewParser()
	cfg, err := parser.LoadReader(`{"source": "/data", "frobnicate": 42}`)

	require.NoError(t, err)
	assert.Equal(t, "/data", *cfg.Source)
}

func TestParser_LoadReader_MalformedJSON(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadReader(`{"source": `)

	require.Error(t, err)
}

func TestParser_LoadReader_CompressionLevelOutOfRange(t *testing.T) {
	parser := NewParser()
	_, err := parser.LoadReader(`{"compression_level": 11}`)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compression_level")
}

func TestParser_LoadFile_MissingFileIsNotAnError(t *testing.T) {
	parser := NewParser()
	cfg, err := parser.LoadFile(filepath.Join(t.TempDir(), "absent.json"))

	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestParser_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"source": "/data"}`), 0o644))

	parser := NewParser()
	cfg, err := parser.LoadFile(path)

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "/data", *cfg.Source)
}

func TestParser_SessionExpandsEnv(t *testing.T) {
	t.Setenv("BS_TEST_SESSION", "tok-from-env")

	parser := NewParser()
	cfg, err := parser.LoadReader(`{"providers": {"bitwarden": {"session": "${BS_TEST_SESSION}"}}}`)

	require.NoError(t, err)
	require.NotNil(t, cfg.Bitwarden)
	assert.Equal(t, "tok-from-env", cfg.Bitwarden.Session)
}

func TestValidate(t *testing.T) {
	valid := &models.Settings{Source: "/data", Destination: "/backup", CompressionLevel: 5}
	assert.NoError(t, Validate(valid))

	assert.Error(t, Validate(nil))
	assert.Error(t, Validate(&models.Settings{Destination: "/backup"}))
	assert.Error(t, Validate(&models.Settings{Source: "/data"}))
	assert.Error(t, Validate(&models.Settings{Source: "/data", Destination: "/b", CompressionLevel: 12}))
}
