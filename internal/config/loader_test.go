package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "pagila_dwh", cfg.Database.Database)
	assert.Equal(t, "postgres", cfg.Database.Username)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, ViewerWindow, cfg.Output.Viewer)
	assert.Equal(t, "png", cfg.Output.ChartFormat)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rentalviz.yaml")
	content := `database:
  host: warehouse.internal
  port: 6432
  database: dwh
  username: analyst
  params:
    sslrootcert: /etc/ca.pem
    connect_timeout: "5"
output:
  viewer: terminal
  export_dir: /tmp/exports
  export_formats: [csv, parquet]
reports: [trends]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("RENTALVIZ_DATABASE_PASSWORD", "from-env")
	t.Setenv("RENTALVIZ_OUTPUT_VIEWER", "none")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warehouse.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "analyst", cfg.Database.Username)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, map[string]string{"sslrootcert": "/etc/ca.pem", "connect_timeout": "5"}, cfg.Database.Params)
	assert.Equal(t, ViewerNone, cfg.Output.Viewer)
	assert.Equal(t, []string{"csv", "parquet"}, cfg.Output.ExportFormats)
	assert.Equal(t, []string{"trends"}, cfg.Reports)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestSaveOmitsPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")

	cfg := Default()
	cfg.Database.Host = "warehouse"
	cfg.Database.Password = "secret"
	cfg.Reports = []string{"categories"}

	written, err := Save(cfg, path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warehouse", loaded.Database.Host)
	assert.Equal(t, []string{"categories"}, loaded.Reports)
	assert.Empty(t, loaded.Database.Password)
}

func TestResolvePassword(t *testing.T) {
	keyring.MockInit()

	conn := Connection{Host: "localhost", Port: 5432, Database: "pagila_dwh", Username: "postgres"}

	require.NoError(t, ResolvePassword(&conn))
	assert.Empty(t, conn.Password, "missing keyring entry leaves password empty")

	require.NoError(t, StorePassword(conn, "from-keyring"))
	require.NoError(t, ResolvePassword(&conn))
	assert.Equal(t, "from-keyring", conn.Password)

	explicit := conn
	explicit.Password = "explicit"
	require.NoError(t, ResolvePassword(&explicit))
	assert.Equal(t, "explicit", explicit.Password)

	assert.Error(t, StorePassword(conn, ""))
}
