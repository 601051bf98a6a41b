package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
)

// isolate points the user config lookup at an empty directory and clears env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"CATCRAWLER_DATA_DIR", "CATCRAWLER_LOG_LEVEL", "CATCRAWLER_VIEWER", "CATCRAWLER_EXCLUDE", "CATCRAWLER_SEARCH_STRICT"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	// Given: no configuration file exists
	cfg := NewConfig()

	// Then: all defaults are applied
	require.NotNil(t, cfg)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, ".catcrawler", filepath.Base(cfg.DataDir))
	assert.Equal(t, []string{"$RECYCLE.BIN", "System Volume Information"}, cfg.Scan.Exclude)
	assert.True(t, cfg.Scan.KeepDescription)
	assert.Equal(t, 5, cfg.Search.ShortLimit)
	assert.Equal(t, 50, cfg.Search.LongThreshold)
	assert.Equal(t, FolderDedupCursor, cfg.Search.FolderDedup)
	assert.False(t, cfg.Search.Strict)
	assert.Equal(t, runtime.NumCPU(), cfg.Search.Workers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfig_ExcludeIsACopy(t *testing.T) {
	a := NewConfig()
	a.Scan.Exclude[0] = "changed"

	assert.Equal(t, "$RECYCLE.BIN", NewConfig().Scan.Exclude[0])
}

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Search.LongThreshold)
}

func TestLoad_ExplicitFile_OverridesDefaults(t *testing.T) {
	// Given: an explicit config file that flips booleans off
	isolate(t)
	path := filepath.Join(t.TempDir(), "cc.yaml")
	content := `
data_dir: /tmp/catalog
scan:
  keep_description: false
  exclude: [lost+found]
search:
  short_limit: 3
  folder_dedup: set
  strict: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When: loading
	cfg, err := Load(path)

	// Then: file values win, untouched keys keep defaults
	require.NoError(t, err)
	assert.Equal(t, "/tmp/catalog", cfg.DataDir)
	assert.False(t, cfg.Scan.KeepDescription)
	assert.Equal(t, []string{"lost+found"}, cfg.Scan.Exclude)
	assert.Equal(t, 3, cfg.Search.ShortLimit)
	assert.Equal(t, FolderDedupSet, cfg.Search.FolderDedup)
	assert.True(t, cfg.Search.Strict)
	assert.Equal(t, 50, cfg.Search.LongThreshold)
}

func TestLoad_ExplicitFileMissing_ReturnsError(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func TestLoad_InvalidYaml_ReturnsConfigError(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [unclosed"), 0o644))

	_, err := Load(path)

	require.Error(t, err)
	assert.Equal(t, caterrors.ErrCodeConfigInvalid, caterrors.GetCode(err))
}

func TestLoad_UserConfigThenExplicitThenEnv(t *testing.T) {
	// Given: a user config, an explicit file and an env var all touching settings
	xdg := isolate(t)
	userPath := filepath.Join(xdg, "catcrawler", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userPath), 0o755))
	require.NoError(t, os.WriteFile(userPath, []byte("search:\n  short_limit: 7\n  long_threshold: 70\n"), 0o644))

	explicit := filepath.Join(t.TempDir(), "x.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("search:\n  short_limit: 8\n"), 0o644))

	dataDir := t.TempDir()
	t.Setenv("CATCRAWLER_DATA_DIR", dataDir)
	t.Setenv("CATCRAWLER_EXCLUDE", " node_modules , .git ,")
	t.Setenv("CATCRAWLER_VIEWER", "less")
	t.Setenv("CATCRAWLER_LOG_LEVEL", "debug")

	// When: loading
	cfg, err := Load(explicit)

	// Then: each layer applies in order
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Search.ShortLimit)
	assert.Equal(t, 70, cfg.Search.LongThreshold)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, []string{"node_modules", ".git"}, cfg.Scan.Exclude)
	assert.Equal(t, "less", cfg.Viewer.Command)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_ExpandsHome(t *testing.T) {
	isolate(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("CATCRAWLER_DATA_DIR", "~/cc-data")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cc-data"), cfg.DataDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data dir", func(c *Config) { c.DataDir = " " }},
		{"negative short limit", func(c *Config) { c.Search.ShortLimit = -1 }},
		{"zero threshold", func(c *Config) { c.Search.LongThreshold = 0 }},
		{"negative cache", func(c *Config) { c.Search.CacheSize = -1 }},
		{"negative workers", func(c *Config) { c.Search.Workers = -2 }},
		{"bad dedup", func(c *Config) { c.Search.FolderDedup = "tree" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"exclude path", func(c *Config) { c.Scan.Exclude = []string{"a/b"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Equal(t, caterrors.ExitValidation, caterrors.ExitCode(err))
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := NewConfig()
	cfg.DataDir = "/data"

	assert.Equal(t, filepath.Join("/data", "local.db"), cfg.CatalogPath())
	assert.Equal(t, "/data", cfg.IndexDir())
	assert.Equal(t, filepath.Join("/data", "reports"), cfg.ReportDir())

	cfg.Search.ReportDir = "/elsewhere"
	assert.Equal(t, "/elsewhere", cfg.ReportDir())
}

func TestGetUserConfigPath_RespectsXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	assert.Equal(t, filepath.Join(dir, "catcrawler", "config.yaml"), GetUserConfigPath())
	assert.Equal(t, filepath.Join(dir, "catcrawler"), GetUserConfigDir())
	assert.False(t, UserConfigExists())
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	isolate(t)
	cfg := NewConfig()
	cfg.Search.ShortLimit = 11
	cfg.Scan.KeepDescription = false
	path := filepath.Join(t.TempDir(), "nested", "out.yaml")

	require.NoError(t, cfg.WriteYAML(path))
	loaded, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, 11, loaded.Search.ShortLimit)
	assert.False(t, loaded.Scan.KeepDescription)
}

func TestMissingKeys(t *testing.T) {
	// Given: a config that only sets a couple of keys
	data := []byte("version: 1\nsearch:\n  short_limit: 5\n")

	// When: computing missing keys
	missing, err := MissingKeys(data)

	// Then: nested and top-level defaults are reported, set keys are not
	require.NoError(t, err)
	assert.Contains(t, missing, "data_dir")
	assert.Contains(t, missing, "search.long_threshold")
	assert.Contains(t, missing, "scan")
	assert.NotContains(t, missing, "search.short_limit")
	assert.NotContains(t, missing, "version")
}
