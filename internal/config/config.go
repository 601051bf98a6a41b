// Package config loads catcrawler settings from defaults, the user config file,
// an optional explicit file and CATCRAWLER_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/logging"
)

// Folder dedup modes for search results.
const (
	FolderDedupCursor = "cursor"
	FolderDedupSet    = "set"
)

// CatalogFileName is the name of the catalog store inside the data directory.
const CatalogFileName = "local.db"

// defaultExclude lists directory names never indexed or matched.
var defaultExclude = []string{"$RECYCLE.BIN", "System Volume Information"}

// Config represents the complete catcrawler configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	DataDir string        `yaml:"data_dir" json:"data_dir"`
	Scan    ScanConfig    `yaml:"scan" json:"scan"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Viewer  ViewerConfig  `yaml:"viewer" json:"viewer"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ScanConfig controls volume scanning.
type ScanConfig struct {
	// Exclude holds entry names skipped during scans and searches.
	Exclude []string `yaml:"exclude" json:"exclude"`
	// KeepDescription carries a volume's description over a re-scan.
	KeepDescription bool `yaml:"keep_description" json:"keep_description"`
}

// SearchConfig controls matching and output routing.
type SearchConfig struct {
	ShortLimit    int    `yaml:"short_limit" json:"short_limit"`
	LongThreshold int    `yaml:"long_threshold" json:"long_threshold"`
	FolderDedup   string `yaml:"folder_dedup" json:"folder_dedup"`
	// Strict aborts the whole search when any index file is unreadable.
	Strict    bool   `yaml:"strict" json:"strict"`
	CacheSize int    `yaml:"cache_size" json:"cache_size"`
	Workers   int    `yaml:"workers" json:"workers"`
	ReportDir string `yaml:"report_dir" json:"report_dir"`
}

// ViewerConfig selects the program that opens overflow reports.
// An empty command uses the built-in pager.
type ViewerConfig struct {
	Command string `yaml:"command" json:"command"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		DataDir: defaultDataDir(),
		Scan: ScanConfig{
			Exclude:         append([]string(nil), defaultExclude...),
			KeepDescription: true,
		},
		Search: SearchConfig{
			ShortLimit:    5,
			LongThreshold: 50,
			FolderDedup:   FolderDedupCursor,
			CacheSize:     16,
			Workers:       runtime.NumCPU(),
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".catcrawler")
	}
	return filepath.Join(home, ".catcrawler")
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/catcrawler/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/catcrawler/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "catcrawler", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "catcrawler", "config.yaml")
	}
	return filepath.Join(home, ".config", "catcrawler", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	_, err := os.Stat(GetUserConfigPath())
	return err == nil
}

// Load builds the effective configuration. Precedence, lowest first:
//  1. Hardcoded defaults
//  2. User config (~/.config/catcrawler/config.yaml)
//  3. explicitPath, when non-empty (must exist)
//  4. Environment variables (CATCRAWLER_*)
func Load(explicitPath string) (*Config, error) {
	cfg := NewConfig()

	if UserConfigExists() {
		if err := cfg.loadYAML(GetUserConfigPath()); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	if explicitPath != "" {
		if err := cfg.loadYAML(explicitPath); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Search.ReportDir = expandHome(cfg.Search.ReportDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a single YAML file on top of the defaults, without the user
// config or environment. Used by `config show --source`.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML decodes path onto c. Keys absent from the file keep their current
// values, so an explicit `false` or `0` in the file still wins.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return caterrors.New(caterrors.ErrCodeConfigInvalid,
			fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return nil
}

// applyEnvOverrides applies CATCRAWLER_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CATCRAWLER_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("CATCRAWLER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CATCRAWLER_VIEWER"); v != "" {
		c.Viewer.Command = v
	}
	if v := os.Getenv("CATCRAWLER_EXCLUDE"); v != "" {
		var names []string
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		c.Scan.Exclude = names
	}
	if v := os.Getenv("CATCRAWLER_SEARCH_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Search.Strict = b
		}
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return caterrors.New(caterrors.ErrCodeConfigInvalid, fmt.Sprintf(format, args...), nil).
			WithSuggestion("run 'catcrawler config show' to inspect the effective configuration")
	}

	if strings.TrimSpace(c.DataDir) == "" {
		return invalid("data_dir must not be empty")
	}
	if c.Search.ShortLimit < 0 {
		return invalid("search.short_limit must be non-negative, got %d", c.Search.ShortLimit)
	}
	if c.Search.LongThreshold <= 0 {
		return invalid("search.long_threshold must be positive, got %d", c.Search.LongThreshold)
	}
	if c.Search.CacheSize < 0 {
		return invalid("search.cache_size must be non-negative, got %d", c.Search.CacheSize)
	}
	if c.Search.Workers < 0 {
		return invalid("search.workers must be non-negative, got %d", c.Search.Workers)
	}
	switch c.Search.FolderDedup {
	case FolderDedupCursor, FolderDedupSet:
	default:
		return invalid("search.folder_dedup must be 'cursor' or 'set', got %q", c.Search.FolderDedup)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return invalid("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}
	for _, name := range c.Scan.Exclude {
		if strings.ContainsAny(name, `/\`) {
			return invalid("scan.exclude entries are names, not paths: %q", name)
		}
	}
	return nil
}

// CatalogPath returns the catalog store path.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.DataDir, CatalogFileName)
}

// IndexDir returns the directory holding <serial>.indx files.
func (c *Config) IndexDir() string {
	return c.DataDir
}

// ReportDir returns where overflow search reports are written.
func (c *Config) ReportDir() string {
	if c.Search.ReportDir != "" {
		return c.Search.ReportDir
	}
	return filepath.Join(c.DataDir, "reports")
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MissingKeys lists the dotted keys of the default configuration that the YAML
// document in data does not set. `config init --force` reports these as the
// options it added.
func MissingKeys(data []byte) ([]string, error) {
	var present map[string]any
	if err := yaml.Unmarshal(data, &present); err != nil {
		return nil, err
	}
	defaults, err := yaml.Marshal(NewConfig())
	if err != nil {
		return nil, err
	}
	var all map[string]any
	if err := yaml.Unmarshal(defaults, &all); err != nil {
		return nil, err
	}

	var missing []string
	collectMissing("", all, present, &missing)
	return missing, nil
}

func collectMissing(prefix string, want, have map[string]any, out *[]string) {
	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		hv, ok := have[k]
		if !ok {
			*out = append(*out, full)
			continue
		}
		wm, wIsMap := want[k].(map[string]any)
		hm, hIsMap := hv.(map[string]any)
		if wIsMap && hIsMap {
			collectMissing(full, wm, hm, out)
		}
	}
}
