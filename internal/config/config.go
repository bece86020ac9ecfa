package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Buffer  BufferConfig  `toml:"buffer"`
	Filter  FilterConfig  `toml:"filter"`
	Theme   ThemeConfig   `toml:"theme"`
	Display DisplayConfig `toml:"display"`
	Export  ExportConfig  `toml:"export"`
}

// BufferConfig bounds the in-memory record store
type BufferConfig struct {
	MaxLines      int `toml:"max_lines"`
	ChannelBuffer int `toml:"channel_buffer"`
}

// FilterConfig tunes filter behavior
type FilterConfig struct {
	DebounceMs int `toml:"debounce_ms"`
}

// ThemeConfig defines color schemes
type ThemeConfig struct {
	Name          string         `toml:"name"`
	LineNumbers   string         `toml:"line_numbers"`
	StatusBar     string         `toml:"status_bar"`
	StatusBarText string         `toml:"status_bar_text"`
	FilterMatch   string         `toml:"filter_match"`
	Bookmark      string         `toml:"bookmark"`
	PaneBorder    string         `toml:"pane_border"`
	ActiveBorder  string         `toml:"active_border"`
	Levels        LogLevelColors `toml:"levels"`
}

// LogLevelColors defines colors for each log level
type LogLevelColors struct {
	Trace string `toml:"trace"`
	Debug string `toml:"debug"`
	Info  string `toml:"info"`
	Warn  string `toml:"warn"`
	Error string `toml:"error"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	LevelColors  bool `toml:"level_colors"`
	LineNumbers  bool `toml:"line_numbers"`
	WrapLines    bool `toml:"wrap_lines"`
	RelativeTime bool `toml:"relative_time"`
	JSONPretty   bool `toml:"json_pretty"`
	SidePanel    bool `toml:"side_panel"`
}

// ExportConfig controls where filtered views are written
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Buffer: BufferConfig{
			MaxLines:      10000,
			ChannelBuffer: 1000,
		},
		Filter: FilterConfig{
			DebounceMs: 150,
		},
		Theme: themes["subtle"],
		Display: DisplayConfig{
			LevelColors: true,
		},
		Export: ExportConfig{
			Dir: defaultExportDir(),
		},
	}
}

// Debounce returns the filter debounce window as a duration
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Filter.DebounceMs) * time.Millisecond
}

// Load loads config from file, falling back to defaults.
// Environment variables override file values.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	applyEnv(cfg)
	resolveTheme(cfg)
	return cfg, nil
}

// applyEnv overlays LOGMUX_* environment variables
func applyEnv(cfg *Config) {
	if v := os.Getenv("LOGMUX_MAX_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Buffer.MaxLines = n
		}
	}
	if v := os.Getenv("LOGMUX_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Filter.DebounceMs = n
		}
	}
	if v := os.Getenv("LOGMUX_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("LOGMUX_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	if v := os.Getenv("LOGMUX_LEVEL_COLORS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Display.LevelColors = b
		}
	}
	if v := os.Getenv("LOGMUX_LINE_WRAP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Display.WrapLines = b
		}
	}
	if v := os.Getenv("LOGMUX_SIDE_PANEL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Display.SidePanel = b
		}
	}
}

// Save saves config to file
func Save(cfg *Config) error {
	configPath := getConfigPath()
	if configPath == "" {
		return nil
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "logmux", "config.toml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "logmux", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "logmux-exports")
}
