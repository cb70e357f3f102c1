package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved application configuration.
type Config struct {
	// Backend selects the repository source: "cli" (default) or "gogit".
	Backend string `mapstructure:"backend"`
	// LeftPanelPercent is the width share of the file list / commit column.
	LeftPanelPercent int `mapstructure:"left_panel_percent"`
	// FilterMode is the initial filter mode: fuzzy, substring or regex.
	FilterMode string `mapstructure:"filter_mode"`
	// DisplayMode is the initial content mode: plain, numbered or blame.
	DisplayMode string `mapstructure:"display_mode"`
	// MaxFileSize is the largest blob shown; bigger files get a placeholder.
	MaxFileSize int64 `mapstructure:"max_file_size"`
	// CacheSize is the number of entries in each tree/content/blame cache.
	CacheSize int `mapstructure:"cache_size"`
	// LoaderWorkers bounds concurrent background loads.
	LoaderWorkers int `mapstructure:"loader_workers"`
	// TickRate drives repeating actions such as auto-scroll.
	TickRate time.Duration `mapstructure:"tick_rate"`
	// GitTimeout limits a single git invocation. Zero disables it.
	GitTimeout time.Duration `mapstructure:"git_timeout"`
	// Remote is the remote used for web links.
	Remote string `mapstructure:"remote"`
	// FirstParent restricts history to the first-parent chain.
	FirstParent bool `mapstructure:"first_parent"`
	// SyntaxHighlight colours file content with chroma.
	SyntaxHighlight bool `mapstructure:"syntax_highlight"`
	// Watch reloads history when refs under .git change.
	Watch bool `mapstructure:"watch"`
	// WatchDebounce coalesces bursts of ref updates.
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
	// LogFile receives debug logs; empty discards them.
	LogFile string `mapstructure:"log_file"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
	// Keys overrides the default bindings: action name to key list.
	Keys map[string][]string `mapstructure:"keys"`
}

// Load reads configuration from ~/.config/zgh/config.yaml (or TOML/JSON).
// A non-empty path reads that file instead and must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDirectory())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ZGH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine, use defaults.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

// Validate rejects values that would leave the UI unusable.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", "cli", "gogit":
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.LeftPanelPercent < MinLeftPercent || c.LeftPanelPercent > MaxLeftPercent {
		return fmt.Errorf("config: left_panel_percent %d outside [%d, %d]",
			c.LeftPanelPercent, MinLeftPercent, MaxLeftPercent)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("config: cache_size must be positive")
	}
	if c.LoaderWorkers <= 0 {
		return fmt.Errorf("config: loader_workers must be positive")
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate must be positive")
	}
	for action := range c.Keys {
		if _, ok := DefaultKeyBindings()[action]; !ok {
			return fmt.Errorf("config: unknown key action %q", action)
		}
	}
	return nil
}

// Bindings returns the default key bindings with the configured overrides applied.
func (c *Config) Bindings() KeyBindings {
	kb := DefaultKeyBindings()
	for action, keys := range c.Keys {
		if len(keys) > 0 {
			kb[action] = keys
		}
	}
	return kb
}

// Left panel bounds, in percent of the terminal width.
const (
	MinLeftPercent = 15
	MaxLeftPercent = 70
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend", "cli")
	v.SetDefault("left_panel_percent", 30)
	v.SetDefault("filter_mode", "fuzzy")
	v.SetDefault("display_mode", "plain")
	v.SetDefault("max_file_size", 1<<20)
	v.SetDefault("cache_size", 512)
	v.SetDefault("loader_workers", 4)
	v.SetDefault("tick_rate", 50*time.Millisecond)
	v.SetDefault("git_timeout", 30*time.Second)
	v.SetDefault("remote", "origin")
	v.SetDefault("first_parent", false)
	v.SetDefault("syntax_highlight", true)
	v.SetDefault("watch", true)
	v.SetDefault("watch_debounce", 300*time.Millisecond)
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("keys", map[string][]string{})
}

func configDirectory() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zgh")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "zgh")
}
