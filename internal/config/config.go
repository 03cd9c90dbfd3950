// Package config loads the persistent application configuration from
// ~/.config/subwatch/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Config is the persistent application configuration.
type Config struct {
	// Where the snapshot cache lives. "~" expands to the home directory.
	CachePath string `json:"cache_path"`

	// Download directory for players that save media locally.
	VideoPath string `json:"video_path"`

	// Subscription inputs, merged with the OPML export.
	ChannelIDs  []string `json:"channel_ids"`
	ChannelURLs []string `json:"channel_urls"`

	// OPML export location. Defaults next to the config file.
	SubscriptionsFile string `json:"subscriptions_file,omitempty"`

	// Playback
	Players    [][]string `json:"players"`
	MpvMode    bool       `json:"mpv_mode"`
	MpvPath    string     `json:"mpv_path"`
	PlayerOpts []string   `json:"player_additional_opts"`
	Fullscreen bool       `json:"fs"`
	YtdlFormat string     `json:"youtubedl_format"`
	OpenMagnet string     `json:"open_magnet,omitempty"`

	// UI
	Sort        string            `json:"sort"` // "desc" or "asc" by published time
	KindSymbols map[string]string `json:"kind_symbols"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		CachePath:  "~/.cache/subwatch/snapshot.json",
		VideoPath:  "~/Videos",
		Players: [][]string{
			{"mpv"},
			{"vlc"},
		},
		MpvMode:    true,
		MpvPath:    "mpv",
		Fullscreen: false,
		YtdlFormat: "bestvideo[height<=?1080]+bestaudio/best",
		Sort:       "desc",
		KindSymbols: map[string]string{
			"Video":  "v",
			"Audio":  "a",
			"Other":  "o",
			"Magnet": "m",
		},
	}
}

// Dir returns the configuration directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "subwatch")
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// Load reads the config from disk. On first run the default config is
// written out so the user has a file to edit; a corrupt file falls back to
// defaults rather than aborting startup.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := cfg.saveTo(path); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), nil
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills fields an older or hand-trimmed config file omits.
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.CachePath == "" {
		cfg.CachePath = def.CachePath
	}
	if cfg.MpvPath == "" {
		cfg.MpvPath = def.MpvPath
	}
	if cfg.YtdlFormat == "" {
		cfg.YtdlFormat = def.YtdlFormat
	}
	if cfg.Sort == "" {
		cfg.Sort = def.Sort
	}
	if len(cfg.Players) == 0 {
		cfg.Players = def.Players
	}
	if cfg.KindSymbols == nil {
		cfg.KindSymbols = def.KindSymbols
	}
}

// Save writes the config to its default location.
func (c *Config) Save() error {
	return c.saveTo(Path())
}

func (c *Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CacheFile returns the snapshot location with "~" expanded.
func (c *Config) CacheFile() string {
	return ExpandHome(c.CachePath)
}

// SubscriptionsPath returns the OPML export location.
func (c *Config) SubscriptionsPath() string {
	if c.SubscriptionsFile != "" {
		return ExpandHome(c.SubscriptionsFile)
	}
	return filepath.Join(Dir(), "subscriptions.opml")
}

// KindSymbol returns the configured one-character marker for a kind.
func (c *Config) KindSymbol(kind string) string {
	if s, ok := c.KindSymbols[kind]; ok {
		return s
	}
	return "?"
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}
