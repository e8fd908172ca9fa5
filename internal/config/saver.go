package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// saveConfig is the TOML-marshaling intermediary that uses string durations.
type saveConfig struct {
	API    saveAPIConfig    `toml:"api"`
	Pager  savePagerConfig  `toml:"pager"`
	Scroll saveScrollConfig `toml:"scroll"`
	Cache  saveCacheConfig  `toml:"cache"`
	Blog   saveBlogConfig   `toml:"blog"`
	Log    saveLogConfig    `toml:"log"`
}

type saveAPIConfig struct {
	SwapiBase string `toml:"swapi_base"`
	BlogBase  string `toml:"blog_base"`
	Timeout   string `toml:"timeout"`
}

type savePagerConfig struct {
	AnchorPage          int     `toml:"anchor_page"`
	VisibilityThreshold float64 `toml:"visibility_threshold"`
}

type saveScrollConfig struct {
	AutoScrollInterval string `toml:"autoscroll_interval"`
	AutoScrollStep     int    `toml:"autoscroll_step"`
	Jump               int    `toml:"jump"`
	RowHeight          int    `toml:"row_height"`
}

type saveCacheConfig struct {
	StaleTime string `toml:"stale_time"`
	GCTime    string `toml:"gc_time"`
}

type saveBlogConfig struct {
	MaxPostPage int `toml:"max_post_page"`
}

type saveLogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// toSaveConfig converts Config to the TOML-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		API: saveAPIConfig{
			SwapiBase: cfg.API.SwapiBase,
			BlogBase:  cfg.API.BlogBase,
			Timeout:   cfg.API.Timeout.String(),
		},
		Pager: savePagerConfig{
			AnchorPage:          cfg.Pager.AnchorPage,
			VisibilityThreshold: cfg.Pager.VisibilityThreshold,
		},
		Scroll: saveScrollConfig{
			AutoScrollInterval: cfg.Scroll.AutoScrollInterval.String(),
			AutoScrollStep:     cfg.Scroll.AutoScrollStep,
			Jump:               cfg.Scroll.Jump,
			RowHeight:          cfg.Scroll.RowHeight,
		},
		Cache: saveCacheConfig{
			StaleTime: cfg.Cache.StaleTime.String(),
			GCTime:    cfg.Cache.GCTime.String(),
		},
		Blog: saveBlogConfig{MaxPostPage: cfg.Blog.MaxPostPage},
		Log:  saveLogConfig{File: cfg.Log.File, Level: cfg.Log.Level},
	}
}

// Marshal encodes cfg as TOML with durations as strings
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(toSaveConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(config)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
