package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Pager  PagerConfig  `mapstructure:"pager"`
	Scroll ScrollConfig `mapstructure:"scroll"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Blog   BlogConfig   `mapstructure:"blog"`
	Log    LogConfig    `mapstructure:"log"`
}

// APIConfig holds the remote endpoints
type APIConfig struct {
	SwapiBase string        `mapstructure:"swapi_base"`
	BlogBase  string        `mapstructure:"blog_base"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// PagerConfig configures the bidirectional pager
type PagerConfig struct {
	AnchorPage          int     `mapstructure:"anchor_page"`
	VisibilityThreshold float64 `mapstructure:"visibility_threshold"`
}

// ScrollConfig configures scrolling. Distances are in pixels; a terminal row
// counts as RowHeight pixels.
type ScrollConfig struct {
	AutoScrollInterval time.Duration `mapstructure:"autoscroll_interval"`
	AutoScrollStep     int           `mapstructure:"autoscroll_step"`
	Jump               int           `mapstructure:"jump"`
	RowHeight          int           `mapstructure:"row_height"`
}

// CacheConfig configures the query cache
type CacheConfig struct {
	StaleTime time.Duration `mapstructure:"stale_time"`
	GCTime    time.Duration `mapstructure:"gc_time"`
}

// BlogConfig configures the posts screen
type BlogConfig struct {
	MaxPostPage int `mapstructure:"max_post_page"`
}

// LogConfig configures logging
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			SwapiBase: "https://swapi.dev/api/",
			BlogBase:  "https://jsonplaceholder.typicode.com/",
			Timeout:   30 * time.Second,
		},
		Pager: PagerConfig{
			AnchorPage:          2, // start from the middle
			VisibilityThreshold: 0.5,
		},
		Scroll: ScrollConfig{
			AutoScrollInterval: 16 * time.Millisecond,
			AutoScrollStep:     10,
			Jump:               300,
			RowHeight:          20,
		},
		Cache: CacheConfig{
			StaleTime: 5 * time.Minute,
			GCTime:    10 * time.Minute,
		},
		Blog: BlogConfig{
			MaxPostPage: 10,
		},
		Log: LogConfig{
			File:  "swscroll.log",
			Level: "info",
		},
	}
}

// Validate checks the configuration, repairing values that would break the UI
func (c *Config) Validate() error {
	if c.API.SwapiBase == "" {
		return fmt.Errorf("api.swapi_base must not be empty")
	}
	if c.API.BlogBase == "" {
		return fmt.Errorf("api.blog_base must not be empty")
	}
	if !strings.HasSuffix(c.API.SwapiBase, "/") {
		c.API.SwapiBase += "/"
	}
	if !strings.HasSuffix(c.API.BlogBase, "/") {
		c.API.BlogBase += "/"
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.Pager.AnchorPage < 1 {
		c.Pager.AnchorPage = 1
	}
	if c.Pager.VisibilityThreshold <= 0 || c.Pager.VisibilityThreshold > 1 {
		return fmt.Errorf("pager.visibility_threshold must be in (0, 1], got %v", c.Pager.VisibilityThreshold)
	}
	if c.Scroll.AutoScrollInterval <= 0 {
		c.Scroll.AutoScrollInterval = 16 * time.Millisecond
	}
	if c.Scroll.AutoScrollStep <= 0 {
		c.Scroll.AutoScrollStep = 10
	}
	if c.Scroll.Jump <= 0 {
		c.Scroll.Jump = 300
	}
	if c.Scroll.RowHeight <= 0 {
		c.Scroll.RowHeight = 20
	}
	if c.Cache.StaleTime < 0 {
		c.Cache.StaleTime = 0
	}
	if c.Cache.GCTime <= 0 {
		c.Cache.GCTime = 10 * time.Minute
	}
	if c.Blog.MaxPostPage < 1 {
		c.Blog.MaxPostPage = 10
	}
	return nil
}

// DefaultPath returns ~/.config/swscroll/config.toml, falling back to the working directory
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "swscroll", "config.toml")
}
