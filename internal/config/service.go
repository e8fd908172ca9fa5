package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"swscroll/internal/eventbus"
)

// EnvPrefix is the prefix for environment overrides, e.g. SWSCROLL_SCROLL_JUMP=600
const EnvPrefix = "SWSCROLL"

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service rooted at path ("" means DefaultPath)
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string { return cs.filePath }

// Load loads the configuration from the service's file. A missing file yields defaults.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.load(cs.filePath, false)
	if err != nil {
		return nil, err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path, which must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return cs.load(path, true)
}

func (cs *configService) load(path string, mustExist bool) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		logrus.WithField("component", "config").Infof("loaded config from %s", path)
	} else if os.IsNotExist(err) {
		if mustExist {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		logrus.WithField("component", "config").Debugf("no config at %s, using defaults", path)
	} else {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.swapi_base", d.API.SwapiBase)
	v.SetDefault("api.blog_base", d.API.BlogBase)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("pager.anchor_page", d.Pager.AnchorPage)
	v.SetDefault("pager.visibility_threshold", d.Pager.VisibilityThreshold)
	v.SetDefault("scroll.autoscroll_interval", d.Scroll.AutoScrollInterval)
	v.SetDefault("scroll.autoscroll_step", d.Scroll.AutoScrollStep)
	v.SetDefault("scroll.jump", d.Scroll.Jump)
	v.SetDefault("scroll.row_height", d.Scroll.RowHeight)
	v.SetDefault("cache.stale_time", d.Cache.StaleTime)
	v.SetDefault("cache.gc_time", d.Cache.GCTime)
	v.SetDefault("blog.max_post_page", d.Blog.MaxPostPage)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}
