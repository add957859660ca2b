// Package config loads bot settings from the environment and an optional
// YAML file. Environment variables override values from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ad/go-telegram-progress-stats/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMenuWidth     = 2
	DefaultMaxMessageLen = 4000
)

var (
	ErrMissingToken       = errors.New("BOT_TOKEN environment variable is required")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required")
	ErrInvalidMode        = errors.New("invalid stats mode")
)

type Config struct {
	BotToken    string `yaml:"-"`
	DatabaseURL string `yaml:"-"`
	AdminID     int64  `yaml:"admin_id"`

	Mode          models.StatsMode     `yaml:"mode"`
	BotName       string               `yaml:"bot_name"`
	ExcludeBots   []string             `yaml:"exclude_bots"`
	ExcludeUsers  []string             `yaml:"exclude_users"`
	OrderByStep   bool                 `yaml:"order_by_step"`
	MenuWidth     int                  `yaml:"menu_width"`
	MaxMessageLen int                  `yaml:"max_message_len"`
	SplitStrategy models.SplitStrategy `yaml:"split_strategy"`
	// SplitAll also splits the all-bots listing. Off by default: that reply
	// has always been sent as one message.
	SplitAll bool `yaml:"split_all"`

	MetricsAddr string `yaml:"metrics_addr"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

func Default() *Config {
	return &Config{
		Mode:          models.ModeMenu,
		MenuWidth:     DefaultMenuWidth,
		MaxMessageLen: DefaultMaxMessageLen,
		SplitStrategy: models.SplitFixed,
	}
}

// Load builds the config from os.Getenv.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

func LoadFrom(getenv func(string) string) (*Config, error) {
	return load(getenv, true)
}

// LoadReport is Load for tools that only read the database and never
// need BOT_TOKEN.
func LoadReport() (*Config, error) {
	return load(os.Getenv, false)
}

func load(getenv func(string) string, needToken bool) (*Config, error) {
	cfg := Default()

	if path := getenv("STATS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	if needToken && cfg.BotToken == "" {
		return nil, ErrMissingToken
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	c.BotToken = getenv("BOT_TOKEN")
	c.DatabaseURL = getenv("DATABASE_URL")

	if v := getenv("ADMIN_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ADMIN_ID: %w", err)
		}
		c.AdminID = id
	}
	if v := getenv("STATS_MODE"); v != "" {
		c.Mode = models.StatsMode(strings.ToLower(v))
	}
	if v := getenv("STATS_BOT_NAME"); v != "" {
		c.BotName = v
	}
	if v := getenv("EXCLUDE_BOTS"); v != "" {
		c.ExcludeBots = splitList(v)
	}
	if v := getenv("EXCLUDE_USERS"); v != "" {
		c.ExcludeUsers = splitList(v)
	}
	if v := getenv("SPLIT_STRATEGY"); v != "" {
		c.SplitStrategy = models.SplitStrategy(strings.ToLower(v))
	}
	if v := getenv("METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"MENU_WIDTH", &c.MenuWidth},
		{"MAX_MESSAGE_LEN", &c.MaxMessageLen},
	}
	for _, i := range ints {
		v := getenv(i.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", i.key, err)
		}
		*i.dst = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"ORDER_BY_STEP", &c.OrderByStep},
		{"SPLIT_ALL", &c.SplitAll},
		{"AUTO_MIGRATE", &c.AutoMigrate},
	}
	for _, b := range bools {
		v := getenv(b.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", b.key, err)
		}
		*b.dst = parsed
	}
	return nil
}

// Validate checks required values and fills defaults for non-positive sizes.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.Mode == "" {
		c.Mode = models.ModeMenu
	}
	if !c.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}
	if c.Mode == models.ModeSingle && c.BotName == "" {
		return errors.New("STATS_BOT_NAME is required in single mode")
	}
	if c.SplitStrategy == "" {
		c.SplitStrategy = models.SplitFixed
	}
	if !c.SplitStrategy.Valid() {
		return fmt.Errorf("invalid split strategy: %q", c.SplitStrategy)
	}
	if c.MenuWidth <= 0 {
		c.MenuWidth = DefaultMenuWidth
	}
	if c.MaxMessageLen <= 0 {
		c.MaxMessageLen = DefaultMaxMessageLen
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
