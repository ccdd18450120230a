// Package config loads ecgmon settings from YAML and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/daviddao/ecgmon/internal/engine"
)

// Config represents the complete application configuration
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// EngineConfig holds the simulation tunables
type EngineConfig struct {
	MaxPoints  int           `mapstructure:"max_points"`
	Step       float64       `mapstructure:"step"`
	Smoothing  float64       `mapstructure:"smoothing"`
	LabelDelay time.Duration `mapstructure:"label_delay"`
	FPS        int           `mapstructure:"fps"`
	Seed       int64         `mapstructure:"seed"` // 0 = seed from clock
}

// ThemeConfig points at an optional color token file
type ThemeConfig struct {
	File string `mapstructure:"file"`
}

// UIConfig holds TUI behavior configuration
type UIConfig struct {
	StartView string `mapstructure:"start_view"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"` // empty = discard while the TUI runs
}

// NotifyConfig holds emergency notification configuration
type NotifyConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken   string        `mapstructure:"bot_token"`
	ChatID     string        `mapstructure:"chat_id"`
	Enabled    bool          `mapstructure:"enabled"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// Views accepted by ui.start_view.
var Views = []string{"normal", "risk", "emergency", "map"}

// envReplacer maps nested keys to variable names: engine.fps reads
// ECGMON_ENGINE_FPS.
var envReplacer = strings.NewReplacer(".", "_")

// Load reads configuration from file and environment variables. An empty
// path yields the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("ECGMON")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	def := engine.DefaultConfig()

	// Engine defaults
	v.SetDefault("engine.max_points", def.MaxPoints)
	v.SetDefault("engine.step", def.Step)
	v.SetDefault("engine.smoothing", def.Smoothing)
	v.SetDefault("engine.label_delay", def.LabelDelay.String())
	v.SetDefault("engine.fps", engine.DefaultFPS)
	v.SetDefault("engine.seed", 0)

	v.SetDefault("theme.file", "")
	v.SetDefault("ui.start_view", "normal")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")

	v.SetDefault("notify.timeout", "10s")

	// Telegram defaults
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay", "1s")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Engine.MaxPoints < 2 || c.Engine.MaxPoints > 100000 {
		return fmt.Errorf("engine.max_points must be between 2 and 100000")
	}
	if c.Engine.Step <= 0 {
		return fmt.Errorf("engine.step must be positive")
	}
	if c.Engine.Smoothing <= 0 || c.Engine.Smoothing >= 1 {
		return fmt.Errorf("engine.smoothing must be between 0 and 1 (exclusive)")
	}
	if c.Engine.LabelDelay <= 0 {
		return fmt.Errorf("engine.label_delay must be positive")
	}
	if c.Engine.FPS < 1 || c.Engine.FPS > 240 {
		return fmt.Errorf("engine.fps must be between 1 and 240")
	}

	validView := false
	for _, name := range Views {
		if c.UI.StartView == name {
			validView = true
		}
	}
	if !validView {
		return fmt.Errorf("ui.start_view must be one of: normal, risk, emergency, map")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if c.Notify.Timeout <= 0 {
		return fmt.Errorf("notify.timeout must be positive")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
		if c.Telegram.MaxRetries < 1 {
			return fmt.Errorf("telegram.max_retries must be at least 1")
		}
	}

	return nil
}

// EngineSettings converts the engine section for engine.New.
func (c *Config) EngineSettings() engine.Config {
	return engine.Config{
		MaxPoints:  c.Engine.MaxPoints,
		Step:       c.Engine.Step,
		Smoothing:  c.Engine.Smoothing,
		LabelDelay: c.Engine.LabelDelay,
		Seed:       c.Engine.Seed,
	}
}
