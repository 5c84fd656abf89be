// Package config loads bilingo settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZaguanLabs/bilingo"
	"github.com/ZaguanLabs/bilingo/cache"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. BILINGO_MODEL.
const EnvPrefix = "BILINGO"

// DefaultManualDir mirrors processor.DefaultManualDir.
const DefaultManualDir = "source/_translations"

// Config is the full set of settings for a build.
type Config struct {
	Enable            bool   `mapstructure:"enable"`
	APIKey            string `mapstructure:"api_key"`
	Model             string `mapstructure:"model"`
	Endpoint          string `mapstructure:"endpoint"`
	MaxConcurrency    int    `mapstructure:"max_concurrency"`
	SingleTimeout     int    `mapstructure:"single_timeout"` // seconds
	MaxRetries        int    `mapstructure:"max_retries"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	TargetLayout      string `mapstructure:"target_layout"`
	SourceLang        string `mapstructure:"source_lang"`
	TargetLang        string `mapstructure:"target_lang"`
	CachePath         string `mapstructure:"cache_path"`
	ManualDir         string `mapstructure:"manual_dir"`
	DatabaseURL       string `mapstructure:"database_url"`
	LogLevel          string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("enable", false)
	v.SetDefault("model", bilingo.DefaultModel)
	v.SetDefault("endpoint", bilingo.DefaultEndpoint)
	v.SetDefault("max_concurrency", bilingo.DefaultMaxConcurrency)
	v.SetDefault("single_timeout", int(bilingo.DefaultSingleTimeout/time.Second))
	v.SetDefault("max_retries", bilingo.DefaultMaxRetries)
	v.SetDefault("requests_per_minute", 0)
	v.SetDefault("target_layout", bilingo.DefaultTargetLayout)
	v.SetDefault("source_lang", bilingo.DefaultSourceLang)
	v.SetDefault("target_lang", bilingo.DefaultTargetLang)
	v.SetDefault("cache_path", cache.DefaultPath)
	v.SetDefault("manual_dir", DefaultManualDir)
	v.SetDefault("log_level", "info")
}

// Load reads configuration from path (or bilingo.yaml in the working
// directory when path is empty) and the environment. A missing default file
// is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("bilingo")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets fall back to the conventional variable names.
	if err := v.BindEnv("api_key", EnvPrefix+"_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxConcurrency < 1 {
		errs = append(errs, fmt.Errorf("max_concurrency must be at least 1, got %d", c.MaxConcurrency))
	}
	if c.SingleTimeout < 1 {
		errs = append(errs, fmt.Errorf("single_timeout must be at least 1 second, got %d", c.SingleTimeout))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries))
	}
	if c.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("requests_per_minute must not be negative, got %d", c.RequestsPerMinute))
	}
	return errors.Join(errs...)
}

// Core converts the settings consumed by the translation core.
func (c *Config) Core() bilingo.Config {
	return bilingo.Config{
		Enable:            c.Enable,
		APIKey:            c.APIKey,
		Model:             c.Model,
		Endpoint:          c.Endpoint,
		MaxConcurrency:    c.MaxConcurrency,
		SingleTimeout:     time.Duration(c.SingleTimeout) * time.Second,
		MaxRetries:        c.MaxRetries,
		RequestsPerMinute: c.RequestsPerMinute,
		TargetLayout:      c.TargetLayout,
		SourceLang:        c.SourceLang,
		TargetLang:        c.TargetLang,
	}
}
