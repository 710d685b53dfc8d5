package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. REWRITER_DATABASE_URL.
const EnvPrefix = "REWRITER"

// ConfigPathEnv names an explicit config file.
const ConfigPathEnv = EnvPrefix + "_CONFIG"

// defaults lists every key. Keys must be known to viper for AutomaticEnv to
// pick them up during Unmarshal, so keys without a default are set to "".
var defaults = map[string]any{
	"server.port":                    8080,
	"server.log_level":               "info",
	"database.url":                   "",
	"llm.provider":                   "ollama",
	"llm.model":                      "",
	"llm.gemini_api_key":             "",
	"llm.ollama_url":                 "http://localhost:11434",
	"llm.request_timeout":            "60s",
	"rewrite.worker_count":           5,
	"rewrite.max_title_length":       80,
	"rewrite.max_description_length": 230,
	"rewrite.prompts_path":           "",
}

// Load configuration from environment variables and optionally a config file.
// The file is taken from REWRITER_CONFIG, or ./rewriter.yaml when present.
// Environment variables take precedence over values from the file.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(ConfigPathEnv))
}

// LoadFrom is Load with an explicit config file path. An empty path searches
// the working directory for an optional rewriter.yaml.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("rewriter")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
