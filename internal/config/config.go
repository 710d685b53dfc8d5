package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Rewrite  RewriteConfig  `mapstructure:"rewrite" validate:"required"`
}

// ServerConfig contains the HTTP server and logging settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// LLMConfig selects and configures the text generation backend.
type LLMConfig struct {
	Provider       string        `mapstructure:"provider" validate:"required,oneof=ollama gemini"`
	Model          string        `mapstructure:"model"`
	GeminiAPIKey   string        `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	OllamaURL      string        `mapstructure:"ollama_url" validate:"omitempty,url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
}

// RewriteConfig contains the batch settings.
type RewriteConfig struct {
	WorkerCount          int    `mapstructure:"worker_count" validate:"required,gt=0,lte=100"`
	MaxTitleLength       int    `mapstructure:"max_title_length" validate:"required,gt=0"`
	MaxDescriptionLength int    `mapstructure:"max_description_length" validate:"required,gt=0"`
	PromptsPath          string `mapstructure:"prompts_path"`
}
