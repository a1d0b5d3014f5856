package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the agent.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Realtime RealtimeConfig `mapstructure:"realtime"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the local API listener.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Env            string   `mapstructure:"env"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// WebhookConfig points at the backend webhook base URL.
type WebhookConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// RealtimeConfig points at the server-push endpoint. An empty URL disables
// the channel.
type RealtimeConfig struct {
	URL string `mapstructure:"url"`
}

// SessionConfig carries the signed-in identity the agent runs under. The
// identity provider lives outside the agent; its output lands here.
type SessionConfig struct {
	UserID string `mapstructure:"user_id"`
	Email  string `mapstructure:"email"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables (DOT_ prefix) and an
// optional config.yaml.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "7133")
	v.SetDefault("server.env", "development")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetEnvPrefix("DOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("server.port", "PORT")
	v.BindEnv("webhook.base_url", "DOT_WEBHOOK_BASE_URL")
	v.BindEnv("realtime.url", "DOT_REALTIME_URL")
	v.BindEnv("session.user_id", "DOT_SESSION_USER_ID")
	v.BindEnv("session.email", "DOT_SESSION_EMAIL")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// A missing config file is fine; env vars can carry everything.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks that all required values are present.
func (c *Config) Validate() error {
	if c.Webhook.BaseURL == "" {
		return fmt.Errorf("DOT_WEBHOOK_BASE_URL is required")
	}
	if c.Session.UserID == "" {
		return fmt.Errorf("DOT_SESSION_USER_ID is required")
	}
	return nil
}
