// Package config loads the agent's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/petasbytes/toolloop/internal/gateway"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Provider      string `env:"AGT_PROVIDER" envDefault:"anthropic" validate:"oneof=anthropic openai"`
	Model         string `env:"AGT_MODEL"`
	MaxTokens     int    `env:"AGT_MAX_TOKENS" envDefault:"1024" validate:"gt=0"`
	AnthropicKey  string `env:"ANTHROPIC_API_KEY" validate:"required_if=Provider anthropic"`
	OpenAIKey     string `env:"OPENAI_API_KEY" envDefault:"ollama"`
	OpenAIBaseURL string `env:"AGT_OPENAI_BASE_URL" validate:"omitempty,url"`
	WorkRoot      string `env:"AGT_WORK_ROOT"`
	LogLevel      string `env:"AGT_LOG_LEVEL" envDefault:"warn" validate:"oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load parses the environment without validating, so flags can still override.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks the final configuration.
func (c Config) Validate() error {
	c.LogLevel = strings.ToLower(c.LogLevel)
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "AnthropicKey":
		return "ANTHROPIC_API_KEY is required for the anthropic provider"
	case "Provider":
		return fmt.Sprintf("unknown provider %q (want anthropic or openai)", fe.Value())
	case "LogLevel":
		return fmt.Sprintf("unknown log level %q", fe.Value())
	}
	return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
}

// ModelOrDefault returns Model, or the provider's default model when unset.
func (c Config) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	if c.Provider == ProviderOpenAI {
		return gateway.DefaultOpenAIModel
	}
	return string(gateway.DefaultAnthropicModel)
}

// SlogLevel maps LogLevel to a slog level; unknown values mean warn.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}

// Gateway builds the completion backend for the configured provider.
func (c Config) Gateway(log *slog.Logger) gateway.Gateway {
	if c.Provider == ProviderOpenAI {
		return gateway.NewOpenAI(c.OpenAIBaseURL, c.OpenAIKey, c.MaxTokens).WithLogger(log)
	}
	return gateway.NewAnthropic(int64(c.MaxTokens)).WithLogger(log)
}
