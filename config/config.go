package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`

	LLMProvider   string `env:"LLM_PROVIDER" envDefault:"anthropic"` // anthropic, openai, ollama
	AnthropicKey  string `env:"ANTHROPIC_API_KEY"`
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	LLMModel      string `env:"LLM_MODEL"` // overrides tier selection when set
	OllamaBaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434/v1"`

	HypixelKey string `env:"HYPIXEL_API_KEY"`

	DatabasePath     string `env:"DATABASE_PATH" envDefault:"./disclaude.db"`
	MaxContextTokens int    `env:"MAX_CONTEXT_TOKENS" envDefault:"100000"`

	RateLimitMessages int           `env:"RATE_LIMIT_MESSAGES" envDefault:"5"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`

	// Personality persistence is opt-in. When enabled the tracker state is
	// restored at startup and snapshotted on the given cron schedule plus
	// once more at shutdown.
	PersistPersonality bool   `env:"PERSIST_PERSONALITY" envDefault:"false"`
	SnapshotCron       string `env:"SNAPSHOT_CRON" envDefault:"0 * * * *"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() // ignore error if no .env

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=anthropic")
		}
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case "ollama":
		// local, no credential
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}

	return &cfg, nil
}
