package llm

import "fmt"

type ProviderConfig struct {
	Provider string // anthropic, openai, ollama
	APIKey   string
	Model    string // optional fixed model, disables tier selection
	BaseURL  string // ollama only
}

func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.Model), nil
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, ""), nil
	case "ollama":
		model := cfg.Model
		if model == "" {
			model = "llama3.1"
		}
		return NewOpenAIClient("ollama", model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
