package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything resolved from the environment at startup.
// It is never mutated after Load returns; handlers and the analysis
// orchestrator receive it by pointer and treat it as read-only.
type Config struct {
	Port string

	// Remote API backend (OpenAI-compatible).
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// Local model backend (Ollama).
	OllamaBaseURL string
	OllamaModel   string

	// One outbound provider call is bounded by this timeout.
	ProviderTimeout time.Duration

	// Normalized content is truncated to this many runes before analysis.
	MaxContentLen int

	UserAgent string

	// Optional YAML file overriding the embedded heuristic lexicon.
	LexiconPath string
}

// Load reads configuration from environment variables once.
//
// Environment variables:
//   - PORT: HTTP listen port (default "8080")
//   - OPENAI_API_KEY: enables the remote backend when set
//   - OPENAI_MODEL: remote model id (default "gpt-4o-mini")
//   - OPENAI_BASE_URL: override for testing against a fake endpoint
//   - OLLAMA_BASE_URL: local model server (default "http://localhost:11434")
//   - OLLAMA_MODEL: local model id (default "llama3.1:8b")
//   - PROVIDER_TIMEOUT: outbound call budget (default "60s")
//   - MAX_CONTENT_LENGTH: content budget in runes (default 8000)
//   - LEXICON_PATH: optional heuristic lexicon YAML
func Load() *Config {
	return &Config{
		Port:            getenv("PORT", "8080"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getenv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		OllamaBaseURL:   getenv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:     getenv("OLLAMA_MODEL", "llama3.1:8b"),
		ProviderTimeout: getenvDuration("PROVIDER_TIMEOUT", 60*time.Second),
		MaxContentLen:   getenvInt("MAX_CONTENT_LENGTH", 8000),
		UserAgent:       getenv("USER_AGENT", "site-analyzer-bot/1.0"),
		LexiconPath:     os.Getenv("LEXICON_PATH"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
