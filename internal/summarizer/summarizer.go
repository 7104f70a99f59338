package summarizer

import (
	"fmt"

	"github.com/ryosukesatoh/vault-digest/internal/config"
)

// New creates a summarization backend based on the configuration
func New(cfg *config.Config) (Backend, error) {
	switch cfg.Summarizer.Type {
	case "ollama":
		return NewOllamaBackend(cfg.Summarizer.Host), nil
	case "anthropic":
		return NewAnthropicBackend(cfg.Summarizer.APIKey), nil
	default:
		return nil, ErrUnsupportedBackendType
	}
}

// ErrUnsupportedBackendType is returned when an unsupported backend type is specified
var ErrUnsupportedBackendType = fmt.Errorf("unsupported summarizer backend type")
