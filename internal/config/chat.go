package config

import (
	"fmt"

	"github.com/tasktrack/platform/internal/domain"
)

// ChatConfig holds the conversational surface's model-provider credentials.
type ChatConfig struct {
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	Model           string `env:"ANTHROPIC_MODEL"`
}

// Validate enforces that the chat surface never boots without a credential
// for the provider it's about to call.
func (c *ChatConfig) Validate() error {
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("%w: ANTHROPIC_API_KEY is required", domain.ErrFatalConfig)
	}
	return nil
}
