// Package llm builds the chat-completion client shared by the transaction
// classifier and the assistant.
package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"pennywise/internal/config"
)

// ChatCompleter is the subset of the go-openai client used here.
// *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient returns a client for the configured provider, or nil when AI
// features are disabled. Ollama is reached through its OpenAI-compatible
// endpoint at cfg.BaseURL.
func NewClient(cfg config.AI) ChatCompleter {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.NewClient(cfg.APIKey)
	case config.ProviderOllama:
		oc := openai.DefaultConfig(cfg.APIKey)
		oc.BaseURL = cfg.BaseURL
		return openai.NewClientWithConfig(oc)
	default:
		return nil
	}
}

// FirstChoice returns the content of the first choice, or false when the
// response carries none.
func FirstChoice(resp openai.ChatCompletionResponse) (string, bool) {
	if len(resp.Choices) == 0 {
		return "", false
	}
	return resp.Choices[0].Message.Content, true
}
