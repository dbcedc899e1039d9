package classifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"pennywise/internal/llm"
	"pennywise/internal/logger"
	"pennywise/internal/money"
)

const classifyPrompt = `Analyze this Polish transaction description and return a JSON object with:
- type: "income" or "expense"
- cycle: "none", "daily", "weekly", "monthly", or "yearly"
- category: a short lower-case category for the transaction
- amount: the amount in PLN found in the description, as a number, or null
  (look for formats like X PLN, X zł, X złotych, X zl, X zlotych)

Example inputs and outputs:
Input: "internet domowy 20zł miesięcznie"
Output: {"type": "expense", "cycle": "monthly", "category": "utilities", "amount": 20.00}

Input: "wypłata 5000 złotych"
Output: {"type": "income", "cycle": "monthly", "category": "salary", "amount": 5000.00}

Transaction: %s`

// OpenAIClassifier asks a chat model to classify descriptions. It works with
// any OpenAI-compatible endpoint, Ollama included.
type OpenAIClassifier struct {
	client llm.ChatCompleter
	model  string
}

// NewOpenAIClassifier creates a classifier using model on client.
func NewOpenAIClassifier(client llm.ChatCompleter, model string) *OpenAIClassifier {
	return &OpenAIClassifier{client: client, model: model}
}

// Classify returns ErrNoClassification when the model answers with anything
// other than a usable JSON object. When the model finds no amount, the
// description itself is searched for one.
func (c *OpenAIClassifier) Classify(ctx context.Context, description string) (*Classification, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(classifyPrompt, description)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}

	content, ok := llm.FirstChoice(resp)
	if !ok {
		return nil, ErrNoClassification
	}

	var result Classification
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		logger.Get().Warnw("unparseable classification", "error", err, "content", content)
		return nil, ErrNoClassification
	}
	if !result.valid() {
		logger.Get().Warnw("incomplete classification", "content", content)
		return nil, ErrNoClassification
	}

	if result.Amount == nil || !result.Amount.IsPositive() {
		result.Amount = nil
		if amount, ok := money.ParseAmount(description); ok {
			result.Amount = &amount
		}
	}
	return &result, nil
}
