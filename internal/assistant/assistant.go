package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"pennywise/internal/analytics"
	"pennywise/internal/config"
	"pennywise/internal/llm"
	"pennywise/internal/money"
)

// ErrEmptyResponse is returned when the chat model answers with no choices.
var ErrEmptyResponse = errors.New("chat model returned no answer")

const systemPrompt = `You are an expert financial advisor assistant. Your role is to:
1. Analyze transaction data and provide specific insights
2. Answer questions about spending patterns and financial habits
3. Give practical financial advice based on the user's actual transaction history
4. Be precise with numbers and calculations
5. Always explain the reasoning behind your advice
6. Use %s as the currency

When suggesting changes, be specific and actionable and reference actual
transactions when available.`

// Answer is the assistant's reply together with what it was shown.
type Answer struct {
	Response    string             `json:"response"`
	ContextUsed string             `json:"context_used"`
	Insights    analytics.Insights `json:"relevant_insights"`
}

// Assistant answers questions about the ledger.
type Assistant struct {
	client      llm.ChatCompleter
	retriever   ContextRetriever
	source      TransactionSource
	model       string
	temperature float32
	maxTokens   int
	symbol      string
}

// New creates an Assistant using the chat settings in cfg.
func New(client llm.ChatCompleter, retriever ContextRetriever, source TransactionSource, cfg config.AI, symbol string) *Assistant {
	if symbol == "" {
		symbol = money.DefaultSymbol
	}
	return &Assistant{
		client:      client,
		retriever:   retriever,
		source:      source,
		model:       cfg.ChatModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		symbol:      symbol,
	}
}

// Ask answers question using retrieved transactions and spending insights.
func (a *Assistant) Ask(ctx context.Context, question string) (*Answer, error) {
	contextText, err := a.retriever.RelevantContext(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	txs, err := a.source.GetAllTransactions()
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	insights := analytics.SpendingInsights(txs)
	seasonality, seasonErr := analytics.SeasonalPattern(txs)

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(systemPrompt, a.symbol)},
			{Role: openai.ChatMessageRoleUser, Content: a.userPrompt(question, contextText, insights, seasonality, seasonErr)},
		},
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	content, ok := llm.FirstChoice(resp)
	if !ok {
		return nil, ErrEmptyResponse
	}
	return &Answer{Response: content, ContextUsed: contextText, Insights: insights}, nil
}

func (a *Assistant) userPrompt(question, contextText string, insights analytics.Insights, seasonality analytics.Seasonality, seasonErr error) string {
	var b strings.Builder
	b.WriteString("Using this context about the user's transactions and financial history:\n\n")
	b.WriteString(contextText)
	b.WriteString("\n\nAdditional insights:\n")
	fmt.Fprintf(&b, "- Total spending: %s\n", money.FormatFloat(insights.TotalSpending, a.symbol))
	fmt.Fprintf(&b, "- Average transaction: %s\n", money.FormatFloat(insights.AvgTransaction, a.symbol))

	b.WriteString("- Monthly spending trend:")
	if len(insights.SpendingTrend) == 0 {
		b.WriteString(" N/A")
	}
	for _, c := range insights.SpendingTrend {
		fmt.Fprintf(&b, " %s %+.1f%%;", c.Month, c.Change*100)
	}
	b.WriteString("\n")

	b.WriteString("- Highest spending months:")
	if seasonErr != nil {
		b.WriteString(" N/A")
	}
	for _, m := range seasonality.HighMonths {
		fmt.Fprintf(&b, " %s (%s);", m.Name, money.FormatFloat(m.Average, a.symbol))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}
