// Package assistant answers free-form questions about the ledger with a chat
// model, grounding each answer in matching transactions and spending
// insights.
package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pennywise/internal/classifier"
	"pennywise/internal/models"
	"pennywise/internal/money"
)

// DefaultContextSize is how many transactions a retriever puts in context.
const DefaultContextSize = 5

const noContext = "No relevant transaction history found."

// TransactionSource lists the ledger. services.TransactionServicer
// satisfies it.
type TransactionSource interface {
	GetAllTransactions() ([]models.Transaction, error)
}

// ContextRetriever finds ledger context relevant to a question.
type ContextRetriever interface {
	RelevantContext(ctx context.Context, query string) (string, error)
}

// LedgerRetriever ranks transactions by how many query words appear in
// their description, type and category.
type LedgerRetriever struct {
	source TransactionSource
	k      int
	symbol string
}

// NewLedgerRetriever returns a retriever putting up to k transactions in
// context, with amounts rendered in symbol. k <= 0 uses DefaultContextSize.
func NewLedgerRetriever(source TransactionSource, k int, symbol string) *LedgerRetriever {
	if k <= 0 {
		k = DefaultContextSize
	}
	return &LedgerRetriever{source: source, k: k, symbol: symbol}
}

func (r *LedgerRetriever) RelevantContext(ctx context.Context, query string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	txs, err := r.source.GetAllTransactions()
	if err != nil {
		return "", err
	}
	return r.format(rank(txs, classifier.Tokenize(query), r.k)), nil
}

type scored struct {
	tx    models.Transaction
	score int
}

// rank keeps transactions sharing at least one word with the query, most
// shared words first and newer first on ties.
func rank(txs []models.Transaction, terms []string, k int) []models.Transaction {
	if len(terms) == 0 {
		return nil
	}
	query := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		query[t] = struct{}{}
	}

	var hits []scored
	for _, tx := range txs {
		seen := make(map[string]struct{})
		score := 0
		for _, w := range classifier.Tokenize(document(&tx)) {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			if _, ok := query[w]; ok {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{tx: tx, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].tx.CreatedAt.After(hits[j].tx.CreatedAt)
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	out := make([]models.Transaction, len(hits))
	for i, h := range hits {
		out[i] = h.tx
	}
	return out
}

func document(tx *models.Transaction) string {
	return fmt.Sprintf("%s (%s, %s)", tx.Description, tx.Type, tx.Category)
}

func (r *LedgerRetriever) format(txs []models.Transaction) string {
	if len(txs) == 0 {
		return noContext
	}
	var b strings.Builder
	b.WriteString("Relevant transactions:")
	for i := range txs {
		tx := &txs[i]
		fmt.Fprintf(&b, "\n%d. [%s] %s (%s)", i+1, tx.CreatedAt.UTC().Format("2006-01-02"), document(tx), money.Format(tx.Amount, r.symbol))
	}
	return b.String()
}
