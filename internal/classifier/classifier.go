// Package classifier suggests a type, category, cycle and amount for a
// free-text transaction description.
package classifier

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"pennywise/internal/models"
)

// ErrNoClassification means the description could not be classified.
var ErrNoClassification = errors.New("no classification")

// Classification is a suggested set of transaction fields. Amount is nil
// when no amount could be found in the description.
type Classification struct {
	Type     models.TransactionType `json:"type"`
	Category string                 `json:"category"`
	Cycle    models.Cycle           `json:"cycle"`
	Amount   *decimal.Decimal       `json:"amount,omitempty"`
}

// Classifier classifies a transaction description.
type Classifier interface {
	Classify(ctx context.Context, description string) (*Classification, error)
}

// valid reports whether c names a usable type, category and cycle. An empty
// cycle is read as CycleNone.
func (c *Classification) valid() bool {
	if c.Cycle == "" {
		c.Cycle = models.CycleNone
	}
	c.Category = strings.TrimSpace(c.Category)
	return c.Type.Valid() && c.Cycle.Valid() && c.Category != ""
}

// Chain tries each classifier in turn and returns the first classification.
// When every classifier fails the last error other than ErrNoClassification
// is returned, or ErrNoClassification if there was none.
type Chain []Classifier

func (ch Chain) Classify(ctx context.Context, description string) (*Classification, error) {
	var lastErr error
	for _, c := range ch {
		if c == nil {
			continue
		}
		result, err := c.Classify(ctx, description)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, ErrNoClassification) {
			lastErr = err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoClassification
}

// Tokenize lower-cases text and splits it into words of at least two
// letters. Numbers are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 || isNumber(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
