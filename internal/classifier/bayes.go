package classifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/jbrukh/bayesian"

	"pennywise/internal/models"
	"pennywise/internal/money"
)

// minClasses is the smallest number of categories the naive Bayes model
// can separate.
const minClasses = 2

// BayesClassifier learns categories from the words of past transaction
// descriptions. A category's type and cycle are the ones most often
// recorded with it.
type BayesClassifier struct {
	mu         sync.RWMutex
	model      *bayesian.Classifier
	classes    []bayesian.Class
	vocabulary map[string]struct{}
	profiles   map[string]profile
}

type profile struct {
	txType models.TransactionType
	cycle  models.Cycle
}

// NewBayesClassifier trains a classifier on txs.
func NewBayesClassifier(txs []models.Transaction) (*BayesClassifier, error) {
	c := &BayesClassifier{}
	if err := c.Train(txs); err != nil {
		return nil, err
	}
	return c, nil
}

// Train replaces the model with one learned from txs. It needs transactions
// in at least two categories.
func (c *BayesClassifier) Train(txs []models.Transaction) error {
	typeVotes := make(map[string]map[models.TransactionType]int)
	cycleVotes := make(map[string]map[models.Cycle]int)
	var classes []bayesian.Class
	docs := make(map[bayesian.Class][][]string)

	for _, t := range txs {
		if t.Category == "" {
			continue
		}
		class := bayesian.Class(t.Category)
		if _, seen := typeVotes[t.Category]; !seen {
			classes = append(classes, class)
			typeVotes[t.Category] = make(map[models.TransactionType]int)
			cycleVotes[t.Category] = make(map[models.Cycle]int)
		}
		typeVotes[t.Category][t.Type]++
		cycleVotes[t.Category][t.Cycle]++
		if tokens := Tokenize(t.Description); len(tokens) > 0 {
			docs[class] = append(docs[class], tokens)
		}
	}
	if len(classes) < minClasses {
		return fmt.Errorf("need transactions in at least %d categories, have %d", minClasses, len(classes))
	}

	model := bayesian.NewClassifier(classes...)
	vocabulary := make(map[string]struct{})
	for class, documents := range docs {
		for _, doc := range documents {
			model.Learn(doc, class)
			for _, w := range doc {
				vocabulary[w] = struct{}{}
			}
		}
	}

	profiles := make(map[string]profile, len(classes))
	for _, class := range classes {
		cat := string(class)
		profiles[cat] = profile{
			txType: majority(typeVotes[cat], models.TransactionTypeExpense),
			cycle:  majority(cycleVotes[cat], models.CycleNone),
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
	c.classes = classes
	c.vocabulary = vocabulary
	c.profiles = profiles
	return nil
}

// Classify picks the most likely category for the description's words. It
// returns ErrNoClassification when no word was seen during training or the
// best category is tied.
func (c *BayesClassifier) Classify(_ context.Context, description string) (*Classification, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tokens := Tokenize(description)
	known := false
	for _, tok := range tokens {
		if _, ok := c.vocabulary[tok]; ok {
			known = true
			break
		}
	}
	if !known {
		return nil, ErrNoClassification
	}

	_, best, strict := c.model.LogScores(tokens)
	if !strict {
		return nil, ErrNoClassification
	}
	category := string(c.classes[best])
	p := c.profiles[category]

	result := &Classification{Type: p.txType, Category: category, Cycle: p.cycle}
	if amount, ok := money.ParseAmount(description); ok {
		result.Amount = &amount
	}
	return result, nil
}

// majority returns the key with the most votes. Ties go to fallback, then
// to the lexically smaller key.
func majority[K ~string](votes map[K]int, fallback K) K {
	best, bestVotes := fallback, votes[fallback]
	for k, v := range votes {
		switch {
		case v > bestVotes:
			best, bestVotes = k, v
		case v == bestVotes && best != fallback && k < best:
			best = k
		}
	}
	return best
}
