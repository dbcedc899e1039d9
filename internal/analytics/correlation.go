package analytics

import (
	"sort"
	"time"

	"pennywise/internal/models"
)

const strongestPairs = 3

// CorrelationPair is the Pearson coefficient between two categories' monthly
// expense totals.
type CorrelationPair struct {
	A           string  `json:"category_a"`
	B           string  `json:"category_b"`
	Coefficient float64 `json:"coefficient"`
}

// Correlations holds the category correlation matrix and its extremes. Pairs
// whose coefficient is undefined are absent from Matrix and the rankings.
type Correlations struct {
	Matrix            map[string]map[string]float64 `json:"matrix"`
	StrongestPositive []CorrelationPair             `json:"strongest_positive"`
	StrongestNegative []CorrelationPair             `json:"strongest_negative"`
}

// CategoryCorrelations correlates categories over the months that have any
// expense. Only pairs with A < B are ranked, so self pairs and mirrored
// duplicates never appear.
func CategoryCorrelations(txs []models.Transaction) Correlations {
	out := Correlations{
		Matrix:            map[string]map[string]float64{},
		StrongestPositive: []CorrelationPair{},
		StrongestNegative: []CorrelationPair{},
	}

	pivot := make(map[string]map[time.Time]float64)
	monthSet := make(map[time.Time]struct{})
	for i := range txs {
		tx := &txs[i]
		if !isExpense(tx) {
			continue
		}
		m := monthOf(tx.CreatedAt)
		monthSet[m] = struct{}{}
		if pivot[tx.Category] == nil {
			pivot[tx.Category] = make(map[time.Time]float64)
		}
		pivot[tx.Category][m] += amountOf(tx)
	}

	months := make([]time.Time, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	categories := make([]string, 0, len(pivot))
	for c := range pivot {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	columns := make(map[string][]float64, len(categories))
	for _, c := range categories {
		col := make([]float64, len(months))
		for i, m := range months {
			col[i] = pivot[c][m]
		}
		columns[c] = col
	}

	var pairs []CorrelationPair
	for i, a := range categories {
		if _, ok := pearson(columns[a], columns[a]); ok {
			setCell(out.Matrix, a, a, 1)
		}
		for _, b := range categories[i+1:] {
			r, ok := pearson(columns[a], columns[b])
			if !ok {
				continue
			}
			setCell(out.Matrix, a, b, r)
			setCell(out.Matrix, b, a, r)
			pairs = append(pairs, CorrelationPair{A: a, B: b, Coefficient: r})
		}
	}

	byCoefficient := func(p []CorrelationPair, desc bool) {
		sort.SliceStable(p, func(i, j int) bool {
			if p[i].Coefficient != p[j].Coefficient {
				if desc {
					return p[i].Coefficient > p[j].Coefficient
				}
				return p[i].Coefficient < p[j].Coefficient
			}
			if p[i].A != p[j].A {
				return p[i].A < p[j].A
			}
			return p[i].B < p[j].B
		})
	}

	pos := append([]CorrelationPair(nil), pairs...)
	byCoefficient(pos, true)
	neg := append([]CorrelationPair(nil), pairs...)
	byCoefficient(neg, false)

	out.StrongestPositive = append(out.StrongestPositive, pos[:min(strongestPairs, len(pos))]...)
	out.StrongestNegative = append(out.StrongestNegative, neg[:min(strongestPairs, len(neg))]...)
	return out
}

func setCell(m map[string]map[string]float64, a, b string, v float64) {
	if m[a] == nil {
		m[a] = make(map[string]float64)
	}
	m[a][b] = v
}
