package rules

import (
	"context"
	"strings"

	"github.com/cedisense/cedisense/internal/model"
)

// Confidence constants for the rule engine. A keyword hit is a strong signal
// but not a certainty; the fallback bucket is a guess by construction.
const (
	matchConfidence    = 0.85
	fallbackConfidence = 0.3
)

// Classifier categorizes descriptions by first-match keyword lookup against
// an ordered rule table. It is fully deterministic, holds no mutable state
// and never fails, so it can terminate the fallback chain.
type Classifier struct {
	table *Table
}

// NewClassifier creates a rule-based classifier over the given table.
func NewClassifier(table *Table) *Classifier {
	if table == nil {
		table = DefaultTable()
	}
	return &Classifier{table: table}
}

// Predict scans the normalized description against the table in declared
// order and returns on the first keyword that is a substring of it. With no
// match anywhere, the description lands in the "other" bucket with a low
// fixed confidence. The error return exists only to satisfy the chain stage
// contract; it is always nil.
func (c *Classifier) Predict(_ context.Context, description string) (model.CategorizationResult, error) {
	normalized := strings.ToLower(description)

	for _, entry := range c.table.Entries() {
		for _, keyword := range entry.Keywords {
			if strings.Contains(normalized, keyword) {
				return model.CategorizationResult{
					Category:       entry.Category,
					Confidence:     matchConfidence,
					Method:         model.MethodRuleBased,
					MatchedKeyword: keyword,
				}, nil
			}
		}
	}

	return model.CategorizationResult{
		Category:   model.CategoryOther,
		Confidence: fallbackConfidence,
		Method:     model.MethodFallback,
	}, nil
}

// Categories returns the categories this classifier can produce, in table
// order with the fallback bucket last.
func (c *Classifier) Categories() []model.Category {
	return c.table.Categories()
}
