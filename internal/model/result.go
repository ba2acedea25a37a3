package model

import "fmt"

// Method tags identifying which stage of the fallback chain produced a
// categorization result.
const (
	MethodRuleBased  = "rule_based"
	MethodFallback   = "fallback"
	MethodMLPrimary  = "ml_primary"
	MethodGenerative = "generative"
)

// CategorizationResult is the outcome of one classification call. It is
// ephemeral: only the predicted category is ever persisted, onto the Expense.
type CategorizationResult struct {
	Category       Category
	Method         string
	MatchedKeyword string
	Confidence     float64
}

// Validate checks the result against the contract every chain stage must
// honor.
func (r CategorizationResult) Validate() error {
	if !ValidCategory(r.Category) {
		return fmt.Errorf("predicted category %q is not a valid category", r.Category)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", r.Confidence)
	}
	if r.Method == "" {
		return fmt.Errorf("method tag is required")
	}
	return nil
}
