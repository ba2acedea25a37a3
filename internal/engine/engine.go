// Package engine orchestrates the expense categorization fallback chain.
//
// The chain is data, not control flow: an ordered list of stages, each
// wrapping a Categorizer with an acceptance threshold. Categorize walks the
// list and returns the first result that is present and confident enough.
// The terminal stage is expected to be the rule-based classifier, which
// never fails and is never low-confidence by construction.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cedisense/cedisense/internal/common"
	"github.com/cedisense/cedisense/internal/model"
)

// Stage is one step of the fallback chain. A prediction is accepted when the
// stage returns no error and its confidence is strictly greater than
// Threshold; a zero Threshold accepts any successful prediction.
type Stage struct {
	Categorizer Categorizer
	Name        string
	Threshold   float64
}

// Service is the single categorization entry point for the application
// layer. Safe for concurrent use: stages hold no shared mutable state and
// the stage list itself is guarded for runtime substitution.
type Service struct {
	logger *slog.Logger
	stages []Stage
	mu     sync.RWMutex
}

// NewService creates a categorization service over the given stages, in
// fallback order. The final stage must be infallible; passing the rule-based
// classifier there is what guarantees Categorize always produces a result.
func NewService(logger *slog.Logger, stages ...Stage) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("at least one categorization stage is required")
	}
	for _, stage := range stages {
		if stage.Categorizer == nil {
			return nil, fmt.Errorf("stage %q has no categorizer", stage.Name)
		}
	}

	return &Service{logger: logger, stages: stages}, nil
}

// Categorize runs the description through the fallback chain and returns the
// first acceptable result. Stage failures and low-confidence predictions are
// logged and absorbed, never surfaced to the caller.
func (s *Service) Categorize(ctx context.Context, description string) (model.CategorizationResult, error) {
	s.mu.RLock()
	stages := s.stages
	s.mu.RUnlock()

	var last model.CategorizationResult
	for _, stage := range stages {
		result, err := stage.Categorizer.Predict(ctx, description)
		if err != nil {
			s.logger.Warn("categorization stage failed, falling through",
				"stage", stage.Name,
				"error", err)
			continue
		}
		if validateErr := result.Validate(); validateErr != nil {
			s.logger.Warn("categorization stage returned invalid result, falling through",
				"stage", stage.Name,
				"error", validateErr)
			continue
		}
		if stage.Threshold > 0 && result.Confidence <= stage.Threshold {
			s.logger.Debug("categorization stage fell through",
				"stage", stage.Name,
				"error", common.ErrLowConfidence,
				"confidence", result.Confidence,
				"threshold", stage.Threshold)
			last = result
			continue
		}

		s.logger.Debug("description categorized",
			"stage", stage.Name,
			"category", result.Category,
			"method", result.Method,
			"confidence", result.Confidence)
		return result, nil
	}

	// Every stage failed or was low-confidence. With a rule-based terminal
	// stage this is unreachable; without one, fall back to the default
	// bucket rather than erroring.
	if last.Method != "" {
		return last, nil
	}
	return model.CategorizationResult{
		Category:   model.CategoryOther,
		Confidence: 0.3,
		Method:     model.MethodFallback,
	}, nil
}

// Categories returns the supported category set, delegating to the active
// classifier: the terminal stage, which defines the authoritative
// enumeration order.
func (s *Service) Categories() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stages[len(s.stages)-1].Categorizer.Categories()
}

// SetCategorizer substitutes the active strategy at runtime, replacing the
// whole chain with the single given classifier.
func (s *Service) SetCategorizer(c Categorizer) error {
	if c == nil {
		return fmt.Errorf("categorizer must not be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = []Stage{{Name: "custom", Categorizer: c}}
	return nil
}

// Stages returns the names of the configured chain stages in order.
func (s *Service) Stages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.stages))
	for i, stage := range s.stages {
		names[i] = stage.Name
	}
	return names
}
