package engine

import (
	"context"

	"github.com/cedisense/cedisense/internal/model"
)

// Categorizer is the capability set every classification strategy implements.
// The service is polymorphic over this contract, not tied to any concrete
// classifier.
type Categorizer interface {
	Predict(ctx context.Context, description string) (model.CategorizationResult, error)
	Categories() []model.Category
}
