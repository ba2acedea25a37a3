package insights

import (
	"context"

	"github.com/cedisense/cedisense/internal/model"
	"github.com/cedisense/cedisense/internal/storage"
)

// Store is the slice of the expense store contract the insights engine
// consumes: filtered listing plus sum/count/average and group-by-category
// aggregation. Consistency of the underlying data is the store's concern.
type Store interface {
	ListExpenses(ctx context.Context, filter storage.ListFilter) ([]model.Expense, error)
	AggregateExpenses(ctx context.Context, filter storage.ListFilter) (storage.Aggregate, error)
	CategoryTotals(ctx context.Context, filter storage.ListFilter) ([]model.CategoryTotal, error)
}
