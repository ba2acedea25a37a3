package main

import (
	"context"
	"testing"
	"time"

	"github.com/cedisense/cedisense/internal/engine"
	"github.com/cedisense/cedisense/internal/model"
	"github.com/cedisense/cedisense/internal/rules"
	"github.com/cedisense/cedisense/internal/storage"
	"github.com/cedisense/cedisense/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleOnlyService(t *testing.T) *engine.Service {
	t.Helper()

	svc, err := engine.NewService(nil, engine.Stage{
		Name:        "rule_based",
		Categorizer: rules.NewClassifier(nil),
	})
	require.NoError(t, err)
	return svc
}

func TestRecategorizeExpenses_RefreshesMatchingPrediction(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	// Correct category, stale prediction from an earlier model.
	stale := model.CategoryTransport
	expense := &model.Expense{
		UserID:      "ama",
		Description: "Pizza dinner",
		Amount:      4550,
		Category:    model.CategoryFood,
		AIPredicted: &stale,
		Date:        time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateExpense(ctx, expense))

	expenses, err := store.ListExpenses(ctx, storage.ListFilter{UserID: "ama"})
	require.NoError(t, err)

	changed, err := recategorizeExpenses(ctx, store, ruleOnlyService(t), expenses, false, false)
	require.NoError(t, err)
	assert.Equal(t, 0, changed, "prediction matches the current category")

	got, err := store.GetExpense(ctx, "ama", expense.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AIPredicted)
	assert.Equal(t, model.CategoryFood, *got.AIPredicted, "re-run must replace the stale prediction")
	assert.Equal(t, model.CategoryFood, got.Category)
}

func TestRecategorizeExpenses_UpdatesDifferingCategory(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	expense := testutil.SeedExpense(t, store, "ama", 2500, "Uber to the airport", model.CategoryOther,
		time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC))

	expenses, err := store.ListExpenses(ctx, storage.ListFilter{UserID: "ama"})
	require.NoError(t, err)

	changed, err := recategorizeExpenses(ctx, store, ruleOnlyService(t), expenses, false, false)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, err := store.GetExpense(ctx, "ama", expense.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AIPredicted)
	assert.Equal(t, model.CategoryTransport, *got.AIPredicted)
	assert.Equal(t, model.CategoryTransport, got.Category)
}

func TestRecategorizeExpenses_PredictOnlyKeepsCategory(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	expense := testutil.SeedExpense(t, store, "ama", 2500, "Uber to the airport", model.CategoryOther,
		time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC))

	expenses, err := store.ListExpenses(ctx, storage.ListFilter{UserID: "ama"})
	require.NoError(t, err)

	changed, err := recategorizeExpenses(ctx, store, ruleOnlyService(t), expenses, false, true)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, err := store.GetExpense(ctx, "ama", expense.ID)
	require.NoError(t, err)
	require.NotNil(t, got.AIPredicted)
	assert.Equal(t, model.CategoryTransport, *got.AIPredicted)
	assert.Equal(t, model.CategoryOther, got.Category, "predict-only must not touch the category")
}

func TestRecategorizeExpenses_DryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	expense := testutil.SeedExpense(t, store, "ama", 2500, "Uber to the airport", model.CategoryOther,
		time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC))

	expenses, err := store.ListExpenses(ctx, storage.ListFilter{UserID: "ama"})
	require.NoError(t, err)

	changed, err := recategorizeExpenses(ctx, store, ruleOnlyService(t), expenses, true, false)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, err := store.GetExpense(ctx, "ama", expense.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AIPredicted)
	assert.Equal(t, model.CategoryOther, got.Category)
}
