package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmastack/rmaflow-backend/internal/workflow"
)

func TestCreateCategoryIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.catalog.CreateCategory(ctx, "Board")
	require.NoError(t, err)
	second, err := env.catalog.CreateCategory(ctx, "Board")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	all, err := env.catalog.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCreateCategoryEmptyName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.CreateCategory(context.Background(), "")
	var vErr *workflow.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestGenerateRackBuildsFullGrid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cells, err := env.catalog.GenerateRack(ctx, "A1", 3, 4)
	require.NoError(t, err)
	require.Len(t, cells, 12)

	stored, err := env.catalog.ListLocations(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, stored, 12)

	seen := make(map[string]bool, len(stored))
	for _, cell := range stored {
		require.Equal(t, "A1", cell.Rack)
		require.GreaterOrEqual(t, cell.Layer, 1)
		require.LessOrEqual(t, cell.Layer, 3)
		require.GreaterOrEqual(t, cell.Space, 1)
		require.LessOrEqual(t, cell.Space, 4)
		require.False(t, seen[cell.Label()])
		seen[cell.Label()] = true
	}
}

func TestGenerateRackKeepsExistingCells(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.GenerateRack(ctx, "A1", 2, 2)
	require.NoError(t, err)
	// Growing the rack keeps the original cells and adds the new ones.
	_, err = env.catalog.GenerateRack(ctx, "A1", 2, 3)
	require.NoError(t, err)

	stored, err := env.catalog.ListLocations(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, stored, 6)
}

func TestGenerateRackValidatesDimensions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var vErr *workflow.ValidationError
	_, err := env.catalog.GenerateRack(ctx, "", 2, 2)
	require.ErrorAs(t, err, &vErr)
	_, err = env.catalog.GenerateRack(ctx, "A1", 0, 2)
	require.ErrorAs(t, err, &vErr)
	_, err = env.catalog.GenerateRack(ctx, "A1", 2, -1)
	require.ErrorAs(t, err, &vErr)
}

func TestListLocationsScopedToRack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.GenerateRack(ctx, "A1", 1, 2)
	require.NoError(t, err)
	_, err = env.catalog.GenerateRack(ctx, "B7", 1, 3)
	require.NoError(t, err)

	a1, err := env.catalog.ListLocations(ctx, "A1")
	require.NoError(t, err)
	require.Len(t, a1, 2)
	b7, err := env.catalog.ListLocations(ctx, "B7")
	require.NoError(t, err)
	require.Len(t, b7, 3)
}
