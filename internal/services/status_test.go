package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rmastack/rmaflow-backend/internal/workflow"
)

func TestCreateStatusIdempotentByName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.status.CreateStatus(ctx, "Basic Check", "initial inspection", false)
	require.NoError(t, err)
	second, err := env.status.CreateStatus(ctx, "Basic Check", "different description", true)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	// The existing row wins, the second call changes nothing.
	require.Equal(t, "initial inspection", second.Description)
	require.False(t, second.IsClosed)
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	status, err := env.status.CreateStatus(ctx, "Repair", "", false)
	require.NoError(t, err)

	updated, err := env.status.UpdateStatus(ctx, status.ID, "bench repair", true)
	require.NoError(t, err)
	require.Equal(t, "Repair", updated.Name)
	require.Equal(t, "bench repair", updated.Description)
	require.True(t, updated.IsClosed)

	_, err = env.status.UpdateStatus(ctx, uuid.New(), "", false)
	var notFound *workflow.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAddTransitionRejectsSelfLoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	status, err := env.status.CreateStatus(ctx, "Repair", "", false)
	require.NoError(t, err)

	err = env.status.AddTransition(ctx, status.ID, status.ID)
	var vErr *workflow.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestAddTransitionRequiresBothStatuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	status, err := env.status.CreateStatus(ctx, "Repair", "", false)
	require.NoError(t, err)

	err = env.status.AddTransition(ctx, status.ID, uuid.New())
	var notFound *workflow.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAddTransitionDeduplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	from, err := env.status.CreateStatus(ctx, "Repair", "", false)
	require.NoError(t, err)
	to, err := env.status.CreateStatus(ctx, "Final Test", "", false)
	require.NoError(t, err)

	require.NoError(t, env.status.AddTransition(ctx, from.ID, to.ID))
	require.NoError(t, env.status.AddTransition(ctx, from.ID, to.ID))

	next, err := env.status.PossibleNextStatuses(ctx, from.ID)
	require.NoError(t, err)
	require.Len(t, next, 1)
	require.Equal(t, to.ID, next[0].ID)
}

func TestPossibleNextStatusesInsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	from, err := env.status.CreateStatus(ctx, "Repair", "", false)
	require.NoError(t, err)
	names := []string{"Final Test", "Scrap", "Return to Customer"}
	for _, name := range names {
		to, err := env.status.CreateStatus(ctx, name, "", false)
		require.NoError(t, err)
		require.NoError(t, env.status.AddTransition(ctx, from.ID, to.ID))
	}

	next, err := env.status.PossibleNextStatuses(ctx, from.ID)
	require.NoError(t, err)
	require.Len(t, next, len(names))
	for i, name := range names {
		require.Equal(t, name, next[i].Name)
	}
}
