package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rmastack/rmaflow-backend/internal/types"
	"github.com/rmastack/rmaflow-backend/internal/workflow"
)

func (e *testEnv) seedTaskPool(t *testing.T, status *types.Status, actions ...string) []*types.Task {
	t.Helper()
	ctx := context.Background()
	tasks := make([]*types.Task, 0, len(actions))
	for _, action := range actions {
		task, err := e.task.CreateTask(ctx, action, "", "", true)
		require.NoError(t, err)
		_, err = e.task.InsertTaskAtPosition(ctx, status.ID, task.ID, 0, true, 0)
		require.NoError(t, err)
		tasks = append(tasks, task)
	}
	return tasks
}

func TestInsertTaskAppendsWithPositionZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	status, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)
	tasks := env.seedTaskPool(t, status, "A", "B", "C")

	rows, err := env.task.OrderedTasksFor(ctx, status.ID, false)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, row := range rows {
		require.Equal(t, i+1, row.Position)
		require.Equal(t, tasks[i].ID, row.TaskID)
	}
}

func TestInsertTaskInMiddleRenumbers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	status, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)
	env.seedTaskPool(t, status, "A", "B", "C")

	inserted, err := env.task.CreateTask(ctx, "X", "", "", true)
	require.NoError(t, err)
	row, err := env.task.InsertTaskAtPosition(ctx, status.ID, inserted.ID, 2, true, 0)
	require.NoError(t, err)
	require.Equal(t, 2, row.Position)

	rows, err := env.task.OrderedTasksFor(ctx, status.ID, false)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	got := make([]string, 0, len(rows))
	for i, r := range rows {
		require.Equal(t, i+1, r.Position)
		got = append(got, r.Task.Action)
	}
	require.Equal(t, []string{"A", "X", "B", "C"}, got)
}

func TestInsertTaskPositionConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	status, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)
	env.seedTaskPool(t, status, "A", "B", "C")

	extra, err := env.task.CreateTask(ctx, "X", "", "", true)
	require.NoError(t, err)

	// Two tasks already finalized: position 2 would rewrite done work.
	_, err = env.task.InsertTaskAtPosition(ctx, status.ID, extra.ID, 2, true, 2)
	var conflict *workflow.PositionConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, 2, conflict.Position)
	require.Equal(t, 2, conflict.FinalizedCount)

	// Position 3 sits after the finalized prefix and is fine.
	row, err := env.task.InsertTaskAtPosition(ctx, status.ID, extra.ID, 3, true, 2)
	require.NoError(t, err)
	require.Equal(t, 3, row.Position)
}

func TestInsertTaskBeyondEndAppends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	status, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)
	env.seedTaskPool(t, status, "A", "B")

	extra, err := env.task.CreateTask(ctx, "X", "", "", true)
	require.NoError(t, err)
	row, err := env.task.InsertTaskAtPosition(ctx, status.ID, extra.ID, 99, true, 0)
	require.NoError(t, err)
	require.Equal(t, 3, row.Position)
}

func TestInsertTaskUnknownStatusOrTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	status, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)
	task, err := env.task.CreateTask(ctx, "A", "", "", true)
	require.NoError(t, err)

	var notFound *workflow.NotFoundError
	_, err = env.task.InsertTaskAtPosition(ctx, uuid.New(), task.ID, 1, true, 0)
	require.ErrorAs(t, err, &notFound)
	_, err = env.task.InsertTaskAtPosition(ctx, status.ID, uuid.New(), 1, true, 0)
	require.ErrorAs(t, err, &notFound)
}

func TestRemoveStatusTaskClosesGap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	status, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)
	tasks := env.seedTaskPool(t, status, "A", "B", "C")

	require.NoError(t, env.task.RemoveStatusTask(ctx, status.ID, tasks[1].ID))

	rows, err := env.task.OrderedTasksFor(ctx, status.ID, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, tasks[0].ID, rows[0].TaskID)
	require.Equal(t, 1, rows[0].Position)
	require.Equal(t, tasks[2].ID, rows[1].TaskID)
	require.Equal(t, 2, rows[1].Position)
}

func TestRemoveStatusTaskMissingPair(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	status, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)

	err = env.task.RemoveStatusTask(ctx, status.ID, uuid.New())
	var notFound *workflow.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
