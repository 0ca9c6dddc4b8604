package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmastack/rmaflow-backend/internal/repos"
	"github.com/rmastack/rmaflow-backend/internal/types"
	"github.com/rmastack/rmaflow-backend/internal/workflow"
)

func TestValidSerialNumber(t *testing.T) {
	cases := []struct {
		name string
		sn   string
		want bool
	}{
		{name: "thirteen_digits", sn: "1234567890123", want: true},
		{name: "all_zeros", sn: "0000000000000", want: true},
		{name: "too_short", sn: "123456789012", want: false},
		{name: "too_long", sn: "12345678901234", want: false},
		{name: "letter_inside", sn: "12345678901a3", want: false},
		{name: "empty", sn: "", want: false},
		{name: "unicode_digit", sn: "123456789012٣", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := validSerialNumber(tc.sn); got != tc.want {
				t.Fatalf("validSerialNumber(%q)=%v, want %v", tc.sn, got, tc.want)
			}
		})
	}
}

func TestCreateProductAssignsEntryStatusAndTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, sorting, taskA, _ := env.seedSortingFlow(t, false)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, product.CurrentStatusID)
	require.Equal(t, sorting.ID, *product.CurrentStatusID)
	require.Equal(t, types.PriorityNormal, product.Priority)

	tasks, err := env.product.ListProductTasks(ctx, product.ID, false)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, "TaskA", tasks[0].Task.Action)
	require.Equal(t, "TaskB", tasks[1].Task.Action)

	require.NotNil(t, product.CurrentTaskID)
	require.Equal(t, taskA.ID, *product.CurrentTaskID)

	history, err := env.history.StatusHistory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, types.DefaultEntryStatusName, history[0].StatusName)
}

func TestCreateProductRejectsBadSerialNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, _ := env.seedSortingFlow(t, false)

	_, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "12345",
		CategoryID:   category.ID,
	})
	var snErr *workflow.InvalidSerialNumberError
	require.ErrorAs(t, err, &snErr)
	require.Equal(t, "12345", snErr.SerialNumber)
}

func TestCreateProductRejectsDuplicateSerialNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, _ := env.seedSortingFlow(t, false)

	in := CreateProductInput{SerialNumber: "1234567890123", CategoryID: category.ID}
	_, err := env.product.CreateProduct(ctx, in)
	require.NoError(t, err)
	_, err = env.product.CreateProduct(ctx, in)
	var vErr *workflow.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "serial_number", vErr.Field)
}

func TestCompleteTaskAdvancesCurrentTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, taskB := env.seedSortingFlow(t, false)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	active, err := env.product.ListProductTasks(ctx, product.ID, true)
	require.NoError(t, err)
	require.Len(t, active, 2)

	_, err = env.product.CompleteTask(ctx, active[0].ID, "Pass", "")
	require.NoError(t, err)

	reloaded, err := env.product.GetBySerialNumber(ctx, product.SerialNumber)
	require.NoError(t, err)
	require.NotNil(t, reloaded.CurrentTaskID)
	require.Equal(t, taskB.ID, *reloaded.CurrentTaskID)

	// Finishing the last task clears the pointer.
	_, err = env.product.CompleteTask(ctx, active[1].ID, "Pass", "")
	require.NoError(t, err)
	reloaded, err = env.product.GetBySerialNumber(ctx, product.SerialNumber)
	require.NoError(t, err)
	require.Nil(t, reloaded.CurrentTaskID)
}

func TestCompleteTaskTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, _ := env.seedSortingFlow(t, false)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	active, err := env.product.ListProductTasks(ctx, product.ID, true)
	require.NoError(t, err)

	_, err = env.product.CompleteTask(ctx, active[0].ID, "Pass", "")
	require.NoError(t, err)
	_, err = env.product.CompleteTask(ctx, active[0].ID, "Pass again", "")
	var finalized *workflow.AlreadyFinalizedError
	require.ErrorAs(t, err, &finalized)

	// The row kept its original result.
	rows, err := env.product.ListProductTasks(ctx, product.ID, false)
	require.NoError(t, err)
	require.Equal(t, "Pass", rows[0].Result)
}

func TestSkipTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, taskB := env.seedSortingFlow(t, true)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	active, err := env.product.ListProductTasks(ctx, product.ID, true)
	require.NoError(t, err)

	row, err := env.product.SkipTask(ctx, active[0].ID)
	require.NoError(t, err)
	require.True(t, row.IsSkipped)
	require.Equal(t, "Skipped", row.Result)

	reloaded, err := env.product.GetBySerialNumber(ctx, product.SerialNumber)
	require.NoError(t, err)
	require.Equal(t, taskB.ID, *reloaded.CurrentTaskID)
}

func TestSkipTaskNotSkippable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, _ := env.seedSortingFlow(t, false)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	active, err := env.product.ListProductTasks(ctx, product.ID, true)
	require.NoError(t, err)

	_, err = env.product.SkipTask(ctx, active[0].ID)
	var notSkippable *workflow.NotSkippableError
	require.ErrorAs(t, err, &notSkippable)
	require.Equal(t, "TaskA", notSkippable.TaskAction)
}

func TestSkipCompletedTaskFailsUnchanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, _ := env.seedSortingFlow(t, true)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	active, err := env.product.ListProductTasks(ctx, product.ID, true)
	require.NoError(t, err)

	_, err = env.product.CompleteTask(ctx, active[0].ID, "Pass", "done early")
	require.NoError(t, err)
	_, err = env.product.SkipTask(ctx, active[0].ID)
	var finalized *workflow.AlreadyFinalizedError
	require.ErrorAs(t, err, &finalized)

	rows, err := env.product.ListProductTasks(ctx, product.ID, false)
	require.NoError(t, err)
	require.True(t, rows[0].IsCompleted)
	require.False(t, rows[0].IsSkipped)
	require.Equal(t, "Pass", rows[0].Result)
	require.Equal(t, "done early", rows[0].Note)
}

func TestChangeStatusInvalidTransition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, _ := env.seedSortingFlow(t, true)
	unreachable, err := env.status.CreateStatus(ctx, "FA Lab", "", false)
	require.NoError(t, err)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	before, err := env.product.GetBySerialNumber(ctx, product.SerialNumber)
	require.NoError(t, err)

	_, err = env.product.ChangeStatus(ctx, product.ID, unreachable.ID)
	var invalid *workflow.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)

	after, err := env.product.GetBySerialNumber(ctx, product.SerialNumber)
	require.NoError(t, err)
	require.Equal(t, *before.CurrentStatusID, *after.CurrentStatusID)
	history, err := env.history.StatusHistory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestChangeStatusBlockedByUnskippableTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, sorting, _, _ := env.seedSortingFlow(t, false)
	next, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)
	require.NoError(t, env.status.AddTransition(ctx, sorting.ID, next.ID))

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	_, err = env.product.ChangeStatus(ctx, product.ID, next.ID)
	var incomplete *workflow.IncompleteTasksError
	require.ErrorAs(t, err, &incomplete)
	require.Equal(t, 2, incomplete.BlockedCount)

	active, err := env.product.ListProductTasks(ctx, product.ID, true)
	require.NoError(t, err)
	for _, row := range active {
		_, err = env.product.CompleteTask(ctx, row.ID, "Pass", "")
		require.NoError(t, err)
	}

	updated, err := env.product.ChangeStatus(ctx, product.ID, next.ID)
	require.NoError(t, err)
	require.Equal(t, next.ID, *updated.CurrentStatusID)
	history, err := env.history.StatusHistory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "Basic Check", history[1].StatusName)
}

func TestChangeStatusSkippableTasksDoNotBlock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, sorting, _, _ := env.seedSortingFlow(t, true)
	next, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)
	require.NoError(t, env.status.AddTransition(ctx, sorting.ID, next.ID))

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	updated, err := env.product.ChangeStatus(ctx, product.ID, next.ID)
	require.NoError(t, err)
	require.Equal(t, next.ID, *updated.CurrentStatusID)
}

func TestChangeStatusToClosedReleasesEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, sorting, _, _ := env.seedSortingFlow(t, true)
	closed, err := env.status.CreateStatus(ctx, "Completed", "", true)
	require.NoError(t, err)
	require.NoError(t, env.status.AddTransition(ctx, sorting.ID, closed.ID))

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	_, err = env.product.AssignLocation(ctx, product.ID, "A1", 2, 5)
	require.NoError(t, err)

	active, err := env.product.ListProductTasks(ctx, product.ID, true)
	require.NoError(t, err)
	for _, row := range active {
		_, err = env.product.SkipTask(ctx, row.ID)
		require.NoError(t, err)
	}

	updated, err := env.product.ChangeStatus(ctx, product.ID, closed.ID)
	require.NoError(t, err)
	require.Nil(t, updated.CurrentTaskID)
	require.Nil(t, updated.LocationID)
}

func TestRepeatedStatusVisitsAppendTasksAgain(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, sorting, _, _ := env.seedSortingFlow(t, true)
	next, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)
	require.NoError(t, env.status.AddTransition(ctx, sorting.ID, next.ID))
	require.NoError(t, env.status.AddTransition(ctx, next.ID, sorting.ID))

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	finalizeAll := func() {
		active, err := env.product.ListProductTasks(ctx, product.ID, true)
		require.NoError(t, err)
		for _, row := range active {
			_, err = env.product.SkipTask(ctx, row.ID)
			require.NoError(t, err)
		}
	}

	finalizeAll()
	_, err = env.product.ChangeStatus(ctx, product.ID, next.ID)
	require.NoError(t, err)
	_, err = env.product.ChangeStatus(ctx, product.ID, sorting.ID)
	require.NoError(t, err)

	all, err := env.product.ListProductTasks(ctx, product.ID, false)
	require.NoError(t, err)
	// Two from creation, two from the second visit.
	require.Len(t, all, 4)
}

func TestRevisitKeepsActiveInstancesSingular(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, sorting, taskA, taskB := env.seedSortingFlow(t, true)
	next, err := env.status.CreateStatus(ctx, "Basic Check", "", false)
	require.NoError(t, err)
	require.NoError(t, env.status.AddTransition(ctx, sorting.ID, next.ID))
	require.NoError(t, env.status.AddTransition(ctx, next.ID, sorting.ID))

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	// Skippable instances don't block the round trip and stay active
	// through it.
	_, err = env.product.ChangeStatus(ctx, product.ID, next.ID)
	require.NoError(t, err)
	_, err = env.product.ChangeStatus(ctx, product.ID, sorting.ID)
	require.NoError(t, err)

	all, err := env.product.ListProductTasks(ctx, product.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	activePerTask := map[string]int{}
	for _, row := range all {
		if row.Active() {
			activePerTask[row.TaskID.String()]++
		}
	}
	require.Equal(t, 1, activePerTask[taskA.ID.String()])
	require.Equal(t, 1, activePerTask[taskB.ID.String()])

	// A half-finalized list reassigns only the finalized pair.
	active, err := env.product.ListProductTasks(ctx, product.ID, true)
	require.NoError(t, err)
	_, err = env.product.SkipTask(ctx, active[0].ID)
	require.NoError(t, err)
	_, err = env.product.ChangeStatus(ctx, product.ID, next.ID)
	require.NoError(t, err)
	_, err = env.product.ChangeStatus(ctx, product.ID, sorting.ID)
	require.NoError(t, err)

	all, err = env.product.ListProductTasks(ctx, product.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	activePerTask = map[string]int{}
	for _, row := range all {
		if row.Active() {
			activePerTask[row.TaskID.String()]++
		}
	}
	require.Equal(t, 1, activePerTask[taskA.ID.String()])
	require.Equal(t, 1, activePerTask[taskB.ID.String()])
}

func TestAssignLocationOccupied(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, _ := env.seedSortingFlow(t, true)

	p1, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	p2, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "9876543210987",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	_, err = env.product.AssignLocation(ctx, p1.ID, "A1", 2, 5)
	require.NoError(t, err)
	_, err = env.product.AssignLocation(ctx, p2.ID, "A1", 2, 5)
	var occupied *workflow.LocationOccupiedError
	require.ErrorAs(t, err, &occupied)
	require.Equal(t, "A1", occupied.Rack)

	// Releasing frees the cell for the other product.
	_, err = env.product.ReleaseLocation(ctx, p1.ID)
	require.NoError(t, err)
	_, err = env.product.AssignLocation(ctx, p2.ID, "A1", 2, 5)
	require.NoError(t, err)
}

func TestAssignAdHocTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, _ := env.seedSortingFlow(t, true)
	extra, err := env.task.CreateTask(ctx, "Extra Check", "", "", true)
	require.NoError(t, err)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	row, err := env.product.AssignAdHocTask(ctx, product.ID, extra.ID, false)
	require.NoError(t, err)
	require.False(t, row.IsPredefined)

	// Ad-hoc rows sort after the predefined ones.
	all, err := env.product.ListProductTasks(ctx, product.ID, true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "Extra Check", all[2].Task.Action)

	// The current task pointer stays on the predefined work.
	reloaded, err := env.product.GetBySerialNumber(ctx, product.SerialNumber)
	require.NoError(t, err)
	require.Equal(t, "TaskA", reloaded.CurrentTask.Action)

	// A second active instance of the same pair is rejected.
	_, err = env.product.AssignAdHocTask(ctx, product.ID, extra.ID, false)
	var vErr *workflow.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestAssignAdHocTaskSeedsTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, sorting, _, _ := env.seedSortingFlow(t, true)
	extra, err := env.task.CreateTask(ctx, "Extra Check", "", "", true)
	require.NoError(t, err)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	row, err := env.product.AssignAdHocTask(ctx, product.ID, extra.ID, true)
	require.NoError(t, err)
	// The instance itself is never predefined.
	require.False(t, row.IsPredefined)

	templates, err := env.task.OrderedTasksFor(ctx, sorting.ID, true)
	require.NoError(t, err)
	require.Len(t, templates, 3)
	require.Equal(t, extra.ID, templates[2].TaskID)
	require.Equal(t, 3, templates[2].Position)
}

func TestReAddTaskAfterSkip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, taskA, _ := env.seedSortingFlow(t, true)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	active, err := env.product.ListProductTasks(ctx, product.ID, true)
	require.NoError(t, err)
	_, err = env.product.SkipTask(ctx, active[0].ID)
	require.NoError(t, err)

	// The pair has no active instance anymore, so re-adding is allowed.
	_, err = env.product.AssignAdHocTask(ctx, product.ID, taskA.ID, false)
	require.NoError(t, err)

	// At most one active instance per (product, task).
	count := 0
	all, err := env.product.ListProductTasks(ctx, product.ID, false)
	require.NoError(t, err)
	for _, row := range all {
		if row.TaskID == taskA.ID && row.Active() {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestLocateCurrentTaskIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, taskA, _ := env.seedSortingFlow(t, false)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)

	first, err := env.product.LocateCurrentTask(ctx, product.ID)
	require.NoError(t, err)
	second, err := env.product.LocateCurrentTask(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, taskA.ID, first.ID)
	require.Equal(t, first.ID, second.ID)
}

func TestRemoveProductHidesItAndFreesLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, _ := env.seedSortingFlow(t, true)

	product, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	_, err = env.product.AssignLocation(ctx, product.ID, "A1", 1, 1)
	require.NoError(t, err)

	require.NoError(t, env.product.RemoveProduct(ctx, product.ID))

	_, err = env.product.GetBySerialNumber(ctx, product.SerialNumber)
	var notFound *workflow.NotFoundError
	require.ErrorAs(t, err, &notFound)

	// The hidden row holds neither a location nor a cached task pointer.
	hidden, err := env.productRepo.GetByID(ctx, nil, product.ID)
	require.NoError(t, err)
	require.True(t, hidden.Removed)
	require.Nil(t, hidden.LocationID)
	require.Nil(t, hidden.CurrentTaskID)

	// The freed cell can be taken by another product.
	other, err := env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "9876543210987",
		CategoryID:   category.ID,
	})
	require.NoError(t, err)
	_, err = env.product.AssignLocation(ctx, other.ID, "A1", 1, 1)
	require.NoError(t, err)
}

func TestListProductsFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	category, _, _, _ := env.seedSortingFlow(t, true)
	other, err := env.catalog.CreateCategory(ctx, "PSU")
	require.NoError(t, err)

	_, err = env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "1234567890123",
		CategoryID:   category.ID,
		Priority:     types.PriorityHot,
	})
	require.NoError(t, err)
	_, err = env.product.CreateProduct(ctx, CreateProductInput{
		SerialNumber: "9876543210987",
		CategoryID:   other.ID,
	})
	require.NoError(t, err)

	hot, err := env.product.ListProducts(ctx, repos.ProductFilter{Priority: types.PriorityHot})
	require.NoError(t, err)
	require.Len(t, hot, 1)
	require.Equal(t, "1234567890123", hot[0].SerialNumber)
}
