package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboss/internal/model"
)

func newTestRepo(t *testing.T) *TaskRepository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewTaskRepository(db)
}

func TestTaskRepository_CreateDefaults(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := &model.Task{Text: "buy milk", OwnerID: 1, GroupID: -100}
	require.NoError(t, repo.Create(ctx, task))
	require.NotZero(t, task.ID)

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, model.CategoryOther, got.Category)
	assert.Zero(t, got.OverdueCount)
	assert.False(t, got.RemindedBeforeDue)
	assert.Nil(t, got.RemindedAt)
	assert.Nil(t, got.DeadlineAskedAt)
	assert.Nil(t, got.SnoozeReason)
	assert.Equal(t, model.Destination{ChatID: -100}, got.Destination())
}

func TestTaskRepository_GetByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepository_ListPendingSkipsDone(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	open := &model.Task{Text: "open", OwnerID: 1}
	closed := &model.Task{Text: "closed", OwnerID: 1}
	require.NoError(t, repo.Create(ctx, open))
	require.NoError(t, repo.Create(ctx, closed))

	done := model.StatusDone
	require.NoError(t, repo.Update(ctx, closed.ID, model.TaskUpdate{Status: &done}))

	tasks, err := repo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, open.ID, tasks[0].ID)
}

func TestTaskRepository_ListPendingByOwnerOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	due := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	noDue := &model.Task{Text: "no due", OwnerID: 1}
	withDue := &model.Task{Text: "with due", OwnerID: 1, DueAt: &due}
	other := &model.Task{Text: "someone else", OwnerID: 2}
	for _, task := range []*model.Task{noDue, withDue, other} {
		require.NoError(t, repo.Create(ctx, task))
	}

	tasks, err := repo.ListPendingByOwner(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, withDue.ID, tasks[0].ID)
	assert.Equal(t, noDue.ID, tasks[1].ID)

	tasks, err = repo.ListPendingByOwner(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskRepository_UpdateFlags(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	task := &model.Task{Text: "report", OwnerID: 1}
	require.NoError(t, repo.Create(ctx, task))

	yes := true
	require.NoError(t, repo.Update(ctx, task.ID, model.TaskUpdate{
		RemindedAt:        &now,
		RemindedBeforeDue: &yes,
		DeadlineAskedAt:   &now,
	}))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.RemindedBeforeDue)
	require.NotNil(t, got.RemindedAt)
	assert.True(t, got.RemindedAt.Equal(now))
	require.NotNil(t, got.DeadlineAskedAt)
	assert.Nil(t, got.DeadlinePenalizedAt)

	penaltyAt := now.Add(30 * time.Minute)
	require.NoError(t, repo.Update(ctx, task.ID, model.TaskUpdate{
		ClearDeadlineAsk:    true,
		DeadlinePenalizedAt: &penaltyAt,
		IncrementOverdue:    true,
	}))
	require.NoError(t, repo.Update(ctx, task.ID, model.TaskUpdate{IncrementOverdue: true}))

	got, err = repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DeadlineAskedAt)
	require.NotNil(t, got.DeadlinePenalizedAt)
	assert.True(t, got.DeadlinePenalizedAt.Equal(penaltyAt))
	assert.Equal(t, 2, got.OverdueCount)
	assert.True(t, got.RemindedBeforeDue)
}

func TestTaskRepository_UpdateReasonLeavesCounter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := &model.Task{Text: "gym", OwnerID: 1, OverdueCount: 3}
	require.NoError(t, repo.Create(ctx, task))

	reason := "too tired"
	require.NoError(t, repo.Update(ctx, task.ID, model.TaskUpdate{SnoozeReason: &reason}))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SnoozeReason)
	assert.Equal(t, "too tired", *got.SnoozeReason)
	assert.Equal(t, 3, got.OverdueCount)
}

func TestTaskRepository_UpdateMissingRow(t *testing.T) {
	repo := newTestRepo(t)
	reason := "x"

	err := repo.Update(context.Background(), 12345, model.TaskUpdate{SnoozeReason: &reason})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, repo.Update(context.Background(), 12345, model.TaskUpdate{}))
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://u:p@localhost/db"))
	assert.True(t, isPostgres("PostgreSQL://localhost/db"))
	assert.False(t, isPostgres("taskboss.db"))
	assert.False(t, isPostgres("file::memory:"))
}
