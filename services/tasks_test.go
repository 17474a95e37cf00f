package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/storetest"
	"github.com/planwise/planwise/models"
)

func ptr[T any](v T) *T { return &v }

func newTaskFixture(t *testing.T) (*TaskService, *storetest.MemStore, *models.Task) {
	t.Helper()
	ms := storetest.New()
	ms.Users["u1"] = &models.User{ID: "u1", TotalPoints: 10}
	svc := NewTaskService(ms)
	svc.now = fixedClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	task := &models.Task{
		Title:             "Write report",
		Priority:          models.PriorityMedium,
		EstimatedDuration: 30,
		CognitiveLoad:     5,
	}
	require.NoError(t, svc.Create(context.Background(), "u1", task))
	return svc, ms, task
}

func TestCreateStartsIncomplete(t *testing.T) {
	ms := storetest.New()
	svc := NewTaskService(ms)
	task := &models.Task{Title: "x", Completed: true, UserID: "spoofed"}

	require.NoError(t, svc.Create(context.Background(), "u1", task))
	stored, err := svc.Get(context.Background(), "u1", task.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
	assert.Nil(t, stored.CompletedAt)
	assert.Equal(t, "u1", stored.UserID)
}

func TestUpdateCompleteThenReopenRestoresPoints(t *testing.T) {
	svc, ms, task := newTaskFixture(t)
	ctx := context.Background()

	done, err := svc.Update(ctx, "u1", task.ID, TaskUpdate{Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, 14, ms.Points("u1"))

	reopened, err := svc.Update(ctx, "u1", task.ID, TaskUpdate{Completed: ptr(false)})
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)
	assert.Equal(t, 10, ms.Points("u1"))
}

func TestUpdatePricesPreUpdateValues(t *testing.T) {
	svc, ms, task := newTaskFixture(t)

	updated, err := svc.Update(context.Background(), "u1", task.ID, TaskUpdate{
		Completed:         ptr(true),
		EstimatedDuration: ptr(120),
		Priority:          ptr(models.PriorityUrgent),
		IsDeepWork:        ptr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, 14, ms.Points("u1"), "award uses the stored 30 minute medium task")
	assert.Equal(t, 120, updated.EstimatedDuration)
	assert.Equal(t, models.PriorityUrgent, updated.Priority)
}

func TestUpdateWithoutTransitionLeavesPoints(t *testing.T) {
	svc, ms, task := newTaskFixture(t)
	ctx := context.Background()

	first, err := svc.Update(ctx, "u1", task.ID, TaskUpdate{Completed: ptr(true)})
	require.NoError(t, err)
	stamp := *first.CompletedAt

	svc.now = fixedClock(stamp.Add(time.Hour))
	again, err := svc.Update(ctx, "u1", task.ID, TaskUpdate{Completed: ptr(true), Title: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, 14, ms.Points("u1"))
	assert.Equal(t, "Renamed", again.Title)
	assert.True(t, again.CompletedAt.Equal(stamp))

	_, err = svc.Update(ctx, "u1", task.ID, TaskUpdate{Title: ptr("Only title")})
	require.NoError(t, err)
	assert.Equal(t, 14, ms.Points("u1"))
}

func TestUpdateNotOwned(t *testing.T) {
	svc, ms, task := newTaskFixture(t)

	_, err := svc.Update(context.Background(), "intruder", task.ID, TaskUpdate{Completed: ptr(true)})
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.Equal(t, 10, ms.Points("u1"))
}

func TestUpdateFailedWriteKeepsPointsAndTask(t *testing.T) {
	svc, ms, task := newTaskFixture(t)
	ms.TaskWriteErr = errBoom

	_, err := svc.Update(context.Background(), "u1", task.ID, TaskUpdate{Completed: ptr(true)})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 10, ms.Points("u1"))

	stored, err := svc.Get(context.Background(), "u1", task.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)

	ms.TaskWriteErr = nil
	_, err = svc.Update(context.Background(), "u1", task.ID, TaskUpdate{Completed: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 14, ms.Points("u1"), "retry awards exactly once")
}

func TestUpdateConcurrentCompletionsAwardOnce(t *testing.T) {
	svc, ms, task := newTaskFixture(t)
	ctx := context.Background()

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Update(ctx, "u1", task.ID, TaskUpdate{Completed: ptr(true)})
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()
	assert.Equal(t, 14, ms.Points("u1"))

	_, err := svc.Update(ctx, "u1", task.ID, TaskUpdate{Completed: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 10, ms.Points("u1"))
}

func TestUpdateWithoutFieldsStampsUpdatedAt(t *testing.T) {
	svc, _, task := newTaskFixture(t)
	later := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	svc.now = fixedClock(later)

	updated, err := svc.Update(context.Background(), "u1", task.ID, TaskUpdate{})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.Equal(later))
	assert.Equal(t, "Write report", updated.Title)
}

func TestDeleteMissingTask(t *testing.T) {
	svc, _, task := newTaskFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "u1", task.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "u1", task.ID), ErrTaskNotFound)
}

func TestListFiltersByCompletion(t *testing.T) {
	svc, _, task := newTaskFixture(t)
	ctx := context.Background()
	require.NoError(t, svc.Create(ctx, "u1", &models.Task{Title: "second", Priority: models.PriorityLow}))
	_, err := svc.Update(ctx, "u1", task.ID, TaskUpdate{Completed: ptr(true)})
	require.NoError(t, err)

	all, err := svc.List(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	open, err := svc.List(ctx, "u1", ptr(false))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "second", open[0].Title)
}
