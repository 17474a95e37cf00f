package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/planwise/planwise/models"
	"github.com/planwise/planwise/store"
	"github.com/planwise/planwise/utils"
)

// TaskStore is the persistence the task service needs.
type TaskStore interface {
	CreateTask(ctx context.Context, t *models.Task) error
	FindTask(ctx context.Context, userID, id string) (*models.Task, error)
	ListTasks(ctx context.Context, userID string, filter store.TaskFilter) ([]models.Task, error)
	UpdateTaskTransition(ctx context.Context, userID, id string, plan func(current *models.Task) store.TaskChange) (*models.Task, store.TaskChange, error)
	DeleteTask(ctx context.Context, userID, id string) error
}

// TaskUpdate carries a partial update. Nil fields are left untouched.
type TaskUpdate struct {
	Title              *string
	Description        *string
	Category           *string
	Priority           *string
	EstimatedDuration  *int
	CognitiveLoad      *int
	IsDeepWork         *bool
	ScheduledDate      *time.Time
	ScheduledStartTime *time.Time
	ScheduledEndTime   *time.Time
	Order              *int
	Completed          *bool
}

func (u TaskUpdate) columns() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.Category != nil {
		fields["category"] = *u.Category
	}
	if u.Priority != nil {
		fields["priority"] = *u.Priority
	}
	if u.EstimatedDuration != nil {
		fields["estimated_duration"] = *u.EstimatedDuration
	}
	if u.CognitiveLoad != nil {
		fields["cognitive_load"] = *u.CognitiveLoad
	}
	if u.IsDeepWork != nil {
		fields["is_deep_work"] = *u.IsDeepWork
	}
	if u.ScheduledDate != nil {
		fields["scheduled_date"] = *u.ScheduledDate
	}
	if u.ScheduledStartTime != nil {
		fields["scheduled_start_time"] = *u.ScheduledStartTime
	}
	if u.ScheduledEndTime != nil {
		fields["scheduled_end_time"] = *u.ScheduledEndTime
	}
	if u.Order != nil {
		fields["sort_order"] = *u.Order
	}
	if u.Completed != nil {
		fields["completed"] = *u.Completed
	}
	return fields
}

// TaskService owns task lifecycle rules, including point awards on completion.
type TaskService struct {
	store TaskStore
	now   func() time.Time
}

func NewTaskService(s TaskStore) *TaskService {
	return &TaskService{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a new, not yet completed task for userID.
func (s *TaskService) Create(ctx context.Context, userID string, t *models.Task) error {
	now := s.now()
	t.ID = ""
	t.UserID = userID
	t.Completed = false
	t.CompletedAt = nil
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.store.CreateTask(ctx, t)
}

func (s *TaskService) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	t, err := s.store.FindTask(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	return t, err
}

// List returns the user's tasks newest first, optionally filtered by completion.
func (s *TaskService) List(ctx context.Context, userID string, completed *bool) ([]models.Task, error) {
	return s.store.ListTasks(ctx, userID, store.TaskFilter{Completed: completed})
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	err := s.store.DeleteTask(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}

// Update applies a partial update and always stamps updated_at. When the completion flag
// flips, the task is priced from its stored values before any field in this update is
// applied, and the owner's points move by that amount in the matching direction. The
// point change and the task write commit together or not at all.
func (s *TaskService) Update(ctx context.Context, userID, id string, upd TaskUpdate) (*models.Task, error) {
	now := s.now()
	updated, change, err := s.store.UpdateTaskTransition(ctx, userID, id, func(current *models.Task) store.TaskChange {
		fields := upd.columns()
		fields["updated_at"] = now

		delta := 0
		switch CompletionTransition(current.Completed, upd.Completed) {
		case Completing:
			delta = CalculateTaskPoints(SnapshotOf(current))
			fields["completed_at"] = now
		case Reopening:
			delta = -CalculateTaskPoints(SnapshotOf(current))
			fields["completed_at"] = nil
		}
		return store.TaskChange{Fields: fields, PointsDelta: delta}
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}

	if change.PointsDelta != 0 {
		utils.RecordPointsAdjustment(change.PointsDelta)
		utils.Logger.Debug("task points adjusted",
			zap.String("user_id", userID),
			zap.String("task_id", id),
			zap.Int("delta", change.PointsDelta),
		)
	}
	return updated, nil
}
