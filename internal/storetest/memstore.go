// Package storetest provides an in-memory record store with the same query semantics as
// store.Store, for service and HTTP tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planwise/planwise/models"
	"github.com/planwise/planwise/store"
)

// MemStore keeps every collection in process memory. Exported collections may be seeded
// directly before the store is shared between goroutines.
type MemStore struct {
	mu           sync.Mutex
	Users        map[string]*models.User
	Tasks        map[string]*models.Task
	Moods        []models.MoodLog
	Sleeps       []models.SleepLog
	Skills       map[string]*models.Skill
	Achievements []models.Achievement
	Unlocks      []models.UserAchievement
	Events       map[string]*models.CampusEvent

	// Injected failures.
	CountErr     error
	MoodErr      error
	TaskWriteErr error
}

func New() *MemStore {
	return &MemStore{
		Users:  map[string]*models.User{},
		Tasks:  map[string]*models.Task{},
		Skills: map[string]*models.Skill{},
		Events: map[string]*models.CampusEvent{},
	}
}

// Points returns the stored total_points of userID, or 0 for an unknown user.
func (m *MemStore) Points(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.Users[userID]; ok {
		return u.TotalPoints
	}
	return 0
}

func inWindow(at, from, to time.Time) bool {
	return !at.Before(from) && at.Before(to)
}

// ---- users ----

func (m *MemStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	m.Users[u.ID] = &cp
	return nil
}

func (m *MemStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *MemStore) UsernameTaken(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) UpdateUser(_ context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Users[id]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "full_name":
			u.FullName = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "preferred_deep_work_start":
			u.PreferredDeepWorkStart = v.(int)
		case "preferred_deep_work_end":
			u.PreferredDeepWorkEnd = v.(int)
		case "daily_sleep_goal":
			u.DailySleepGoal = v.(float64)
		}
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// ---- tasks ----

func (m *MemStore) CreateTask(_ context.Context, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	cp := *t
	m.Tasks[t.ID] = &cp
	return nil
}

func (m *MemStore) FindTask(_ context.Context, userID, id string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tasks[id]
	if !ok || t.UserID != userID {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func taskMatches(t *models.Task, f store.TaskFilter) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.UpdatedFrom != nil && t.UpdatedAt.Before(*f.UpdatedFrom) {
		return false
	}
	if f.UpdatedTo != nil && !t.UpdatedAt.Before(*f.UpdatedTo) {
		return false
	}
	return true
}

func (m *MemStore) listTasks(userID string, f store.TaskFilter) []models.Task {
	out := []models.Task{}
	for _, t := range m.Tasks {
		if t.UserID == userID && taskMatches(t, f) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ListTasks returns the user's tasks, newest first.
func (m *MemStore) ListTasks(_ context.Context, userID string, f store.TaskFilter) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listTasks(userID, f), nil
}

func (m *MemStore) CountTasks(_ context.Context, userID string, f store.TaskFilter) (int64, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.listTasks(userID, f))), nil
}

// UpdateTaskTransition holds the store lock from planning to commit. Nothing is applied
// when the owner is missing or TaskWriteErr is set.
func (m *MemStore) UpdateTaskTransition(_ context.Context, userID, id string, plan func(current *models.Task) store.TaskChange) (*models.Task, store.TaskChange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tasks[id]
	if !ok || t.UserID != userID {
		return nil, store.TaskChange{}, store.ErrNotFound
	}
	current := *t
	change := plan(&current)

	var owner *models.User
	if change.PointsDelta != 0 {
		if owner, ok = m.Users[userID]; !ok {
			return nil, store.TaskChange{}, store.ErrNotFound
		}
	}
	if m.TaskWriteErr != nil {
		return nil, store.TaskChange{}, m.TaskWriteErr
	}

	if owner != nil {
		owner.TotalPoints += change.PointsDelta
	}
	applyTaskFields(t, change.Fields)
	cp := *t
	return &cp, change, nil
}

func applyTaskFields(t *models.Task, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "title":
			t.Title = v.(string)
		case "description":
			t.Description = v.(string)
		case "category":
			t.Category = v.(string)
		case "priority":
			t.Priority = v.(string)
		case "estimated_duration":
			t.EstimatedDuration = v.(int)
		case "cognitive_load":
			t.CognitiveLoad = v.(int)
		case "is_deep_work":
			t.IsDeepWork = v.(bool)
		case "scheduled_date":
			at := v.(time.Time)
			t.ScheduledDate = &at
		case "scheduled_start_time":
			at := v.(time.Time)
			t.ScheduledStartTime = &at
		case "scheduled_end_time":
			at := v.(time.Time)
			t.ScheduledEndTime = &at
		case "sort_order":
			t.SortOrder = v.(int)
		case "completed":
			t.Completed = v.(bool)
		case "completed_at":
			if v == nil {
				t.CompletedAt = nil
			} else {
				at := v.(time.Time)
				t.CompletedAt = &at
			}
		case "updated_at":
			t.UpdatedAt = v.(time.Time)
		}
	}
}

func (m *MemStore) DeleteTask(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Tasks[id]
	if !ok || t.UserID != userID {
		return store.ErrNotFound
	}
	delete(m.Tasks, id)
	return nil
}

// ---- mood ----

func (m *MemStore) CreateMoodLog(_ context.Context, l *models.MoodLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = uuid.NewString()
	m.Moods = append(m.Moods, *l)
	return nil
}

// ListMoodLogs returns logs created in [from, to), newest first.
func (m *MemStore) ListMoodLogs(_ context.Context, userID string, from, to time.Time) ([]models.MoodLog, error) {
	if m.MoodErr != nil {
		return nil, m.MoodErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.MoodLog{}
	for _, l := range m.Moods {
		if l.UserID == userID && inWindow(l.CreatedAt, from, to) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) LatestMoodLog(_ context.Context, userID string) (*models.MoodLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *models.MoodLog
	for i := range m.Moods {
		l := m.Moods[i]
		if l.UserID == userID && (latest == nil || !l.CreatedAt.Before(latest.CreatedAt)) {
			latest = &l
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	return latest, nil
}

// ---- sleep ----

func (m *MemStore) CreateSleepLog(_ context.Context, l *models.SleepLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = uuid.NewString()
	m.Sleeps = append(m.Sleeps, *l)
	return nil
}

// ListSleepLogs returns logs created in [from, to), newest first.
func (m *MemStore) ListSleepLogs(_ context.Context, userID string, from, to time.Time) ([]models.SleepLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.SleepLog{}
	for _, l := range m.Sleeps {
		if l.UserID == userID && inWindow(l.CreatedAt, from, to) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- skills ----

func (m *MemStore) CreateSkill(_ context.Context, s *models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.NewString()
	cp := *s
	m.Skills[s.ID] = &cp
	return nil
}

func (m *MemStore) ListSkills(_ context.Context, userID string) ([]models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Skill{}
	for _, s := range m.Skills {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) AddPractice(_ context.Context, userID, skillID string, minutes int, at time.Time, levelFor func(int) int) (*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Skills[skillID]
	if !ok || s.UserID != userID {
		return nil, store.ErrNotFound
	}
	s.TotalPracticeTime += minutes
	s.CurrentLevel = levelFor(s.TotalPracticeTime)
	s.LastPracticed = &at
	cp := *s
	return &cp, nil
}

// ---- achievements ----

func (m *MemStore) ListAchievements(context.Context) ([]models.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Achievement{}, m.Achievements...), nil
}

func (m *MemStore) ListUserAchievements(_ context.Context, userID string) ([]models.UserAchievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.UserAchievement{}
	for _, u := range m.Unlocks {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	return out, nil
}

// ---- campus events ----

func (m *MemStore) CreateEvent(_ context.Context, e *models.CampusEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.NewString()
	cp := *e
	m.Events[e.ID] = &cp
	return nil
}

// ListEvents returns events by event date, optionally limited to one category.
func (m *MemStore) ListEvents(_ context.Context, category string) ([]models.CampusEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CampusEvent{}
	for _, e := range m.Events {
		if category == "" || e.Category == category {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventDate.Before(out[j].EventDate) })
	return out, nil
}

func (m *MemStore) FindEvent(_ context.Context, id string) (*models.CampusEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.Events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MemStore) DeleteEvent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Events[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.Events, id)
	return nil
}
