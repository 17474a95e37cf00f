// Package store is the record store: owner-scoped collections persisted through GORM.
package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/planwise/planwise/models"
)

// ErrNotFound is returned when a point lookup or owner-scoped write matches no record.
var ErrNotFound = errors.New("record not found")

// Store wraps a gorm handle. It is safe for concurrent use.
type Store struct {
	db *gorm.DB
}

// New creates a Store on top of an initialized gorm DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Models lists every persisted model, in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Task{},
		&models.MoodLog{},
		&models.SleepLog{},
		&models.Skill{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.CampusEvent{},
	}
}

// TaskFilter narrows task scans and counts. Nil fields do not filter.
type TaskFilter struct {
	Completed   *bool
	UpdatedFrom *time.Time // inclusive
	UpdatedTo   *time.Time // exclusive
}

func (f TaskFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Completed != nil {
		q = q.Where("completed = ?", *f.Completed)
	}
	if f.UpdatedFrom != nil {
		q = q.Where("updated_at >= ?", *f.UpdatedFrom)
	}
	if f.UpdatedTo != nil {
		q = q.Where("updated_at < ?", *f.UpdatedTo)
	}
	return q
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ---- users ----

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UsernameTaken reports whether any user already uses the username.
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateUser applies a partial update keyed by column name.
func (s *Store) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// incrementPoints adds delta (possibly negative) to total_points inside the database,
// so concurrent adjustments never lose an update.
func incrementPoints(tx *gorm.DB, userID string, delta int) error {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- tasks ----

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// FindTask returns the task only when it is owned by userID.
func (s *Store) FindTask(ctx context.Context, userID, id string) (*models.Task, error) {
	var t models.Task
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// ListTasks returns the user's tasks, newest first.
func (s *Store) ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}
	q := filter.apply(s.db.WithContext(ctx).Where("user_id = ?", userID))
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Store) CountTasks(ctx context.Context, userID string, filter TaskFilter) (int64, error) {
	var count int64
	q := filter.apply(s.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID))
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TaskChange is one task write: the columns to set and the signed point adjustment
// for the task's owner.
type TaskChange struct {
	Fields      map[string]interface{}
	PointsDelta int
}

// UpdateTaskTransition locks the owned task row, asks plan for the change based on the
// locked state, then applies the point adjustment and the task update in one transaction.
// Concurrent callers on the same task are serialized by the row lock, so each of them
// plans against the state the previous one committed.
func (s *Store) UpdateTaskTransition(ctx context.Context, userID, id string, plan func(current *models.Task) TaskChange) (*models.Task, TaskChange, error) {
	var (
		updated models.Task
		change  TaskChange
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", id, userID).
			First(&current).Error; err != nil {
			return err
		}
		change = plan(&current)
		if change.PointsDelta != 0 {
			if err := incrementPoints(tx, userID, change.PointsDelta); err != nil {
				return err
			}
		}
		if len(change.Fields) > 0 {
			if err := tx.Model(&models.Task{}).Where("id = ?", current.ID).Updates(change.Fields).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", current.ID).First(&updated).Error
	})
	if err != nil {
		return nil, TaskChange{}, notFound(err)
	}
	return &updated, change, nil
}

// DeleteTask removes an owned task and returns ErrNotFound when nothing matched.
func (s *Store) DeleteTask(ctx context.Context, userID, id string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- mood ----

func (s *Store) CreateMoodLog(ctx context.Context, m *models.MoodLog) error {
	return s.db.WithContext(ctx).Create(m).Error
}

// ListMoodLogs returns logs created in [from, to), newest first.
func (s *Store) ListMoodLogs(ctx context.Context, userID string, from, to time.Time) ([]models.MoodLog, error) {
	logs := []models.MoodLog{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (s *Store) LatestMoodLog(ctx context.Context, userID string) (*models.MoodLog, error) {
	var m models.MoodLog
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// ---- sleep ----

func (s *Store) CreateSleepLog(ctx context.Context, l *models.SleepLog) error {
	return s.db.WithContext(ctx).Create(l).Error
}

// ListSleepLogs returns logs created in [from, to), newest first.
func (s *Store) ListSleepLogs(ctx context.Context, userID string, from, to time.Time) ([]models.SleepLog, error) {
	logs := []models.SleepLog{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// ---- skills ----

func (s *Store) CreateSkill(ctx context.Context, sk *models.Skill) error {
	return s.db.WithContext(ctx).Create(sk).Error
}

func (s *Store) ListSkills(ctx context.Context, userID string) ([]models.Skill, error) {
	skills := []models.Skill{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&skills).Error
	return skills, err
}

// AddPractice adds minutes to an owned skill under a row lock and stores the level
// computed by levelFor from the new total.
func (s *Store) AddPractice(ctx context.Context, userID, skillID string, minutes int, at time.Time, levelFor func(total int) int) (*models.Skill, error) {
	var skill models.Skill
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", skillID, userID).
			First(&skill).Error; err != nil {
			return err
		}
		skill.TotalPracticeTime += minutes
		skill.CurrentLevel = levelFor(skill.TotalPracticeTime)
		skill.LastPracticed = &at
		return tx.Model(&models.Skill{}).Where("id = ?", skill.ID).Updates(map[string]interface{}{
			"total_practice_time": skill.TotalPracticeTime,
			"current_level":       skill.CurrentLevel,
			"last_practiced":      at,
		}).Error
	})
	if err != nil {
		return nil, notFound(err)
	}
	return &skill, nil
}

// ---- achievements ----

func (s *Store) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	items := []models.Achievement{}
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (s *Store) ListUserAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	items := []models.UserAchievement{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error
	return items, err
}

// ---- campus events ----

func (s *Store) CreateEvent(ctx context.Context, e *models.CampusEvent) error {
	return s.db.WithContext(ctx).Create(e).Error
}

// ListEvents returns events ordered by event date; an empty category matches all.
func (s *Store) ListEvents(ctx context.Context, category string) ([]models.CampusEvent, error) {
	events := []models.CampusEvent{}
	q := s.db.WithContext(ctx)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	err := q.Order("event_date ASC").Find(&events).Error
	return events, err
}

func (s *Store) FindEvent(ctx context.Context, id string) (*models.CampusEvent, error) {
	var e models.CampusEvent
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CampusEvent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
