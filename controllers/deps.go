package controllers

import (
	"context"
	"time"

	"github.com/planwise/planwise/models"
)

// The interfaces below are the slices of *store.Store each controller uses.

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) error
}

type MoodStore interface {
	CreateMoodLog(ctx context.Context, m *models.MoodLog) error
	ListMoodLogs(ctx context.Context, userID string, from, to time.Time) ([]models.MoodLog, error)
	LatestMoodLog(ctx context.Context, userID string) (*models.MoodLog, error)
}

type SleepStore interface {
	CreateSleepLog(ctx context.Context, l *models.SleepLog) error
	ListSleepLogs(ctx context.Context, userID string, from, to time.Time) ([]models.SleepLog, error)
}

type SkillStore interface {
	CreateSkill(ctx context.Context, s *models.Skill) error
	ListSkills(ctx context.Context, userID string) ([]models.Skill, error)
	ListAchievements(ctx context.Context) ([]models.Achievement, error)
	ListUserAchievements(ctx context.Context, userID string) ([]models.UserAchievement, error)
}

type EventStore interface {
	CreateEvent(ctx context.Context, e *models.CampusEvent) error
	ListEvents(ctx context.Context, category string) ([]models.CampusEvent, error)
	FindEvent(ctx context.Context, id string) (*models.CampusEvent, error)
	DeleteEvent(ctx context.Context, id string) error
}
