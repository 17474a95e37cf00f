package services

import (
	"context"
	"errors"
	"time"

	"github.com/planwise/planwise/models"
	"github.com/planwise/planwise/store"
)

// SleepDebt is the shortfall against the goal, never negative.
func SleepDebt(goal, hoursSlept float64) float64 {
	if debt := goal - hoursSlept; debt > 0 {
		return debt
	}
	return 0
}

// SkillLevel derives a level from accumulated practice minutes: one level per full hour, starting at 1.
func SkillLevel(totalMinutes int) int {
	return totalMinutes/60 + 1
}

type SkillStore interface {
	AddPractice(ctx context.Context, userID, skillID string, minutes int, at time.Time, levelFor func(total int) int) (*models.Skill, error)
}

type SkillService struct {
	store SkillStore
	now   func() time.Time
}

func NewSkillService(s SkillStore) *SkillService {
	return &SkillService{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Practice adds minutes to an owned skill. Practice time only grows.
func (s *SkillService) Practice(ctx context.Context, userID, skillID string, minutes int) (*models.Skill, error) {
	if minutes < 1 {
		return nil, ErrInvalidMinutes
	}
	skill, err := s.store.AddPractice(ctx, userID, skillID, minutes, s.now(), SkillLevel)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSkillNotFound
	}
	return skill, err
}
