package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/planwise/internal/storetest"
	"github.com/planwise/planwise/models"
)

func TestSleepDebt(t *testing.T) {
	assert.Equal(t, 1.5, SleepDebt(8, 6.5))
	assert.Equal(t, 0.0, SleepDebt(8, 9.5))
	assert.Equal(t, 0.0, SleepDebt(7, 7))
}

func TestSkillLevel(t *testing.T) {
	assert.Equal(t, 1, SkillLevel(0))
	assert.Equal(t, 1, SkillLevel(59))
	assert.Equal(t, 2, SkillLevel(60))
	assert.Equal(t, 3, SkillLevel(125))
}

func TestPractice(t *testing.T) {
	ms := storetest.New()
	ms.Skills["s1"] = &models.Skill{ID: "s1", UserID: "u1", CurrentLevel: 1}
	svc := NewSkillService(ms)
	at := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	svc.now = fixedClock(at)
	ctx := context.Background()

	_, err := svc.Practice(ctx, "u1", "s1", 0)
	assert.ErrorIs(t, err, ErrInvalidMinutes)

	_, err = svc.Practice(ctx, "u2", "s1", 10)
	assert.ErrorIs(t, err, ErrSkillNotFound)

	skill, err := svc.Practice(ctx, "u1", "s1", 125)
	require.NoError(t, err)
	assert.Equal(t, 125, skill.TotalPracticeTime)
	assert.Equal(t, 3, skill.CurrentLevel)
	assert.True(t, skill.LastPracticed.Equal(at))
}
