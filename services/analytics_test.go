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

var analyticsNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func newAnalytics(ms *storetest.MemStore) *Analytics {
	a := NewAnalytics(ms)
	a.now = fixedClock(analyticsNow)
	return a
}

func addTask(ms *storetest.MemStore, id string, completed bool, updated time.Time) {
	ms.Tasks[id] = &models.Task{ID: id, UserID: "u1", Completed: completed, UpdatedAt: updated, CreatedAt: updated}
}

func TestDashboardEmpty(t *testing.T) {
	user := &models.User{ID: "u1", TotalPoints: 42, CurrentStreak: 2, LongestStreak: 5, Level: 3}

	d := newAnalytics(storetest.New()).Dashboard(context.Background(), user, 7)

	assert.Zero(t, d.Tasks.Total)
	assert.Zero(t, d.Tasks.CompletionRate)
	assert.Zero(t, d.Mood.AverageMoodScore)
	assert.Zero(t, d.Mood.LogsCount)
	assert.Zero(t, d.Sleep.AverageHours)
	assert.Zero(t, d.Sleep.TotalSleepDebt)
	assert.Zero(t, d.Skills.TotalSkills)
	assert.Equal(t, GamificationStats{TotalPoints: 42, CurrentStreak: 2, LongestStreak: 5, Level: 3}, d.Gamification)
}

func TestDashboardAggregates(t *testing.T) {
	ms := storetest.New()
	addTask(ms, "a", true, analyticsNow.Add(-24*time.Hour))
	addTask(ms, "b", true, analyticsNow.AddDate(0, 0, -30))
	addTask(ms, "c", true, analyticsNow.AddDate(0, 0, -8))
	addTask(ms, "d", false, analyticsNow.Add(-time.Hour))

	ms.Moods = []models.MoodLog{
		{UserID: "u1", MoodScore: 7, FocusLevel: 5, CreatedAt: analyticsNow.Add(-2 * time.Hour)},
		{UserID: "u1", MoodScore: 8, FocusLevel: 6, CreatedAt: analyticsNow.Add(-26 * time.Hour)},
		{UserID: "u1", MoodScore: 8, FocusLevel: 6, CreatedAt: analyticsNow.Add(-50 * time.Hour)},
		{UserID: "u1", MoodScore: 1, FocusLevel: 1, CreatedAt: analyticsNow.AddDate(0, 0, -9)},
		{UserID: "u2", MoodScore: 1, FocusLevel: 1, CreatedAt: analyticsNow.Add(-time.Hour)},
	}
	ms.Sleeps = []models.SleepLog{
		{UserID: "u1", HoursSlept: 7.5, SleepDebt: 0.5, CreatedAt: analyticsNow.Add(-10 * time.Hour)},
		{UserID: "u1", HoursSlept: 6, SleepDebt: 2, CreatedAt: analyticsNow.Add(-34 * time.Hour)},
		{UserID: "u1", HoursSlept: 7, SleepDebt: 1, CreatedAt: analyticsNow.Add(-58 * time.Hour)},
	}
	ms.Skills["s1"] = &models.Skill{ID: "s1", UserID: "u1", TotalPracticeTime: 125}
	ms.Skills["s2"] = &models.Skill{ID: "s2", UserID: "u1", TotalPracticeTime: 30}

	d := newAnalytics(ms).Dashboard(context.Background(), &models.User{ID: "u1", Level: 1}, 7)

	assert.Equal(t, TaskStats{Total: 4, Completed: 3, Pending: 1, CompletedThisPeriod: 1, CompletionRate: 75}, d.Tasks)
	assert.Equal(t, MoodStats{AverageMoodScore: 7.7, AverageFocusLevel: 5.7, LogsCount: 3}, d.Mood)
	assert.Equal(t, SleepStats{AverageHours: 6.8, TotalSleepDebt: 3.5, LogsCount: 3}, d.Sleep)
	assert.Equal(t, SkillStats{TotalSkills: 2, TotalPracticeMinutes: 155}, d.Skills)
}

func TestDashboardDegradesFailedReads(t *testing.T) {
	ms := storetest.New()
	addTask(ms, "a", true, analyticsNow.Add(-time.Hour))
	ms.CountErr = errBoom
	ms.MoodErr = errBoom
	ms.Sleeps = []models.SleepLog{{UserID: "u1", HoursSlept: 8, CreatedAt: analyticsNow.Add(-time.Hour)}}

	d := newAnalytics(ms).Dashboard(context.Background(), &models.User{ID: "u1"}, 7)

	assert.Equal(t, TaskStats{}, d.Tasks)
	assert.Equal(t, MoodStats{}, d.Mood)
	assert.Equal(t, 1, d.Sleep.LogsCount)
	assert.Equal(t, 8.0, d.Sleep.AverageHours)
}

func TestProductivityTrend(t *testing.T) {
	ms := storetest.New()
	addTask(ms, "early-same-day", true, time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC))
	addTask(ms, "mid", true, time.Date(2024, 3, 8, 1, 0, 0, 0, time.UTC))
	addTask(ms, "mid2", true, time.Date(2024, 3, 8, 23, 59, 0, 0, time.UTC))
	addTask(ms, "open", false, time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC))
	addTask(ms, "today", true, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))

	trend := newAnalytics(ms).ProductivityTrend(context.Background(), "u1", 3)

	require.Len(t, trend.DailyProductivity, 3)
	assert.Equal(t, map[string]DayProductivity{
		"2024-03-07": {CompletedTasks: 1},
		"2024-03-08": {CompletedTasks: 2},
		"2024-03-09": {CompletedTasks: 0},
	}, trend.DailyProductivity)
}

func TestProductivityTrendFailingCountsAreZero(t *testing.T) {
	ms := storetest.New()
	ms.CountErr = errBoom

	trend := newAnalytics(ms).ProductivityTrend(context.Background(), "u1", 2)
	assert.Equal(t, map[string]DayProductivity{
		"2024-03-08": {},
		"2024-03-09": {},
	}, trend.DailyProductivity)
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 7.7, round1(23.0/3))
	assert.Equal(t, 0.2, round1(0.25))
	assert.Equal(t, 0.3, round1(0.35))
	assert.Equal(t, 2.5, round1(2.5))
	assert.Equal(t, 0.0, round1(0))
}
