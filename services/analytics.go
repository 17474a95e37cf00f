package services

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/planwise/planwise/models"
	"github.com/planwise/planwise/store"
	"github.com/planwise/planwise/utils"
)

// AnalyticsStore is the read-only view the aggregator scans.
type AnalyticsStore interface {
	CountTasks(ctx context.Context, userID string, filter store.TaskFilter) (int64, error)
	ListMoodLogs(ctx context.Context, userID string, from, to time.Time) ([]models.MoodLog, error)
	ListSleepLogs(ctx context.Context, userID string, from, to time.Time) ([]models.SleepLog, error)
	ListSkills(ctx context.Context, userID string) ([]models.Skill, error)
}

type TaskStats struct {
	Total               int64   `json:"total"`
	Completed           int64   `json:"completed"`
	Pending             int64   `json:"pending"`
	CompletedThisPeriod int64   `json:"completed_this_period"`
	CompletionRate      float64 `json:"completion_rate"`
}

type MoodStats struct {
	AverageMoodScore  float64 `json:"average_mood_score"`
	AverageFocusLevel float64 `json:"average_focus_level"`
	LogsCount         int     `json:"logs_count"`
}

type SleepStats struct {
	AverageHours   float64 `json:"average_hours"`
	TotalSleepDebt float64 `json:"total_sleep_debt"`
	LogsCount      int     `json:"logs_count"`
}

type SkillStats struct {
	TotalSkills          int `json:"total_skills"`
	TotalPracticeMinutes int `json:"total_practice_minutes"`
}

type GamificationStats struct {
	TotalPoints   int `json:"total_points"`
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	Level         int `json:"level"`
}

// Dashboard is the per-user summary over a trailing window.
type Dashboard struct {
	Tasks        TaskStats         `json:"tasks"`
	Mood         MoodStats         `json:"mood"`
	Sleep        SleepStats        `json:"sleep"`
	Skills       SkillStats        `json:"skills"`
	Gamification GamificationStats `json:"gamification"`
}

type DayProductivity struct {
	CompletedTasks int64 `json:"completed_tasks"`
}

// ProductivityTrend maps YYYY-MM-DD to the tasks completed that day.
// encoding/json writes map keys sorted, which for this key format is date order.
type ProductivityTrend struct {
	DailyProductivity map[string]DayProductivity `json:"daily_productivity"`
}

// Analytics aggregates stored records into summaries. It never fails: a sub-read
// that errors degrades to zero and is logged.
type Analytics struct {
	store AnalyticsStore
	now   func() time.Time
}

func NewAnalytics(s AnalyticsStore) *Analytics {
	return &Analytics{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Dashboard summarizes the window [now-days, now). Task totals are all-time.
func (a *Analytics) Dashboard(ctx context.Context, user *models.User, days int) Dashboard {
	now := a.now()
	start := now.AddDate(0, 0, -days)
	done := true

	var d Dashboard

	d.Tasks.Total = a.count(ctx, user.ID, store.TaskFilter{}, "total")
	d.Tasks.Completed = a.count(ctx, user.ID, store.TaskFilter{Completed: &done}, "completed")
	d.Tasks.Pending = d.Tasks.Total - d.Tasks.Completed
	d.Tasks.CompletedThisPeriod = a.count(ctx, user.ID, store.TaskFilter{Completed: &done, UpdatedFrom: &start, UpdatedTo: &now}, "completed_this_period")
	if d.Tasks.Total > 0 {
		d.Tasks.CompletionRate = float64(d.Tasks.Completed) / float64(d.Tasks.Total) * 100
	}

	moods, err := a.store.ListMoodLogs(ctx, user.ID, start, now)
	if err != nil {
		warnFallback("mood", user.ID, err)
		moods = nil
	}
	if n := len(moods); n > 0 {
		var mood, focus int
		for _, m := range moods {
			mood += m.MoodScore
			focus += m.FocusLevel
		}
		d.Mood.AverageMoodScore = round1(float64(mood) / float64(n))
		d.Mood.AverageFocusLevel = round1(float64(focus) / float64(n))
		d.Mood.LogsCount = n
	}

	sleeps, err := a.store.ListSleepLogs(ctx, user.ID, start, now)
	if err != nil {
		warnFallback("sleep", user.ID, err)
		sleeps = nil
	}
	if n := len(sleeps); n > 0 {
		var hours, debt float64
		for _, s := range sleeps {
			hours += s.HoursSlept
			debt += s.SleepDebt
		}
		d.Sleep.AverageHours = round1(hours / float64(n))
		d.Sleep.TotalSleepDebt = round1(debt)
		d.Sleep.LogsCount = n
	}

	skills, err := a.store.ListSkills(ctx, user.ID)
	if err != nil {
		warnFallback("skills", user.ID, err)
		skills = nil
	}
	d.Skills.TotalSkills = len(skills)
	for _, s := range skills {
		d.Skills.TotalPracticeMinutes += s.TotalPracticeTime
	}

	d.Gamification = GamificationStats{
		TotalPoints:   user.TotalPoints,
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
		Level:         user.Level,
	}
	return d
}

// ProductivityTrend counts completed tasks per UTC calendar day for the days days
// starting at now-days. The day containing now is not included.
func (a *Analytics) ProductivityTrend(ctx context.Context, userID string, days int) ProductivityTrend {
	start := a.now().AddDate(0, 0, -days)
	done := true

	trend := ProductivityTrend{DailyProductivity: make(map[string]DayProductivity, days)}
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, 1)
		n := a.count(ctx, userID, store.TaskFilter{Completed: &done, UpdatedFrom: &from, UpdatedTo: &to}, "daily")
		trend.DailyProductivity[day.Format("2006-01-02")] = DayProductivity{CompletedTasks: n}
	}
	return trend
}

func (a *Analytics) count(ctx context.Context, userID string, f store.TaskFilter, what string) int64 {
	n, err := a.store.CountTasks(ctx, userID, f)
	if err != nil {
		warnFallback("tasks."+what, userID, err)
		return 0
	}
	return n
}

func warnFallback(part, userID string, err error) {
	utils.Logger.Warn("analytics read failed, using zero",
		zap.String("part", part),
		zap.String("user_id", userID),
		zap.Error(err),
	)
}

// round1 rounds to one decimal place, ties to even on the binary value.
func round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
