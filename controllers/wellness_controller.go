package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise/models"
	"github.com/planwise/planwise/services"
	"github.com/planwise/planwise/store"
	"github.com/planwise/planwise/utils"
)

const defaultLogDays = 7

// MoodController records immutable mood check-ins.
type MoodController struct {
	moods MoodStore
}

func NewMoodController(moods MoodStore) *MoodController {
	return &MoodController{moods: moods}
}

type moodRequest struct {
	MoodScore   int    `json:"mood_score" binding:"required,min=1,max=10"`
	FocusLevel  int    `json:"focus_level" binding:"required,min=1,max=10"`
	EnergyLevel int    `json:"energy_level" binding:"required,min=1,max=10"`
	StressLevel int    `json:"stress_level" binding:"required,min=1,max=10"`
	Notes       string `json:"notes" binding:"max=2000"`
}

func (mc *MoodController) Create(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req moodRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid mood payload")
		return
	}
	entry := models.MoodLog{
		UserID:      uid,
		MoodScore:   req.MoodScore,
		FocusLevel:  req.FocusLevel,
		EnergyLevel: req.EnergyLevel,
		StressLevel: req.StressLevel,
		Notes:       utils.SanitizeRich(req.Notes),
		CreatedAt:   time.Now().UTC(),
	}
	if err := mc.moods.CreateMoodLog(ctx.Request.Context(), &entry); err != nil {
		utils.Sugar.Errorf("create mood log: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to save mood log")
		return
	}
	invalidateAnalytics(uid)
	utils.Created(ctx, entry)
}

// List returns mood logs from the last ?days (default 7), newest first.
func (mc *MoodController) List(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	days, ok := parseDays(ctx, defaultLogDays)
	if !ok {
		return
	}
	from, to := window(days)
	logs, err := mc.moods.ListMoodLogs(ctx.Request.Context(), uid, from, to)
	if err != nil {
		utils.Sugar.Errorf("list mood logs: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to list mood logs")
		return
	}
	utils.Success(ctx, logs)
}

func (mc *MoodController) Latest(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	entry, err := mc.moods.LatestMoodLog(ctx.Request.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40440, "no mood logs found")
		return
	}
	if err != nil {
		utils.Sugar.Errorf("latest mood log: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load mood log")
		return
	}
	utils.Success(ctx, entry)
}

// SleepController records sleep with a derived debt against the user's goal.
type SleepController struct {
	sleeps SleepStore
	users  UserStore
}

func NewSleepController(sleeps SleepStore, users UserStore) *SleepController {
	return &SleepController{sleeps: sleeps, users: users}
}

type sleepRequest struct {
	HoursSlept *float64 `json:"hours_slept" binding:"required,min=0,max=24"`
	Quality    int      `json:"quality" binding:"required,min=1,max=10"`
	Notes      string   `json:"notes" binding:"max=2000"`
}

func (sc *SleepController) Create(ctx *gin.Context) {
	user, ok := currentUser(ctx, sc.users)
	if !ok {
		return
	}
	var req sleepRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid sleep payload")
		return
	}

	goal := user.DailySleepGoal
	if goal <= 0 {
		goal = models.DefaultSleepGoal
	}
	entry := models.SleepLog{
		UserID:     user.ID,
		HoursSlept: *req.HoursSlept,
		Quality:    req.Quality,
		Notes:      utils.SanitizeRich(req.Notes),
		SleepDebt:  services.SleepDebt(goal, *req.HoursSlept),
		CreatedAt:  time.Now().UTC(),
	}
	if err := sc.sleeps.CreateSleepLog(ctx.Request.Context(), &entry); err != nil {
		utils.Sugar.Errorf("create sleep log: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to save sleep log")
		return
	}
	invalidateAnalytics(user.ID)
	utils.Created(ctx, entry)
}

func (sc *SleepController) List(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	days, ok := parseDays(ctx, defaultLogDays)
	if !ok {
		return
	}
	from, to := window(days)
	logs, err := sc.sleeps.ListSleepLogs(ctx.Request.Context(), uid, from, to)
	if err != nil {
		utils.Sugar.Errorf("list sleep logs: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to list sleep logs")
		return
	}
	utils.Success(ctx, logs)
}

// Debt sums and averages sleep debt over the last ?days (default 7).
func (sc *SleepController) Debt(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	days, ok := parseDays(ctx, defaultLogDays)
	if !ok {
		return
	}
	from, to := window(days)
	logs, err := sc.sleeps.ListSleepLogs(ctx.Request.Context(), uid, from, to)
	if err != nil {
		utils.Sugar.Errorf("sleep debt: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to compute sleep debt")
		return
	}

	total := 0.0
	for _, l := range logs {
		total += l.SleepDebt
	}
	avg := 0.0
	if len(logs) > 0 {
		avg = total / float64(len(logs))
	}
	utils.Success(ctx, gin.H{
		"total_sleep_debt":   total,
		"average_sleep_debt": avg,
		"days_tracked":       len(logs),
	})
}
