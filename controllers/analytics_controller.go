package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise/services"
	"github.com/planwise/planwise/utils"
)

const (
	defaultDashboardDays = 7
	defaultTrendDays     = 30
)

// AnalyticsController serves per-user summaries. Responses are cached in Redis for a
// short TTL and dropped whenever the user writes a task, log or skill.
type AnalyticsController struct {
	users     UserStore
	analytics *services.Analytics
	cacheTTL  time.Duration
}

func NewAnalyticsController(users UserStore, analytics *services.Analytics, cacheTTL time.Duration) *AnalyticsController {
	return &AnalyticsController{users: users, analytics: analytics, cacheTTL: cacheTTL}
}

// Dashboard returns task, mood, sleep, skill and gamification figures for ?days (default 7).
func (ac *AnalyticsController) Dashboard(ctx *gin.Context) {
	user, ok := currentUser(ctx, ac.users)
	if !ok {
		return
	}
	days, ok := parseDays(ctx, defaultDashboardDays)
	if !ok {
		return
	}

	key := fmt.Sprintf("%sdashboard:%d", analyticsCachePrefix(user.ID), days)
	var cached services.Dashboard
	if utils.CacheGetJSON(key, &cached) {
		utils.Success(ctx, cached)
		return
	}

	summary := ac.analytics.Dashboard(ctx.Request.Context(), user, days)
	utils.CacheSetIndexedJSON(analyticsCacheIndex(user.ID), key, summary, ac.cacheTTL)
	utils.Success(ctx, summary)
}

// ProductivityTrends returns completed-task counts per day for ?days (default 30).
func (ac *AnalyticsController) ProductivityTrends(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	days, ok := parseDays(ctx, defaultTrendDays)
	if !ok {
		return
	}

	key := fmt.Sprintf("%strend:%d", analyticsCachePrefix(uid), days)
	var cached services.ProductivityTrend
	if utils.CacheGetJSON(key, &cached) {
		utils.Success(ctx, cached)
		return
	}

	trend := ac.analytics.ProductivityTrend(ctx.Request.Context(), uid, days)
	utils.CacheSetIndexedJSON(analyticsCacheIndex(uid), key, trend, ac.cacheTTL)
	utils.Success(ctx, trend)
}
