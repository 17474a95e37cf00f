package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise/middleware"
	"github.com/planwise/planwise/models"
	"github.com/planwise/planwise/store"
	"github.com/planwise/planwise/utils"
)

const (
	minDays = 1
	maxDays = 365
)

// analyticsCachePrefix scopes cached analytics responses per user.
func analyticsCachePrefix(userID string) string {
	return "cache:analytics:" + userID + ":"
}

// analyticsCacheIndex names the set that tracks every cached analytics key of a user.
func analyticsCacheIndex(userID string) string {
	return analyticsCachePrefix(userID) + "keys"
}

// invalidateAnalytics drops cached analytics after a write that changes them.
func invalidateAnalytics(userID string) {
	utils.InvalidateIndex(analyticsCacheIndex(userID))
}

func currentUserID(ctx *gin.Context) (string, bool) {
	uid := ctx.GetString(middleware.ContextUserIDKey)
	if uid == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "unauthorized")
		return "", false
	}
	return uid, true
}

// currentUser loads the authenticated user record. A token for a deleted user is treated as invalid.
func currentUser(ctx *gin.Context, users UserStore) (*models.User, bool) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return nil, false
	}
	user, err := users.FindUserByID(ctx.Request.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "could not validate credentials")
		return nil, false
	}
	if err != nil {
		utils.Sugar.Errorf("load user %s: %v", uid, err)
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load user")
		return nil, false
	}
	return user, true
}

// parseDays reads the days query parameter, which must be an integer in [1, 365].
func parseDays(ctx *gin.Context, def int) (int, bool) {
	raw := strings.TrimSpace(ctx.Query("days"))
	if raw == "" {
		return def, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < minDays || days > maxDays {
		utils.Error(ctx, http.StatusBadRequest, 40020, "days must be an integer between 1 and 365")
		return 0, false
	}
	return days, true
}

// window returns [now-days, now) in UTC.
func window(days int) (time.Time, time.Time) {
	now := time.Now().UTC()
	return now.AddDate(0, 0, -days), now
}
