package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise/models"
	"github.com/planwise/planwise/store"
	"github.com/planwise/planwise/utils"
)

type UserController struct {
	users UserStore
}

func NewUserController(users UserStore) *UserController {
	return &UserController{users: users}
}

type updateProfileRequest struct {
	FullName               *string  `json:"full_name" binding:"omitempty,max=128"`
	Bio                    *string  `json:"bio" binding:"omitempty,max=2000"`
	PreferredDeepWorkStart *int     `json:"preferred_deep_work_start" binding:"omitempty,min=0,max=23"`
	PreferredDeepWorkEnd   *int     `json:"preferred_deep_work_end" binding:"omitempty,min=0,max=24"`
	DailySleepGoal         *float64 `json:"daily_sleep_goal" binding:"omitempty,gt=0,max=24"`
}

func (r updateProfileRequest) columns() map[string]interface{} {
	fields := map[string]interface{}{}
	if r.FullName != nil {
		fields["full_name"] = utils.SanitizePlain(*r.FullName)
	}
	if r.Bio != nil {
		fields["bio"] = utils.SanitizeRich(*r.Bio)
	}
	if r.PreferredDeepWorkStart != nil {
		fields["preferred_deep_work_start"] = *r.PreferredDeepWorkStart
	}
	if r.PreferredDeepWorkEnd != nil {
		fields["preferred_deep_work_end"] = *r.PreferredDeepWorkEnd
	}
	if r.DailySleepGoal != nil {
		fields["daily_sleep_goal"] = *r.DailySleepGoal
	}
	return fields
}

func (uc *UserController) Me(ctx *gin.Context) {
	user, ok := currentUser(ctx, uc.users)
	if !ok {
		return
	}
	utils.Success(ctx, user)
}

// UpdateMe applies the fields present in the body; absent fields keep their values.
func (uc *UserController) UpdateMe(ctx *gin.Context) {
	user, ok := currentUser(ctx, uc.users)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid profile payload")
		return
	}

	fields := req.columns()
	if len(fields) == 0 {
		utils.Success(ctx, user)
		return
	}
	if err := uc.users.UpdateUser(ctx.Request.Context(), user.ID, fields); err != nil {
		utils.Sugar.Errorf("update profile %s: %v", user.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to update profile")
		return
	}
	updated, ok := currentUser(ctx, uc.users)
	if !ok {
		return
	}
	invalidateAnalytics(user.ID)
	utils.Success(ctx, updated)
}

// GetPublic returns a user's profile by id without authentication.
func (uc *UserController) GetPublic(ctx *gin.Context) {
	user, err := uc.users.FindUserByID(ctx.Request.Context(), ctx.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	if err != nil {
		utils.Sugar.Errorf("public profile: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to get user")
		return
	}
	utils.Success(ctx, publicProfile(user))
}

func publicProfile(u *models.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"username":       u.Username,
		"full_name":      u.FullName,
		"bio":            u.Bio,
		"total_points":   u.TotalPoints,
		"current_streak": u.CurrentStreak,
		"longest_streak": u.LongestStreak,
		"level":          u.Level,
		"created_at":     u.CreatedAt,
	}
}
