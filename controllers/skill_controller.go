package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise/models"
	"github.com/planwise/planwise/services"
	"github.com/planwise/planwise/utils"
)

const defaultTargetLevel = 10

type SkillController struct {
	skills   SkillStore
	practice *services.SkillService
}

func NewSkillController(skills SkillStore, practice *services.SkillService) *SkillController {
	return &SkillController{skills: skills, practice: practice}
}

type skillRequest struct {
	SkillName   string `json:"skill_name" binding:"required,max=128"`
	TargetLevel *int   `json:"target_level" binding:"omitempty,min=1,max=1000"`
}

func (sc *SkillController) Create(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req skillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid skill payload")
		return
	}
	name := utils.SanitizePlain(req.SkillName)
	if name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40061, "skill_name is required")
		return
	}
	skill := models.Skill{
		UserID:       uid,
		SkillName:    name,
		TargetLevel:  defaultTargetLevel,
		CurrentLevel: services.SkillLevel(0),
		CreatedAt:    time.Now().UTC(),
	}
	if req.TargetLevel != nil {
		skill.TargetLevel = *req.TargetLevel
	}
	if err := sc.skills.CreateSkill(ctx.Request.Context(), &skill); err != nil {
		utils.Sugar.Errorf("create skill: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to create skill")
		return
	}
	invalidateAnalytics(uid)
	utils.Created(ctx, skill)
}

func (sc *SkillController) List(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	skills, err := sc.skills.ListSkills(ctx.Request.Context(), uid)
	if err != nil {
		utils.Sugar.Errorf("list skills: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to list skills")
		return
	}
	utils.Success(ctx, skills)
}

// Practice logs ?minutes of practice on an owned skill.
func (sc *SkillController) Practice(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	minutes, err := strconv.Atoi(ctx.Query("minutes"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40062, "minutes must be an integer")
		return
	}
	skill, err := sc.practice.Practice(ctx.Request.Context(), uid, ctx.Param("id"), minutes)
	switch {
	case errors.Is(err, services.ErrInvalidMinutes):
		utils.Error(ctx, http.StatusBadRequest, 40063, err.Error())
		return
	case errors.Is(err, services.ErrSkillNotFound):
		utils.Error(ctx, http.StatusNotFound, 40460, "skill not found")
		return
	case err != nil:
		utils.Sugar.Errorf("log practice: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to log practice")
		return
	}
	invalidateAnalytics(uid)
	utils.Success(ctx, skill)
}

type achievementView struct {
	models.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at"`
}

// Achievements lists the catalog, marking entries the caller has unlocked.
func (sc *SkillController) Achievements(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	catalog, err := sc.skills.ListAchievements(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("list achievements: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to list achievements")
		return
	}
	unlocks, err := sc.skills.ListUserAchievements(ctx.Request.Context(), uid)
	if err != nil {
		utils.Sugar.Errorf("list user achievements: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to list achievements")
		return
	}

	unlockedAt := make(map[string]time.Time, len(unlocks))
	for _, u := range unlocks {
		unlockedAt[u.AchievementID] = u.UnlockedAt
	}
	views := make([]achievementView, 0, len(catalog))
	for _, a := range catalog {
		v := achievementView{Achievement: a}
		if at, ok := unlockedAt[a.ID]; ok {
			at := at
			v.Unlocked = true
			v.UnlockedAt = &at
		}
		views = append(views, v)
	}
	utils.Success(ctx, views)
}
