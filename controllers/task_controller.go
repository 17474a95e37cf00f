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

const (
	defaultCategory      = "other"
	defaultDuration      = 30
	defaultCognitiveLoad = 5
)

// TaskController exposes task CRUD. Completion changes go through the task service,
// which awards or revokes points.
type TaskController struct {
	tasks *services.TaskService
}

func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

type createTaskRequest struct {
	Title              string     `json:"title" binding:"required,max=255"`
	Description        string     `json:"description"`
	Category           string     `json:"category" binding:"max=32"`
	Priority           string     `json:"priority" binding:"omitempty,priority"`
	EstimatedDuration  *int       `json:"estimated_duration" binding:"omitempty,min=0,max=10000"`
	CognitiveLoad      *int       `json:"cognitive_load" binding:"omitempty,min=1,max=10"`
	IsDeepWork         bool       `json:"is_deep_work"`
	ScheduledDate      *time.Time `json:"scheduled_date"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
	Order              int        `json:"order"`
}

type updateTaskRequest struct {
	Title              *string    `json:"title" binding:"omitempty,max=255"`
	Description        *string    `json:"description"`
	Category           *string    `json:"category" binding:"omitempty,max=32"`
	Priority           *string    `json:"priority" binding:"omitempty,priority"`
	EstimatedDuration  *int       `json:"estimated_duration" binding:"omitempty,min=0,max=10000"`
	CognitiveLoad      *int       `json:"cognitive_load" binding:"omitempty,min=1,max=10"`
	IsDeepWork         *bool      `json:"is_deep_work"`
	ScheduledDate      *time.Time `json:"scheduled_date"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
	Completed          *bool      `json:"completed"`
	Order              *int       `json:"order"`
}

func (r createTaskRequest) toModel() models.Task {
	t := models.Task{
		Title:              utils.SanitizePlain(r.Title),
		Description:        utils.SanitizeRich(r.Description),
		Category:           utils.SanitizePlain(r.Category),
		Priority:           r.Priority,
		EstimatedDuration:  defaultDuration,
		CognitiveLoad:      defaultCognitiveLoad,
		IsDeepWork:         r.IsDeepWork,
		ScheduledDate:      r.ScheduledDate,
		ScheduledStartTime: r.ScheduledStartTime,
		ScheduledEndTime:   r.ScheduledEndTime,
		SortOrder:          r.Order,
	}
	if t.Category == "" {
		t.Category = defaultCategory
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if r.EstimatedDuration != nil {
		t.EstimatedDuration = *r.EstimatedDuration
	}
	if r.CognitiveLoad != nil {
		t.CognitiveLoad = *r.CognitiveLoad
	}
	return t
}

func (r updateTaskRequest) toUpdate() services.TaskUpdate {
	upd := services.TaskUpdate{
		Priority:           r.Priority,
		EstimatedDuration:  r.EstimatedDuration,
		CognitiveLoad:      r.CognitiveLoad,
		IsDeepWork:         r.IsDeepWork,
		ScheduledDate:      r.ScheduledDate,
		ScheduledStartTime: r.ScheduledStartTime,
		ScheduledEndTime:   r.ScheduledEndTime,
		Order:              r.Order,
		Completed:          r.Completed,
	}
	if r.Title != nil {
		title := utils.SanitizePlain(*r.Title)
		upd.Title = &title
	}
	if r.Description != nil {
		desc := utils.SanitizeRich(*r.Description)
		upd.Description = &desc
	}
	if r.Category != nil {
		cat := utils.SanitizePlain(*r.Category)
		upd.Category = &cat
	}
	return upd
}

func (tc *TaskController) Create(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req createTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid task payload")
		return
	}
	task := req.toModel()
	if task.Title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "title is required")
		return
	}
	if err := tc.tasks.Create(ctx.Request.Context(), uid, &task); err != nil {
		utils.Sugar.Errorf("create task: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create task")
		return
	}
	invalidateAnalytics(uid)
	utils.Created(ctx, task)
}

// List returns the caller's tasks newest first. ?completed=true|false filters.
func (tc *TaskController) List(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var completed *bool
	if raw := ctx.Query("completed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40032, "completed must be true or false")
			return
		}
		completed = &v
	}
	tasks, err := tc.tasks.List(ctx.Request.Context(), uid, completed)
	if err != nil {
		utils.Sugar.Errorf("list tasks: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list tasks")
		return
	}
	utils.Success(ctx, tasks)
}

func (tc *TaskController) Get(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	task, err := tc.tasks.Get(ctx.Request.Context(), uid, ctx.Param("id"))
	if err != nil {
		tc.fail(ctx, err)
		return
	}
	utils.Success(ctx, task)
}

func (tc *TaskController) Update(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid task payload")
		return
	}
	if req.Title != nil && utils.SanitizePlain(*req.Title) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "title is required")
		return
	}
	task, err := tc.tasks.Update(ctx.Request.Context(), uid, ctx.Param("id"), req.toUpdate())
	if err != nil {
		tc.fail(ctx, err)
		return
	}
	invalidateAnalytics(uid)
	utils.Success(ctx, task)
}

func (tc *TaskController) Delete(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if err := tc.tasks.Delete(ctx.Request.Context(), uid, ctx.Param("id")); err != nil {
		tc.fail(ctx, err)
		return
	}
	invalidateAnalytics(uid)
	utils.Success(ctx, gin.H{"deleted": true})
}

func (tc *TaskController) fail(ctx *gin.Context, err error) {
	if errors.Is(err, services.ErrTaskNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40430, "task not found")
		return
	}
	utils.Sugar.Errorf("task request failed: %v", err)
	utils.Error(ctx, http.StatusInternalServerError, 50032, "task operation failed")
}
