package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/planwise/planwise/models"
	"github.com/planwise/planwise/store"
	"github.com/planwise/planwise/utils"
)

const defaultEventCategory = "general"

// CampusController manages shared events. Any user may read; only the creator may delete.
type CampusController struct {
	events EventStore
}

func NewCampusController(events EventStore) *CampusController {
	return &CampusController{events: events}
}

type eventRequest struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description string    `json:"description"`
	Category    string    `json:"category" binding:"max=32"`
	EventDate   time.Time `json:"event_date" binding:"required"`
	Location    string    `json:"location" binding:"max=255"`
}

func (cc *CampusController) Create(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req eventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid event payload")
		return
	}
	event := models.CampusEvent{
		Title:       utils.SanitizePlain(req.Title),
		Description: utils.SanitizeRich(req.Description),
		Category:    utils.SanitizePlain(req.Category),
		EventDate:   req.EventDate.UTC(),
		Location:    utils.SanitizePlain(req.Location),
		CreatedBy:   uid,
		CreatedAt:   time.Now().UTC(),
	}
	if event.Title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40071, "title is required")
		return
	}
	if event.Category == "" {
		event.Category = defaultEventCategory
	}
	if err := cc.events.CreateEvent(ctx.Request.Context(), &event); err != nil {
		utils.Sugar.Errorf("create event: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to create event")
		return
	}
	utils.Created(ctx, event)
}

// List returns events by ascending date, optionally filtered by ?category.
func (cc *CampusController) List(ctx *gin.Context) {
	events, err := cc.events.ListEvents(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		utils.Sugar.Errorf("list events: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to list events")
		return
	}
	utils.Success(ctx, events)
}

func (cc *CampusController) Get(ctx *gin.Context) {
	event, ok := cc.load(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, event)
}

func (cc *CampusController) Delete(ctx *gin.Context) {
	uid, ok := currentUserID(ctx)
	if !ok {
		return
	}
	event, ok := cc.load(ctx)
	if !ok {
		return
	}
	if event.CreatedBy != uid {
		utils.Error(ctx, http.StatusForbidden, 40370, "not authorized to delete this event")
		return
	}
	if err := cc.events.DeleteEvent(ctx.Request.Context(), event.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		utils.Sugar.Errorf("delete event: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to delete event")
		return
	}
	utils.Success(ctx, gin.H{"deleted": true})
}

func (cc *CampusController) load(ctx *gin.Context) (*models.CampusEvent, bool) {
	event, err := cc.events.FindEvent(ctx.Request.Context(), ctx.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40470, "event not found")
		return nil, false
	}
	if err != nil {
		utils.Sugar.Errorf("load event: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to load event")
		return nil, false
	}
	return event, true
}
