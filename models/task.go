package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task priorities accepted by the API.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task is a to-do item owned by a single user.
type Task struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	UserID             string     `gorm:"size:36;index;not null" json:"user_id"`
	Title              string     `gorm:"size:255;not null" json:"title"`
	Description        string     `gorm:"type:text" json:"description"`
	Category           string     `gorm:"size:32" json:"category"`
	Priority           string     `gorm:"size:16;not null" json:"priority"`
	EstimatedDuration  int        `gorm:"not null" json:"estimated_duration"`
	CognitiveLoad      int        `gorm:"not null" json:"cognitive_load"`
	IsDeepWork         bool       `gorm:"not null" json:"is_deep_work"`
	ScheduledDate      *time.Time `json:"scheduled_date"`
	ScheduledStartTime *time.Time `json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
	SortOrder          int        `gorm:"column:sort_order" json:"order"`
	Completed          bool       `gorm:"index;not null" json:"completed"`
	CompletedAt        *time.Time `json:"completed_at"`
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"index" json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
