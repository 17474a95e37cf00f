package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampusEvent is a shared event visible to every user; only its creator may delete it.
type CampusEvent struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"size:32;index" json:"category"`
	EventDate   time.Time `gorm:"index;not null" json:"event_date"`
	Location    string    `gorm:"size:255" json:"location"`
	CreatedBy   string    `gorm:"size:36;index;not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *CampusEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
