package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SleepLog records one night of sleep. SleepDebt is fixed at creation time.
type SleepLog struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;index:idx_sleep_user_created;not null" json:"user_id"`
	HoursSlept float64   `gorm:"not null" json:"hours_slept"`
	Quality    int       `gorm:"not null" json:"quality"`
	Notes      string    `gorm:"type:text" json:"notes"`
	SleepDebt  float64   `gorm:"not null" json:"sleep_debt"`
	CreatedAt  time.Time `gorm:"index:idx_sleep_user_created" json:"created_at"`
}

func (s *SleepLog) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
