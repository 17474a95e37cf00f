package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MoodLog is an immutable self-assessment snapshot.
type MoodLog struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;index:idx_mood_user_created;not null" json:"user_id"`
	MoodScore   int       `gorm:"not null" json:"mood_score"`
	FocusLevel  int       `gorm:"not null" json:"focus_level"`
	EnergyLevel int       `gorm:"not null" json:"energy_level"`
	StressLevel int       `gorm:"not null" json:"stress_level"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"index:idx_mood_user_created" json:"created_at"`
}

func (m *MoodLog) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
