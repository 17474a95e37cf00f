package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill tracks accumulated practice time for one user-defined skill.
type Skill struct {
	ID                string     `gorm:"primaryKey;size:36" json:"id"`
	UserID            string     `gorm:"size:36;index;not null" json:"user_id"`
	SkillName         string     `gorm:"size:128;not null" json:"skill_name"`
	TargetLevel       int        `gorm:"not null" json:"target_level"`
	CurrentLevel      int        `gorm:"not null" json:"current_level"`
	TotalPracticeTime int        `gorm:"not null" json:"total_practice_time"`
	LastPracticed     *time.Time `json:"last_practiced"`
	CreatedAt         time.Time  `json:"created_at"`
}

// TableName keeps the collection name used by existing deployments.
func (Skill) TableName() string {
	return "user_skills"
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
