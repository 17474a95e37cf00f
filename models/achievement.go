package models

import "time"

// Achievement is an entry of the global achievement catalog.
type Achievement struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        string    `gorm:"size:16" json:"icon"`
	Points      int       `json:"points"`
	Category    string    `gorm:"size:32" json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserAchievement marks an achievement as unlocked for a user.
type UserAchievement struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:36;uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID string    `gorm:"size:36;uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}
