package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account holder. Passwords are stored as bcrypt hashes only.
type User struct {
	ID                     string    `gorm:"primaryKey;size:36" json:"id"`
	Email                  string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username               string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	FullName               string    `gorm:"size:128" json:"full_name"`
	Bio                    string    `gorm:"type:text" json:"bio"`
	PasswordHash           string    `gorm:"size:255" json:"-"`
	TotalPoints            int       `gorm:"not null" json:"total_points"`
	CurrentStreak          int       `gorm:"not null" json:"current_streak"`
	LongestStreak          int       `gorm:"not null" json:"longest_streak"`
	Level                  int       `gorm:"not null" json:"level"`
	PreferredDeepWorkStart int       `json:"preferred_deep_work_start"`
	PreferredDeepWorkEnd   int       `json:"preferred_deep_work_end"`
	DailySleepGoal         float64   `json:"daily_sleep_goal"`
	OAuthProvider          string    `gorm:"column:oauth_provider;size:32" json:"oauth_provider,omitempty"`
	OAuthID                string    `gorm:"column:oauth_id;size:255" json:"-"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

const (
	DefaultSleepGoal     = 8.0
	DefaultDeepWorkStart = 9
	DefaultDeepWorkEnd   = 12
)

// NewUser returns a user carrying the defaults every fresh account starts with.
func NewUser(email, username, fullName string) User {
	return User{
		Email:                  email,
		Username:               username,
		FullName:               fullName,
		Level:                  1,
		PreferredDeepWorkStart: DefaultDeepWorkStart,
		PreferredDeepWorkEnd:   DefaultDeepWorkEnd,
		DailySleepGoal:         DefaultSleepGoal,
	}
}

// BeforeCreate assigns the identifier and timestamps when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now().UTC()
	return nil
}
