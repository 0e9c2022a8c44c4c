package model

import "time"

// User represents a registered account. Users are created on registration and
// never mutated or deleted afterwards.
type User struct {
	ID           string    `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"` // stored normalized (lowercase, no whitespace)
	PasswordHash string    `json:"-" gorm:"size:255;not null"`                 // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
