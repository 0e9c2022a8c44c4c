package model

import "time"

// Project groups tasks for a single owner. UserID is immutable after creation
// and every access is scoped by it.
type Project struct {
	ID          string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      string    `json:"userId" gorm:"type:char(36);not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:1024"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
