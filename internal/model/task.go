package model

import "time"

// Default values applied when a task is created without them.
const (
	TaskStatusPending  = "pending"
	TaskPriorityMedium = "medium"
)

// Task is a unit of work owned by a user, optionally attached to one of the
// owner's projects. ProjectID is nil for standalone tasks and immutable once
// set: a task can only reference a project owned by the same user, checked at
// creation time.
type Task struct {
	ID          string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      string    `json:"userId" gorm:"type:char(36);not null;index"`
	ProjectID   *string   `json:"projectId" gorm:"type:char(36);index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:1024"`
	Tags        []string  `json:"tags" gorm:"serializer:json;type:text"`
	Status      string    `json:"status" gorm:"size:50;not null"`
	Priority    string    `json:"priority" gorm:"size:50;not null"`
	Due         time.Time `json:"due"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
