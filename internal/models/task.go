package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	ProjectID    uint64         `gorm:"not null;index" json:"project_id"`
	CreatorID    uint64         `gorm:"not null;index" json:"creator_id"`
	AssignedToID *uint64        `gorm:"index" json:"assigned_to_id"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority     Priority       `gorm:"type:varchar(20);not null;default:'low'" json:"priority"`
	DueDate      *time.Time     `gorm:"index" json:"due_date"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project    Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Creator    User      `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	AssignedTo *User     `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	Comments   []Comment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}
