package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task represents a unit of work, optionally assigned to a user.
//
// AssigneeName is a denormalized snapshot of the assignee's name taken at the
// last write that touched AssigneeID; it is never recomputed on read, so it can
// diverge from the user record.
type Task struct {
	// RowID is the store-assigned primary key; it never appears in responses.
	RowID        uint       `json:"-" gorm:"primaryKey;autoIncrement"`
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);uniqueIndex;not null"`
	Title        string     `json:"title" gorm:"size:255;not null"`
	Description  string     `json:"description" gorm:"type:text;not null"`
	AssigneeID   *string    `json:"assignee_id" gorm:"type:char(36);index"`
	AssigneeName *string    `json:"assignee_name" gorm:"size:255"`
	Status       TaskStatus `json:"status" gorm:"type:varchar(20);not null;default:'todo';index"`
	DueDate      *string    `json:"due_date" gorm:"size:64"`
	CreatedAt    ISOTime    `json:"created_at" gorm:"type:varchar(64);not null"`
}

// BeforeCreate assigns the logical id and creation timestamp.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = NewISOTime(time.Now())
	}
	return nil
}
