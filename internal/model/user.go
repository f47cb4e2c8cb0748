package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a person tasks can be assigned to.
type User struct {
	// RowID is the store-assigned primary key; it never appears in responses.
	RowID     uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	ID        uuid.UUID `json:"id" gorm:"type:char(36);uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	CreatedAt ISOTime   `json:"created_at" gorm:"type:varchar(64);not null"`
}

// BeforeCreate assigns the logical id and creation timestamp.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = NewISOTime(time.Now())
	}
	return nil
}
