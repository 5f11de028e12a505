package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User is either a teacher (email + password) or a student (student number,
// no password).
type User struct {
	ID            uint    `gorm:"primaryKey"`
	UserID        string  `gorm:"type:uuid;uniqueIndex"`
	FullName      string
	Email         *string `gorm:"uniqueIndex"`
	StudentNumber *string `gorm:"uniqueIndex"`
	Password      string
	Role          string `gorm:"size:16;index"`
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}
	return nil
}
