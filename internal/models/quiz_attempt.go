package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

// QuizAttempt is one walk of a student through a quiz. A student holds at
// most one in-progress attempt per quiz (partial unique index).
type QuizAttempt struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	StudentIDRef  string `gorm:"index:idx_attempt_student_quiz,priority:1;uniqueIndex:uniq_attempt_open,priority:1,where:status = 'in_progress'"`
	ResourceIDRef string `gorm:"index:idx_attempt_student_quiz,priority:2;uniqueIndex:uniq_attempt_open,priority:2,where:status = 'in_progress'"`
	Status        string `gorm:"size:16;index"`
	CurrentIndex  int
	Answers       datatypes.JSONSlice[int]
	Score         int
	Total         int
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
