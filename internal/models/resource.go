package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ResourceKind string

const (
	KindMaterial   ResourceKind = "material"
	KindQuiz       ResourceKind = "quiz"
	KindAttendance ResourceKind = "attendance"
)

func (k ResourceKind) Valid() bool {
	switch k {
	case KindMaterial, KindQuiz, KindAttendance:
		return true
	}
	return false
}

// Question is one multiple-choice item of a quiz. CorrectOption indexes Options.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// Resource is a registered material, quiz or attendance session. Kind selects
// which payload columns are meaningful; the others stay zero.
type Resource struct {
	ID         string       `gorm:"type:uuid;primaryKey"`
	Kind       ResourceKind `gorm:"size:16;index"`
	Title      string
	Code       string `gorm:"size:16;uniqueIndex"`
	OwnerIDRef string `gorm:"index"`

	// material
	Description string `gorm:"type:text"`
	FileType    string `gorm:"size:16"`
	ObjectKey   string
	PublicURL   string
	SizeBytes   int64
	Checksum    string `gorm:"size:64"`

	// quiz
	Questions datatypes.JSONSlice[Question]

	// attendance
	ClassName       string
	SessionDate     string `gorm:"size:10"`
	AttendanceCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a time-ordered identifier.
func (r *Resource) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		r.ID = id.String()
	}
	return nil
}
