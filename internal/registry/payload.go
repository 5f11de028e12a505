package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/zaqqye/eduapp_backend/internal/models"
)

const (
	MinQuizOptions = 2
	MaxQuizOptions = 6
)

// Payload is the kind-specific part of a resource.
type Payload interface {
	Kind() models.ResourceKind
	Validate() error
	apply(r *models.Resource)
}

type MaterialPayload struct {
	Description string
	FileType    string
	ObjectKey   string
	PublicURL   string
	SizeBytes   int64
	Checksum    string
}

func (MaterialPayload) Kind() models.ResourceKind { return models.KindMaterial }

func (p MaterialPayload) Validate() error {
	if strings.TrimSpace(p.ObjectKey) == "" {
		return invalid("file is required")
	}
	return nil
}

func (p MaterialPayload) apply(r *models.Resource) {
	r.Description = strings.TrimSpace(p.Description)
	r.FileType = p.FileType
	if r.FileType == "" {
		r.FileType = "FILE"
	}
	r.ObjectKey = p.ObjectKey
	r.PublicURL = p.PublicURL
	r.SizeBytes = p.SizeBytes
	r.Checksum = p.Checksum
}

type QuizPayload struct {
	Questions []models.Question
}

func (QuizPayload) Kind() models.ResourceKind { return models.KindQuiz }

func (p QuizPayload) Validate() error {
	if len(p.Questions) == 0 {
		return invalid("a quiz must have at least one question")
	}
	for i, q := range p.Questions {
		n := i + 1
		if strings.TrimSpace(q.Text) == "" {
			return invalid(fmt.Sprintf("question %d: text is required", n))
		}
		if len(q.Options) < MinQuizOptions || len(q.Options) > MaxQuizOptions {
			return invalid(fmt.Sprintf("question %d: needs between %d and %d options", n, MinQuizOptions, MaxQuizOptions))
		}
		for _, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return invalid(fmt.Sprintf("question %d: options must not be empty", n))
			}
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return invalid(fmt.Sprintf("question %d: correct option out of range", n))
		}
	}
	return nil
}

func (p QuizPayload) apply(r *models.Resource) {
	qs := make([]models.Question, 0, len(p.Questions))
	for _, q := range p.Questions {
		opts := make([]string, len(q.Options))
		for i, o := range q.Options {
			opts[i] = strings.TrimSpace(o)
		}
		qs = append(qs, models.Question{
			Text:          strings.TrimSpace(q.Text),
			Options:       opts,
			CorrectOption: q.CorrectOption,
		})
	}
	r.Questions = qs
}

type AttendancePayload struct {
	ClassName   string
	SessionDate string // YYYY-MM-DD
}

func (AttendancePayload) Kind() models.ResourceKind { return models.KindAttendance }

func (p AttendancePayload) Validate() error {
	if strings.TrimSpace(p.ClassName) == "" || strings.TrimSpace(p.SessionDate) == "" {
		return invalid("class name and date are required")
	}
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(p.SessionDate)); err != nil {
		return invalid("date must be formatted as YYYY-MM-DD")
	}
	return nil
}

func (p AttendancePayload) apply(r *models.Resource) {
	r.ClassName = strings.TrimSpace(p.ClassName)
	r.SessionDate = strings.TrimSpace(p.SessionDate)
	r.AttendanceCount = 0
}
