package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/eduapp_backend/internal/models"
)

type resourceView struct {
	ID        string              `json:"id"`
	Kind      models.ResourceKind `json:"kind"`
	Title     string              `json:"title"`
	Code      string              `json:"code"`
	CreatedAt time.Time           `json:"created_at"`

	Description string `json:"description,omitempty"`
	FileType    string `json:"file_type,omitempty"`
	PublicURL   string `json:"public_url,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`

	QuestionCount int               `json:"question_count,omitempty"`
	Answers       []models.Question `json:"answer_key,omitempty"`

	ClassName       string `json:"class_name,omitempty"`
	SessionDate     string `json:"session_date,omitempty"`
	AttendanceCount *int   `json:"attendance_count,omitempty"`
}

// viewOf renders a record. Owners see the quiz answer key and the attendance
// count; students never see the correct options.
func viewOf(r *models.Resource, owner bool) resourceView {
	v := resourceView{
		ID:        r.ID,
		Kind:      r.Kind,
		Title:     r.Title,
		Code:      r.Code,
		CreatedAt: r.CreatedAt,
	}
	switch r.Kind {
	case models.KindMaterial:
		v.Description = r.Description
		v.FileType = r.FileType
		v.PublicURL = r.PublicURL
		v.SizeBytes = r.SizeBytes
	case models.KindQuiz:
		v.QuestionCount = len(r.Questions)
		if owner {
			v.Answers = r.Questions
		}
	case models.KindAttendance:
		v.ClassName = r.ClassName
		v.SessionDate = r.SessionDate
		if owner {
			count := r.AttendanceCount
			v.AttendanceCount = &count
		}
	}
	return v
}

func viewsOf(items []models.Resource, owner bool) []resourceView {
	out := make([]resourceView, 0, len(items))
	for i := range items {
		out = append(out, viewOf(&items[i], owner))
	}
	return out
}

func currentUser(c *gin.Context) (*models.User, bool) {
	if uVal, ok := c.Get("user"); ok {
		u := uVal.(models.User)
		return &u, true
	}
	return nil, false
}

func mustUser(c *gin.Context) models.User {
	uVal, _ := c.Get("user")
	return uVal.(models.User)
}
