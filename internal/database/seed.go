package database

import (
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/eduapp_backend/internal/config"
	"github.com/zaqqye/eduapp_backend/internal/models"
	"github.com/zaqqye/eduapp_backend/internal/utils"
)

// SeedTeacher creates the configured teacher account once and returns it.
func SeedTeacher(db *gorm.DB, cfg *config.Config, log *zap.Logger) (*models.User, error) {
	email := cfg.TeacherEmail
	if email == "" {
		email = "teacher@example.com"
	}
	var existing models.User
	err := db.Where("email = ? AND role = ?", email, models.RoleTeacher).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fullName := cfg.TeacherFullName
	if fullName == "" {
		fullName = "Demo Teacher"
	}
	password := cfg.TeacherPassword
	if password == "" {
		password = "teacher123"
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	teacher := models.User{
		FullName: fullName,
		Email:    &email,
		Password: hashed,
		Role:     models.RoleTeacher,
		Active:   true,
	}
	if err := db.Create(&teacher).Error; err != nil {
		return nil, err
	}
	log.Info("seeded initial teacher", zap.String("email", email))
	return &teacher, nil
}

// SeedDemoResources registers the sample catalogue under fixed codes so a
// fresh install has something to redeem (BIO101, BIO123, MTH101, ...).
// Records whose code already exists are left alone.
func SeedDemoResources(db *gorm.DB, owner *models.User, log *zap.Logger) error {
	demo := []models.Resource{
		{Kind: models.KindMaterial, Code: "BIO101", Title: "Introduction to Biology", FileType: "PDF", Description: "Basic principles of biology"},
		{Kind: models.KindMaterial, Code: "MATH202", Title: "Mathematics Formula Sheet", FileType: "PDF", Description: "Essential formulas for calculus"},
		{Kind: models.KindMaterial, Code: "CHEM99", Title: "Chemistry Lab Instructions", FileType: "DOCX", Description: "Step-by-step guide for experiments"},
		{Kind: models.KindQuiz, Code: "BIO123", Title: "Biology Midterm", Questions: []models.Question{
			{Text: "What is the powerhouse of the cell?", Options: []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi apparatus"}, CorrectOption: 1},
			{Text: "Which of these is NOT a plant cell structure?", Options: []string{"Cell wall", "Chloroplast", "Flagellum", "Vacuole"}, CorrectOption: 2},
		}},
		{Kind: models.KindAttendance, Code: "MTH101", Title: "Mathematics 101", ClassName: "Mathematics 101", SessionDate: "2025-04-15"},
		{Kind: models.KindAttendance, Code: "PHYS22", Title: "Physics Lab", ClassName: "Physics Lab", SessionDate: "2025-04-16"},
	}

	seeded := 0
	for _, r := range demo {
		var count int64
		if err := db.Model(&models.Resource{}).Where("code = ?", r.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		rec := r
		rec.OwnerIDRef = owner.UserID
		if err := db.Create(&rec).Error; err != nil {
			return err
		}
		seeded++
	}
	if seeded > 0 {
		log.Info("seeded demo resources", zap.Int("count", seeded))
	}
	return nil
}

// SeedDashboards stores the default tab layout for both roles.
func SeedDashboards(db *gorm.DB, log *zap.Logger) error {
	screens := map[string]string{
		models.RoleTeacher: `{"schema_version":1,"role":"teacher","title":"Teacher Dashboard","greeting":"Welcome, {{full_name}}","tabs":[{"id":"materials","label":"Materials","actions":[{"type":"http","method":"POST","url":"/api/v1/teacher/materials","auth":"bearer"},{"type":"http","method":"GET","url":"/api/v1/teacher/materials","auth":"bearer"}]},{"id":"quizzes","label":"Quizzes","actions":[{"type":"http","method":"POST","url":"/api/v1/teacher/quizzes","auth":"bearer"},{"type":"http","method":"GET","url":"/api/v1/teacher/quizzes","auth":"bearer"}]},{"id":"attendance","label":"Attendance","actions":[{"type":"http","method":"POST","url":"/api/v1/teacher/attendance","auth":"bearer"},{"type":"ws","url":"/api/v1/teacher/attendance/live","auth":"bearer"}]}]}`,
		models.RoleStudent: `{"schema_version":1,"role":"student","title":"Student Dashboard","greeting":"Welcome, {{full_name}}","tabs":[{"id":"materials","label":"Materials","actions":[{"type":"http","method":"POST","url":"/api/v1/student/redeem","auth":"bearer","body":{"kind":"material"}},{"type":"http","method":"GET","url":"/api/v1/student/resources?kind=material","auth":"bearer"}]},{"id":"quizzes","label":"Quizzes","actions":[{"type":"http","method":"POST","url":"/api/v1/student/redeem","auth":"bearer","body":{"kind":"quiz"}},{"type":"http","method":"GET","url":"/api/v1/student/resources?kind=quiz","auth":"bearer"}]},{"id":"attendance","label":"Attendance","actions":[{"type":"http","method":"POST","url":"/api/v1/student/attendance/check-in","auth":"bearer"}]}]}`,
	}

	for role, payload := range screens {
		var count int64
		if err := db.Model(&models.DashboardScreen{}).
			Where("role = ? AND screen_version = ?", role, 1).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		rec := models.DashboardScreen{
			Role:          role,
			ScreenVersion: 1,
			Active:        true,
			Payload:       []byte(payload),
		}
		if err := db.Create(&rec).Error; err != nil {
			return err
		}
	}
	log.Info("seeded dashboard screens", zap.Strings("roles", []string{models.RoleTeacher, models.RoleStudent}))
	return nil
}
