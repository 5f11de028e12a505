package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zaqqye/eduapp_backend/internal/config"
	"github.com/zaqqye/eduapp_backend/internal/models"
)

func TestSeed_Idempotent(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)
	cfg := &config.Config{TeacherEmail: "t@example.com", TeacherPassword: "secret123", TeacherFullName: "T"}
	log := zap.NewNop()

	teacher, err := SeedTeacher(db, cfg, log)
	require.NoError(t, err)
	again, err := SeedTeacher(db, cfg, log)
	require.NoError(t, err)
	assert.Equal(t, teacher.UserID, again.UserID)

	require.NoError(t, SeedDemoResources(db, teacher, log))
	require.NoError(t, SeedDemoResources(db, teacher, log))
	require.NoError(t, SeedDashboards(db, log))
	require.NoError(t, SeedDashboards(db, log))

	var resources int64
	require.NoError(t, db.Model(&models.Resource{}).Count(&resources).Error)
	assert.Equal(t, int64(6), resources)

	var bio models.Resource
	require.NoError(t, db.Where("code = ?", "BIO123").First(&bio).Error)
	assert.Equal(t, models.KindQuiz, bio.Kind)
	assert.Len(t, bio.Questions, 2)
	assert.Equal(t, 1, bio.Questions[0].CorrectOption)

	var screens int64
	require.NoError(t, db.Model(&models.DashboardScreen{}).Count(&screens).Error)
	assert.Equal(t, int64(2), screens)
}

func TestIsUniqueViolation(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)

	first := models.Resource{Kind: models.KindQuiz, Code: "DUPE1", Title: "a"}
	require.NoError(t, db.Create(&first).Error)
	second := models.Resource{Kind: models.KindQuiz, Code: "DUPE1", Title: "b"}
	err = db.Create(&second).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(nil))
}
