package quiz

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/eduapp_backend/internal/database"
	"github.com/zaqqye/eduapp_backend/internal/models"
)

func setupAttempts(t *testing.T) (*Attempts, *gorm.DB, *models.Resource) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	quiz := &models.Resource{Kind: models.KindQuiz, Code: "BIO123", Title: "Biology Midterm", Questions: biologyMidterm()}
	require.NoError(t, db.Create(quiz).Error)
	return NewAttempts(db, zap.NewNop()), db, quiz
}

func TestAttempts_FullWalk(t *testing.T) {
	attempts, _, quiz := setupAttempts(t)
	ctx := context.Background()

	att, created, err := attempts.Start(ctx, "student-1", quiz)
	require.NoError(t, err)
	assert.True(t, created)
	v := View(att, quiz)
	assert.Equal(t, InProgress, v.State)
	require.NotNil(t, v.Question)
	assert.Equal(t, 0, v.Question.Index)
	assert.Nil(t, v.Score)

	again, created, err := attempts.Start(ctx, "student-1", quiz)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, att.ID, again.ID)

	att, _, err = attempts.Answer(ctx, "student-1", att.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.AttemptInProgress, att.Status)
	assert.Equal(t, 1, att.CurrentIndex)

	_, _, err = attempts.Answer(ctx, "student-1", att.ID, 9)
	assert.ErrorIs(t, err, ErrInvalidOption)

	att, q, err := attempts.Answer(ctx, "student-1", att.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, models.AttemptCompleted, att.Status)
	assert.Equal(t, 2, att.Score)
	assert.NotNil(t, att.CompletedAt)

	v = View(att, q)
	assert.Equal(t, Completed, v.State)
	assert.Nil(t, v.Question)
	require.NotNil(t, v.Score)
	assert.Equal(t, 2, *v.Score)
	assert.Equal(t, 2, v.Total)

	_, _, err = attempts.Answer(ctx, "student-1", att.ID, 0)
	assert.ErrorIs(t, err, ErrAttemptCompleted)

	next, created, err := attempts.Start(ctx, "student-1", quiz)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, att.ID, next.ID)
}

func TestAttempts_ScopedToStudent(t *testing.T) {
	attempts, _, quiz := setupAttempts(t)
	ctx := context.Background()

	att, _, err := attempts.Start(ctx, "student-1", quiz)
	require.NoError(t, err)

	_, err = attempts.Get(ctx, "student-2", att.ID)
	assert.ErrorIs(t, err, ErrAttemptNotFound)
	_, _, err = attempts.Answer(ctx, "student-2", att.ID, 1)
	assert.ErrorIs(t, err, ErrAttemptNotFound)

	got, err := attempts.Get(ctx, "student-1", att.ID)
	require.NoError(t, err)
	assert.Equal(t, att.ID, got.ID)
}

func TestAttempts_StartRejectsNonQuiz(t *testing.T) {
	attempts, db, _ := setupAttempts(t)
	material := &models.Resource{Kind: models.KindMaterial, Code: "BIO101", Title: "Introduction to Biology"}
	require.NoError(t, db.Create(material).Error)

	_, _, err := attempts.Start(context.Background(), "student-1", material)
	assert.Error(t, err)
}

func TestAttempts_ConcurrentStartsShareOneAttempt(t *testing.T) {
	attempts, db, quiz := setupAttempts(t)
	ctx := context.Background()

	const n = 8
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			att, _, err := attempts.Start(ctx, "student-1", quiz)
			errs[i] = err
			if att != nil {
				ids[i] = att.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	var open int64
	require.NoError(t, db.Model(&models.QuizAttempt{}).
		Where("student_id_ref = ? AND resource_id_ref = ? AND status = ?", "student-1", quiz.ID, models.AttemptInProgress).
		Count(&open).Error)
	assert.Equal(t, int64(1), open)
}

func TestAttempts_OpenAttemptIsUnique(t *testing.T) {
	_, db, quiz := setupAttempts(t)

	first := models.QuizAttempt{StudentIDRef: "student-1", ResourceIDRef: quiz.ID, Status: models.AttemptInProgress, Total: 2}
	require.NoError(t, db.Create(&first).Error)
	second := models.QuizAttempt{StudentIDRef: "student-1", ResourceIDRef: quiz.ID, Status: models.AttemptInProgress, Total: 2}
	err := db.Create(&second).Error
	assert.True(t, database.IsUniqueViolation(err), "got %v", err)

	// completed attempts are history and do not count
	done := models.QuizAttempt{StudentIDRef: "student-1", ResourceIDRef: quiz.ID, Status: models.AttemptCompleted, Total: 2}
	require.NoError(t, db.Create(&done).Error)
	again := models.QuizAttempt{StudentIDRef: "student-1", ResourceIDRef: quiz.ID, Status: models.AttemptCompleted, Total: 2}
	require.NoError(t, db.Create(&again).Error)
}
