package quiz

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zaqqye/eduapp_backend/internal/database"
	"github.com/zaqqye/eduapp_backend/internal/models"
)

var ErrAttemptNotFound = errors.New("attempt not found")

// Attempts persists quiz sessions so a walk can span several requests.
type Attempts struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAttempts(db *gorm.DB, log *zap.Logger) *Attempts {
	if log == nil {
		log = zap.NewNop()
	}
	return &Attempts{db: db, log: log}
}

// Start opens an attempt on quiz for the student, or returns the attempt
// already in progress. created is false in the latter case.
func (a *Attempts) Start(ctx context.Context, studentID string, quiz *models.Resource) (att *models.QuizAttempt, created bool, err error) {
	if quiz.Kind != models.KindQuiz {
		return nil, false, errors.Errorf("resource %s is not a quiz", quiz.ID)
	}
	sess, err := NewSession(quiz.Questions)
	if err != nil {
		return nil, false, err
	}

	open, err := a.findOpen(ctx, studentID, quiz.ID)
	if err != nil {
		return nil, false, err
	}
	if open != nil {
		return open, false, nil
	}

	if err := sess.Start(); err != nil {
		return nil, false, err
	}
	att = &models.QuizAttempt{
		StudentIDRef:  studentID,
		ResourceIDRef: quiz.ID,
		Status:        models.AttemptInProgress,
		CurrentIndex:  sess.Current,
		Answers:       sess.Answers,
		Total:         sess.Total(),
	}
	if err := a.db.WithContext(ctx).Create(att).Error; err != nil {
		if !database.IsUniqueViolation(err) {
			return nil, false, errors.Wrap(err, "create attempt")
		}
		// a concurrent start won; hand back its attempt
		open, ferr := a.findOpen(ctx, studentID, quiz.ID)
		if ferr != nil {
			return nil, false, ferr
		}
		if open == nil {
			return nil, false, errors.Wrap(err, "create attempt")
		}
		return open, false, nil
	}
	a.log.Info("quiz attempt started", zap.String("attempt", att.ID), zap.String("quiz", quiz.ID), zap.String("student", studentID))
	return att, true, nil
}

// findOpen returns the student's in-progress attempt on quiz, or nil.
func (a *Attempts) findOpen(ctx context.Context, studentID, quizID string) (*models.QuizAttempt, error) {
	var open models.QuizAttempt
	err := a.db.WithContext(ctx).
		Where("student_id_ref = ? AND resource_id_ref = ? AND status = ?", studentID, quizID, models.AttemptInProgress).
		First(&open).Error
	if err == nil {
		return &open, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, errors.Wrap(err, "find open attempt")
}

// Get returns the student's attempt; attempts of other students are not found.
func (a *Attempts) Get(ctx context.Context, studentID, attemptID string) (*models.QuizAttempt, error) {
	var att models.QuizAttempt
	if err := a.db.WithContext(ctx).
		Where("id = ? AND student_id_ref = ?", attemptID, studentID).
		First(&att).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, errors.Wrap(err, "get attempt")
	}
	return &att, nil
}

// Answer records option for the attempt's current question. It returns the
// updated attempt and the quiz it belongs to.
func (a *Attempts) Answer(ctx context.Context, studentID, attemptID string, option int) (*models.QuizAttempt, *models.Resource, error) {
	var att models.QuizAttempt
	var quiz models.Resource
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND student_id_ref = ?", attemptID, studentID).
			First(&att).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttemptNotFound
			}
			return errors.Wrap(err, "load attempt")
		}
		if err := tx.Where("id = ?", att.ResourceIDRef).First(&quiz).Error; err != nil {
			return errors.Wrap(err, "load quiz")
		}

		sess := sessionOf(&att, quiz.Questions)
		if err := sess.Answer(option); err != nil {
			return err
		}
		att.Answers = sess.Answers
		att.CurrentIndex = sess.Current
		if sess.State == Completed {
			now := time.Now().UTC()
			att.Status = models.AttemptCompleted
			att.Score = sess.Score()
			att.CompletedAt = &now
		}
		return tx.Save(&att).Error
	})
	if err != nil {
		return nil, nil, err
	}
	if att.Status == models.AttemptCompleted {
		a.log.Info("quiz attempt completed",
			zap.String("attempt", att.ID),
			zap.Int("score", att.Score),
			zap.Int("total", att.Total),
		)
	}
	return &att, &quiz, nil
}

func sessionOf(att *models.QuizAttempt, questions []models.Question) *Session {
	state := InProgress
	if att.Status == models.AttemptCompleted {
		state = Completed
	}
	answers := make([]int, len(att.Answers))
	copy(answers, att.Answers)
	return &Session{
		Questions: questions,
		Answers:   answers,
		Current:   att.CurrentIndex,
		State:     state,
	}
}

// QuestionView is a question as shown to a student, without the answer.
type QuestionView struct {
	Index   int      `json:"index"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type AttemptView struct {
	ID          string        `json:"id"`
	QuizID      string        `json:"quiz_id"`
	QuizTitle   string        `json:"quiz_title"`
	State       State         `json:"state"`
	Current     int           `json:"current_index"`
	Total       int           `json:"total"`
	Question    *QuestionView `json:"question,omitempty"`
	Score       *int          `json:"score,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

func View(att *models.QuizAttempt, quiz *models.Resource) AttemptView {
	sess := sessionOf(att, quiz.Questions)
	v := AttemptView{
		ID:          att.ID,
		QuizID:      quiz.ID,
		QuizTitle:   quiz.Title,
		State:       sess.State,
		Current:     sess.Current,
		Total:       len(quiz.Questions),
		CompletedAt: att.CompletedAt,
	}
	if q := sess.CurrentQuestion(); q != nil {
		v.Question = &QuestionView{Index: sess.Current, Text: q.Text, Options: q.Options}
	}
	if sess.State == Completed {
		score := att.Score
		v.Score = &score
	}
	return v
}
