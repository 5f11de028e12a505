// Package quiz walks a student through a quiz one question at a time and
// scores the result.
package quiz

import (
	"github.com/pkg/errors"

	"github.com/zaqqye/eduapp_backend/internal/models"
)

type State string

const (
	NotStarted State = "not_started"
	InProgress State = "in_progress"
	Completed  State = "completed"
)

var (
	ErrNoQuestions      = errors.New("quiz has no questions")
	ErrNotInProgress    = errors.New("attempt is not in progress")
	ErrAttemptCompleted = errors.New("attempt already completed")
	ErrInvalidOption    = errors.New("selected option is out of range")
)

// Session is the state of one attempt: Answers[i] is the option recorded for
// question i, Current the question being shown.
type Session struct {
	Questions []models.Question
	Answers   []int
	Current   int
	State     State
}

func NewSession(questions []models.Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Session{Questions: questions, State: NotStarted}, nil
}

func (s *Session) Start() error {
	switch s.State {
	case InProgress:
		return nil
	case Completed:
		return ErrAttemptCompleted
	}
	s.State = InProgress
	s.Current = 0
	s.Answers = make([]int, 0, len(s.Questions))
	return nil
}

// Answer records option for the current question and moves on. Recording the
// last answer completes the session.
func (s *Session) Answer(option int) error {
	switch s.State {
	case Completed:
		return ErrAttemptCompleted
	case NotStarted:
		return ErrNotInProgress
	}
	q := s.Questions[s.Current]
	if option < 0 || option >= len(q.Options) {
		return ErrInvalidOption
	}
	s.Answers = append(s.Answers, option)
	s.Current++
	if s.Current == len(s.Questions) {
		s.State = Completed
	}
	return nil
}

// CurrentQuestion is nil unless the session is in progress.
func (s *Session) CurrentQuestion() *models.Question {
	if s.State != InProgress {
		return nil
	}
	return &s.Questions[s.Current]
}

func (s *Session) Total() int { return len(s.Questions) }

// Score counts answers equal to the canonical option.
func (s *Session) Score() int {
	return Score(s.Questions, s.Answers)
}

func Score(questions []models.Question, answers []int) int {
	correct := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectOption {
			correct++
		}
	}
	return correct
}
