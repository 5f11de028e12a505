package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/eduapp_backend/internal/models"
)

func biologyMidterm() []models.Question {
	return []models.Question{
		{Text: "What is the powerhouse of the cell?", Options: []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi apparatus"}, CorrectOption: 1},
		{Text: "Which of these is NOT a plant cell structure?", Options: []string{"Cell wall", "Chloroplast", "Flagellum", "Vacuole"}, CorrectOption: 2},
	}
}

func TestSession_WalkToCompletion(t *testing.T) {
	s, err := NewSession(biologyMidterm())
	require.NoError(t, err)
	assert.Equal(t, NotStarted, s.State)
	assert.Nil(t, s.CurrentQuestion())

	require.NoError(t, s.Start())
	assert.Equal(t, InProgress, s.State)
	assert.Equal(t, "What is the powerhouse of the cell?", s.CurrentQuestion().Text)

	require.NoError(t, s.Answer(1))
	assert.Equal(t, InProgress, s.State)
	assert.Equal(t, 1, s.Current)

	require.NoError(t, s.Answer(0))
	assert.Equal(t, Completed, s.State)
	assert.Nil(t, s.CurrentQuestion())
	assert.Equal(t, 1, s.Score())
	assert.Equal(t, 2, s.Total())

	assert.ErrorIs(t, s.Answer(1), ErrAttemptCompleted)
	assert.ErrorIs(t, s.Start(), ErrAttemptCompleted)
}

func TestSession_RejectsOutOfRangeWithoutAdvancing(t *testing.T) {
	s, err := NewSession(biologyMidterm())
	require.NoError(t, err)
	assert.ErrorIs(t, s.Answer(0), ErrNotInProgress)

	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Answer(4), ErrInvalidOption)
	assert.ErrorIs(t, s.Answer(-1), ErrInvalidOption)
	assert.Equal(t, 0, s.Current)
	assert.Empty(t, s.Answers)
}

func TestNewSession_Empty(t *testing.T) {
	_, err := NewSession(nil)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestScore_MatchesCountOfCorrectAnswers(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := 1 + r.Intn(10)
		qs := make([]models.Question, n)
		for i := range qs {
			qs[i] = models.Question{Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectOption: r.Intn(4)}
		}
		s, err := NewSession(qs)
		require.NoError(t, err)
		require.NoError(t, s.Start())

		want := 0
		for i := 0; i < n; i++ {
			pick := r.Intn(4)
			if pick == qs[i].CorrectOption {
				want++
			}
			require.NoError(t, s.Answer(pick))
		}
		assert.Equal(t, Completed, s.State)
		assert.Equal(t, want, s.Score())
		assert.GreaterOrEqual(t, s.Score(), 0)
		assert.LessOrEqual(t, s.Score(), n)
	}
}
