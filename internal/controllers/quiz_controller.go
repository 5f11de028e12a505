package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zaqqye/eduapp_backend/internal/models"
	"github.com/zaqqye/eduapp_backend/internal/quiz"
	"github.com/zaqqye/eduapp_backend/internal/registry"
)

type QuizController struct {
	Registry *registry.Service
	Attempts *quiz.Attempts
	Log      *zap.Logger
}

type questionRequest struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

type createQuizRequest struct {
	Title     string            `json:"title" binding:"required"`
	Questions []questionRequest `json:"questions"`
}

type answerRequest struct {
	Option *int `json:"option" binding:"required"`
}

func (q *QuizController) Create(c *gin.Context) {
	user := mustUser(c)
	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	questions := make([]models.Question, 0, len(req.Questions))
	for _, qr := range req.Questions {
		questions = append(questions, models.Question{Text: qr.Text, Options: qr.Options, CorrectOption: qr.CorrectOption})
	}
	rec, err := q.Registry.Register(c.Request.Context(), user.UserID, req.Title, registry.QuizPayload{Questions: questions})
	if err != nil {
		respondError(c, q.Log, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(rec, true))
}

func (q *QuizController) ListMine(c *gin.Context) {
	user := mustUser(c)
	opts := listOptions(c)
	items, total, err := q.Registry.ListByOwner(c.Request.Context(), user.UserID, models.KindQuiz, opts)
	if err != nil {
		respondError(c, q.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": viewsOf(items, true), "meta": listMeta(opts, total)})
}

// Get returns one of the teacher's quizzes with its answer key.
func (q *QuizController) Get(c *gin.Context) {
	user := mustUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	rec, err := q.Registry.GetOwned(c.Request.Context(), id, user.UserID, models.KindQuiz)
	if err != nil {
		respondError(c, q.Log, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(rec, true))
}

// StartAttempt opens an attempt on a quiz the student has redeemed, or
// returns the one already in progress.
func (q *QuizController) StartAttempt(c *gin.Context) {
	user := mustUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	ctx := c.Request.Context()
	rec, err := q.Registry.Get(ctx, id)
	if err != nil {
		respondError(c, q.Log, err)
		return
	}
	if rec.Kind != models.KindQuiz {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	redeemed, err := q.Registry.IsRedeemed(ctx, user.UserID, rec.ID)
	if err != nil {
		respondError(c, q.Log, err)
		return
	}
	if !redeemed {
		c.JSON(http.StatusForbidden, gin.H{"error": "redeem the quiz access code first"})
		return
	}

	att, created, err := q.Attempts.Start(ctx, user.UserID, rec)
	if err != nil {
		respondError(c, q.Log, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, quiz.View(att, rec))
}

func (q *QuizController) GetAttempt(c *gin.Context) {
	user := mustUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "attempt not found"})
		return
	}
	ctx := c.Request.Context()
	att, err := q.Attempts.Get(ctx, user.UserID, id)
	if err != nil {
		respondError(c, q.Log, err)
		return
	}
	rec, err := q.Registry.Get(ctx, att.ResourceIDRef)
	if err != nil {
		respondError(c, q.Log, err)
		return
	}
	c.JSON(http.StatusOK, quiz.View(att, rec))
}

// Answer records the selected option for the attempt's current question.
func (q *QuizController) Answer(c *gin.Context) {
	user := mustUser(c)
	id, ok := idParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "attempt not found"})
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	att, rec, err := q.Attempts.Answer(c.Request.Context(), user.UserID, id, *req.Option)
	if err != nil {
		respondError(c, q.Log, err)
		return
	}
	c.JSON(http.StatusOK, quiz.View(att, rec))
}
