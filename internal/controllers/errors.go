package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zaqqye/eduapp_backend/internal/quiz"
	"github.com/zaqqye/eduapp_backend/internal/registry"
)

// storageError marks a failed call to the object store.
type storageError struct{ err error }

func (e *storageError) Error() string { return "object storage: " + e.err.Error() }
func (e *storageError) Unwrap() error { return e.err }

// respondError maps domain errors to status codes. Anything unrecognised is
// logged and reported as 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var verr *registry.ValidationError
	var serr *storageError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
	case errors.Is(err, registry.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, registry.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid access code"})
	case errors.Is(err, registry.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, quiz.ErrAttemptNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "attempt not found"})
	case errors.Is(err, registry.ErrCodeSpaceExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": "could not allocate a unique access code, retry"})
	case errors.Is(err, quiz.ErrInvalidOption), errors.Is(err, quiz.ErrNoQuestions):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, quiz.ErrAttemptCompleted), errors.Is(err, quiz.ErrNotInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &serr):
		log.Error("object storage call failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "object storage unavailable"})
	default:
		log.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
