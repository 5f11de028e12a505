package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/eduapp_backend/internal/database"
	"github.com/zaqqye/eduapp_backend/internal/models"
)

func setup(t *testing.T) (*gin.Engine, AuthConfig, models.User, models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := database.OpenMemory()
	require.NoError(t, err)

	email := "t@example.com"
	number := "S-1"
	teacher := models.User{FullName: "T", Email: &email, Role: models.RoleTeacher, Active: true}
	student := models.User{FullName: "S", StudentNumber: &number, Role: models.RoleStudent, Active: true}
	require.NoError(t, db.Create(&teacher).Error)
	require.NoError(t, db.Create(&student).Error)

	cfg := AuthConfig{JWTSecret: "test-secret", JWTExpiresIn: time.Hour}
	r := gin.New()
	api := r.Group("/api", AuthMiddleware(db, cfg))
	api.GET("/teacher", RequireRoles(models.RoleTeacher), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/open", OptionalAuth(db, cfg), func(c *gin.Context) {
		if _, ok := c.Get("user"); ok {
			c.String(http.StatusOK, "user")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r, cfg, teacher, student
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r, cfg, teacher, student := setup(t)

	teacherToken, err := IssueToken(teacher, cfg)
	require.NoError(t, err)
	studentToken, err := IssueToken(student, cfg)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/api/teacher", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/api/teacher", "garbage").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/api/teacher", studentToken).Code)
	assert.Equal(t, http.StatusOK, do(r, "/api/teacher", teacherToken).Code)

	forged, err := IssueToken(teacher, AuthConfig{JWTSecret: "other", JWTExpiresIn: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/api/teacher", forged).Code)

	expired, err := IssueToken(teacher, AuthConfig{JWTSecret: cfg.JWTSecret, JWTExpiresIn: -time.Minute})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/api/teacher", expired).Code)
}

func TestOptionalAuth(t *testing.T) {
	r, cfg, teacher, _ := setup(t)
	token, err := IssueToken(teacher, cfg)
	require.NoError(t, err)

	assert.Equal(t, "anonymous", do(r, "/open", "").Body.String())
	assert.Equal(t, "anonymous", do(r, "/open", "garbage").Body.String())
	assert.Equal(t, "user", do(r, "/open", token).Body.String())
}
