package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/eduapp_backend/internal/database"
	"github.com/zaqqye/eduapp_backend/internal/middleware"
	"github.com/zaqqye/eduapp_backend/internal/models"
	"github.com/zaqqye/eduapp_backend/internal/registry"
	"github.com/zaqqye/eduapp_backend/internal/utils"
	"github.com/zaqqye/eduapp_backend/internal/ws"
)

type AuthController struct {
	DB       *gorm.DB
	Log      *zap.Logger
	Registry *registry.Service
	Hub      *ws.AttendanceHub
	Auth     middleware.AuthConfig
}

type teacherRegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type teacherLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type studentLoginRequest struct {
	StudentNumber StudentNumber `json:"student_number" binding:"required"`
	AccessCode    string        `json:"access_code" binding:"required,accesscode"`
	FullName      string        `json:"full_name"`
}

func (a *AuthController) TeacherRegister(c *gin.Context) {
	var req teacherRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pw, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := models.User{
		FullName: strings.TrimSpace(req.FullName),
		Email:    &email,
		Password: pw,
		Role:     models.RoleTeacher,
		Active:   true,
	}
	if err := a.DB.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		respondError(c, a.Log, errors.Wrap(err, "create teacher"))
		return
	}
	a.Log.Info("teacher registered", zap.String("user_id", user.UserID))

	c.JSON(http.StatusCreated, gin.H{
		"message":   "registered",
		"user_id":   user.UserID,
		"email":     email,
		"full_name": user.FullName,
		"role":      user.Role,
	})
}

func (a *AuthController) TeacherLogin(c *gin.Context) {
	var req teacherLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := a.DB.Where("email = ? AND role = ?", email, models.RoleTeacher).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !user.Active || !utils.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	a.respondToken(c, user, nil)
}

// StudentLogin signs a student in with their number and an access code. The
// account is created on first login and the code is redeemed on the way in;
// an unknown code rejects the login before anything is written.
func (a *AuthController) StudentLogin(c *gin.Context) {
	var req studentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	number := req.StudentNumber.String()
	if number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_number is required"})
		return
	}

	ctx := c.Request.Context()
	if _, err := a.Registry.Lookup(ctx, req.AccessCode); err != nil {
		if errors.Is(err, registry.ErrCodeNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access code"})
			return
		}
		respondError(c, a.Log, err)
		return
	}

	user, err := a.findOrCreateStudent(number, req.FullName)
	if err != nil {
		respondError(c, a.Log, err)
		return
	}
	if !user.Active {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account disabled"})
		return
	}

	res, err := a.Registry.Redeem(ctx, user.UserID, req.AccessCode, "")
	if err == nil && res.Resource.Kind == models.KindAttendance {
		res, err = a.Registry.CheckIn(ctx, user.UserID, req.AccessCode)
		if err == nil && res.Outcome == registry.OutcomeRedeemed {
			publishCheckIn(a.Hub, res.Resource, user)
		}
	}
	if err != nil {
		respondError(c, a.Log, err)
		return
	}
	a.respondToken(c, *user, res)
}

func (a *AuthController) findOrCreateStudent(number, fullName string) (*models.User, error) {
	var user models.User
	err := a.DB.Where("student_number = ? AND role = ?", number, models.RoleStudent).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "find student")
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = "Student " + number
	}
	user = models.User{
		FullName:      fullName,
		StudentNumber: &number,
		Role:          models.RoleStudent,
		Active:        true,
	}
	if err := a.DB.Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			// created by a concurrent first login
			if err := a.DB.Where("student_number = ?", number).First(&user).Error; err != nil {
				return nil, errors.Wrap(err, "reload student")
			}
			return &user, nil
		}
		return nil, errors.Wrap(err, "create student")
	}
	a.Log.Info("student account created", zap.String("user_id", user.UserID))
	return &user, nil
}

func (a *AuthController) respondToken(c *gin.Context, user models.User, redeemed *registry.RedeemResult) {
	token, err := middleware.IssueToken(user, a.Auth)
	if err != nil {
		respondError(c, a.Log, errors.Wrap(err, "sign token"))
		return
	}
	body := gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(a.Auth.JWTExpiresIn.Seconds()),
		"role":         user.Role,
		"user_id":      user.UserID,
	}
	if redeemed != nil {
		body["redeemed"] = gin.H{
			"outcome":  redeemed.Outcome,
			"message":  redeemed.Message(),
			"resource": viewOf(redeemed.Resource, false),
		}
	}
	c.JSON(http.StatusOK, body)
}

func (a *AuthController) Me(c *gin.Context) {
	user := mustUser(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id":        user.UserID,
		"email":          user.Email,
		"student_number": user.StudentNumber,
		"full_name":      user.FullName,
		"role":           user.Role,
		"active":         user.Active,
		"created_at":     user.CreatedAt,
		"updated_at":     user.UpdatedAt,
	})
}

// Logout for stateless JWT: client should discard token
func (a *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
