package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/eduapp_backend/internal/config"
	"github.com/zaqqye/eduapp_backend/internal/controllers"
	"github.com/zaqqye/eduapp_backend/internal/middleware"
	"github.com/zaqqye/eduapp_backend/internal/models"
	"github.com/zaqqye/eduapp_backend/internal/quiz"
	"github.com/zaqqye/eduapp_backend/internal/registry"
	"github.com/zaqqye/eduapp_backend/internal/storage"
	"github.com/zaqqye/eduapp_backend/internal/ws"
)

// Services are the long-lived collaborators built in main.
type Services struct {
	Log      *zap.Logger
	Registry *registry.Service
	Attempts *quiz.Attempts
	Store    storage.ObjectStore
	Hub      *ws.AttendanceHub
}

// AuthConfig derives token settings from cfg; JWT_EXPIRES_IN is in minutes.
func AuthConfig(cfg *config.Config) middleware.AuthConfig {
	expiresMins, err := time.ParseDuration(cfg.JWTExpiresIn + "m")
	if err != nil || expiresMins <= 0 {
		expiresMins = 60 * time.Minute
	}
	return middleware.AuthConfig{JWTSecret: cfg.JWTSecret, JWTExpiresIn: expiresMins}
}

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config, svc Services) {
	log := svc.Log
	if log == nil {
		log = zap.NewNop()
	}
	authCfg := AuthConfig(cfg)
	if err := controllers.RegisterValidators(); err != nil {
		log.Error("register validators", zap.Error(err))
	}

	// Controllers
	authCtrl := &controllers.AuthController{DB: db, Log: log, Registry: svc.Registry, Hub: svc.Hub, Auth: authCfg}
	materialCtrl := &controllers.MaterialController{
		Registry:       svc.Registry,
		Store:          svc.Store,
		Log:            log,
		Prefix:         cfg.OSSPrefix,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}
	quizCtrl := &controllers.QuizController{Registry: svc.Registry, Attempts: svc.Attempts, Log: log}
	attendanceCtrl := &controllers.AttendanceController{Registry: svc.Registry, Hub: svc.Hub, Log: log}
	redeemCtrl := &controllers.RedeemController{Registry: svc.Registry, Hub: svc.Hub, Log: log}
	dashCtrl := &controllers.DashboardController{DB: db, Cfg: cfg, Log: log}
	cfgCtrl := &controllers.ConfigController{Cfg: cfg, Registry: svc.Registry}

	r.GET("/healthz", controllers.Healthz)
	if mem, ok := svc.Store.(*storage.MemoryStore); ok {
		r.GET("/files/*key", controllers.ServeFile(mem))
	}

	// Public
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/teacher/register", authCtrl.TeacherRegister)
		auth.POST("/teacher/login", authCtrl.TeacherLogin)
		auth.POST("/student/login", authCtrl.StudentLogin)
	}
	r.GET("/api/v1/healthz", controllers.Healthz)
	r.GET("/api/v1/config/public", cfgCtrl.Get)
	r.GET("/api/v1/dashboards/:role", middleware.OptionalAuth(db, authCfg), dashCtrl.Get)

	// Protected
	api := r.Group("/api/v1", middleware.AuthMiddleware(db, authCfg))
	{
		api.GET("/auth/me", authCtrl.Me)
		api.POST("/auth/logout", authCtrl.Logout)
		api.GET("/dashboard", dashCtrl.Mine)

		teacher := api.Group("/teacher", middleware.RequireRoles(models.RoleTeacher))
		{
			teacher.POST("/materials", materialCtrl.Upload)
			teacher.GET("/materials", materialCtrl.ListMine)

			teacher.POST("/quizzes", quizCtrl.Create)
			teacher.GET("/quizzes", quizCtrl.ListMine)
			teacher.GET("/quizzes/:id", quizCtrl.Get)

			teacher.POST("/attendance", attendanceCtrl.Create)
			teacher.GET("/attendance", attendanceCtrl.ListMine)
			teacher.GET("/attendance/live", ws.AttendanceHandler(svc.Hub))
			teacher.GET("/attendance/:id/students", attendanceCtrl.Students)
			teacher.GET("/attendance/:id/qr", attendanceCtrl.QR)
		}

		student := api.Group("/student", middleware.RequireRoles(models.RoleStudent))
		{
			student.POST("/redeem", redeemCtrl.Redeem)
			student.GET("/resources", redeemCtrl.ListResources)
			student.GET("/materials/:id/files", materialCtrl.ListFiles)
			student.POST("/quizzes/:id/attempts", quizCtrl.StartAttempt)
			student.GET("/attempts/:id", quizCtrl.GetAttempt)
			student.POST("/attempts/:id/answer", quizCtrl.Answer)
			student.POST("/attendance/check-in", attendanceCtrl.CheckIn)
		}
	}
}
