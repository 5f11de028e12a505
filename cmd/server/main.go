package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zaqqye/eduapp_backend/internal/config"
	"github.com/zaqqye/eduapp_backend/internal/database"
	"github.com/zaqqye/eduapp_backend/internal/middleware"
	"github.com/zaqqye/eduapp_backend/internal/quiz"
	"github.com/zaqqye/eduapp_backend/internal/registry"
	"github.com/zaqqye/eduapp_backend/internal/routes"
	"github.com/zaqqye/eduapp_backend/internal/storage"
	"github.com/zaqqye/eduapp_backend/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	teacher, err := database.SeedTeacher(db, cfg, log)
	if err != nil {
		log.Fatal("teacher seed failed", zap.Error(err))
	}
	if cfg.SeedDemo {
		if err := database.SeedDemoResources(db, teacher, log); err != nil {
			log.Fatal("demo seed failed", zap.Error(err))
		}
	}
	if err := database.SeedDashboards(db, log); err != nil {
		log.Fatal("dashboard seed failed", zap.Error(err))
	}

	store, err := newStore(cfg, log)
	if err != nil {
		log.Fatal("object storage setup failed", zap.Error(err))
	}

	hub := ws.NewAttendanceHub(log)
	go hub.Run()

	svc := routes.Services{
		Log: log,
		Registry: registry.NewService(db, log, registry.Options{
			CodeLength:  cfg.AccessCodeLength,
			MaxAttempts: cfg.AccessCodeRetries,
		}),
		Attempts: quiz.NewAttempts(db, log),
		Store:    store,
		Hub:      hub,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))
	routes.Register(r, db, cfg, svc)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	log.Info("listening", zap.String("port", port), zap.String("storage", cfg.StorageDriver), zap.String("db", cfg.DBDriver))
	if err := r.Run(":" + port); err != nil {
		log.Error("server exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func newStore(cfg *config.Config, log *zap.Logger) (storage.ObjectStore, error) {
	if cfg.StorageDriver == "oss" {
		store, err := storage.NewOSSStore(storage.OSSConfig{
			Endpoint:   cfg.OSSEndpoint,
			AccessKey:  cfg.OSSAccessKey,
			SecretKey:  cfg.OSSSecretKey,
			Bucket:     cfg.OSSBucket,
			PublicBase: cfg.OSSPublicBase,
		}, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	log.Warn("using in-process object storage; files are lost on restart")
	return storage.NewMemoryStore("/files"), nil
}
