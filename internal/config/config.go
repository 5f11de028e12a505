package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port   string
	AppEnv string
	// debug, info, warn, error
	LogLevel string

	DBDriver   string // postgres or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	JWTSecret    string
	JWTExpiresIn string // minutes

	TeacherEmail    string
	TeacherPassword string
	TeacherFullName string

	// Access codes
	AccessCodeLength  int
	AccessCodeRetries int

	// Materials / object storage
	MaxUploadMB   int
	StorageDriver string // memory or oss
	OSSEndpoint   string
	OSSAccessKey  string
	OSSSecretKey  string
	OSSBucket     string
	OSSPublicBase string
	OSSPrefix     string

	DashboardHMACSecret string
	SeedDemo            bool
}

func Load() *Config {
	return &Config{
		Port:     getenv("PORT", "8080"),
		AppEnv:   getenv("APP_ENV", "development"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "eduapp_db"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
		SQLitePath: getenv("SQLITE_PATH", "eduapp.db"),

		JWTSecret:    getenv("JWT_SECRET", "supersecret_change_me"),
		JWTExpiresIn: getenv("JWT_EXPIRES_IN", "120"),

		TeacherEmail:    getenv("TEACHER_EMAIL", "teacher@example.com"),
		TeacherPassword: getenv("TEACHER_PASSWORD", "teacher123"),
		TeacherFullName: getenv("TEACHER_FULL_NAME", "Demo Teacher"),

		AccessCodeLength:  getenvInt("ACCESS_CODE_LENGTH", 6),
		AccessCodeRetries: getenvInt("ACCESS_CODE_RETRIES", 5),

		MaxUploadMB:   getenvInt("MAX_UPLOAD_MB", 20),
		StorageDriver: strings.ToLower(getenv("STORAGE_DRIVER", "memory")),
		OSSEndpoint:   getenv("OSS_ENDPOINT", ""),
		OSSAccessKey:  getenv("OSS_ACCESS_KEY", ""),
		OSSSecretKey:  getenv("OSS_SECRET_KEY", ""),
		OSSBucket:     getenv("OSS_BUCKET", ""),
		OSSPublicBase: getenv("OSS_PUBLIC_BASE", ""),
		OSSPrefix:     getenv("OSS_PREFIX", "materials"),

		DashboardHMACSecret: getenv("DASHBOARD_HMAC_SECRET", ""),
		SeedDemo:            getenvBool("SEED_DEMO", true),
	}
}

// IsProduction reports whether the service runs with production defaults
// (JSON logs, gin release mode).
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c *Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
