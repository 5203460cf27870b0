package config

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

type Config struct {
	Port              string
	DBDriver          string
	DatabaseDSN       string
	RedisURL          string
	AdminPasscode     string
	JWTSecret         string
	RequireAdminToken bool
	CORSOrigins       []string
	LogLevel          string
	LogFormat         string
}

const (
	DefaultPort          = "5000"
	DefaultAdminPasscode = "admin123"
)

// Init loads .env outside Lambda and configures the shared logger.
func Init() {
	if !IsLambda() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			Logger.WithError(err).Warn("could not load .env file")
		}
	}

	cfg := FromEnv()
	configureLogger(cfg.LogLevel, cfg.LogFormat)
}

func FromEnv() Config {
	return Config{
		Port:              envOr("PORT", DefaultPort),
		DBDriver:          envOr("DB_DRIVER", "postgres"),
		DatabaseDSN:       os.Getenv("DATABASE_DSN"),
		RedisURL:          os.Getenv("REDIS_URL"),
		AdminPasscode:     envOr("ADMIN_PASSCODE", DefaultAdminPasscode),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RequireAdminToken: envBool("REQUIRE_ADMIN_TOKEN", false),
		CORSOrigins:       csvOr("CORS_ORIGINS", []string{"*"}),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		LogFormat:         os.Getenv("LOG_FORMAT"),
	}
}

func IsLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func configureLogger(level, format string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)

	if format == "json" || IsLambda() {
		Logger.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// WithContext returns a log entry tagged with the chi request id, if any.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(Logger)
	if ctx == nil {
		return entry
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	return entry
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.WithError(err).Error("failed to encode response")
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
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

func csvOr(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// Message writes the {msg} error body used by every 4xx response.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"msg": msg})
}

func ServerError(w http.ResponseWriter) {
	http.Error(w, "Server Error", http.StatusInternalServerError)
}
