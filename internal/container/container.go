package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/prepmate-api/internal/admin"
	"github.com/saulo-duarte/prepmate-api/internal/aiquiz"
	"github.com/saulo-duarte/prepmate-api/internal/auth"
	"github.com/saulo-duarte/prepmate-api/internal/config"
	"github.com/saulo-duarte/prepmate-api/internal/router"
	"github.com/saulo-duarte/prepmate-api/internal/student"
	"github.com/saulo-duarte/prepmate-api/internal/subject"
	"gorm.io/gorm"
)

const devJWTSecret = "prepmate-dev-secret-change-me"

type Container struct {
	Config           config.Config
	SubjectContainer *subject.SubjectContainer
	StudentContainer *student.StudentContainer
	AdminContainer   *admin.AdminContainer
	AIQuizContainer  *aiquiz.AIQuizContainer

	redis *redis.Client
}

// New loads configuration, connects to the database and wires every feature.
func New(ctx context.Context) (*Container, error) {
	config.Init()
	cfg := config.FromEnv()
	log := config.WithContext(ctx)

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, using development secret")
		auth.InitWithSecret(devJWTSecret)
	} else {
		auth.Init()
	}

	if err := config.Connect(ctx, cfg.DBDriver, cfg.DatabaseDSN); err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	c, err := Build(ctx, config.DB, cfg)
	if err != nil {
		return nil, err
	}
	c.AIQuizContainer = aiquiz.NewAIQuizContainer(ctx, "")
	return c, nil
}

// Build migrates db and wires the persistence-backed features.
func Build(ctx context.Context, db *gorm.DB, cfg config.Config) (*Container, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}

	var cache subject.Cache = subject.NewNoopCache()
	if cfg.RedisURL != "" {
		redisCache, rdb, err := subject.NewRedisCacheFromURL(ctx, cfg.RedisURL)
		if err != nil {
			config.WithContext(ctx).WithError(err).Warn("redis unavailable, subject cache disabled")
		} else {
			cache = redisCache
			c.redis = rdb
		}
	}

	c.SubjectContainer = subject.NewSubjectContainer(db, cache)
	c.StudentContainer = student.NewStudentContainer(db)
	c.AdminContainer = admin.NewAdminContainer(db, cfg.AdminPasscode)
	return c, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&subject.Subject{},
		&student.Student{},
		&student.Result{},
		&admin.AdminConfig{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (c *Container) RouterConfig() router.RouterConfig {
	rc := router.RouterConfig{
		SubjectHandler:    c.SubjectContainer.Handler,
		StudentHandler:    c.StudentContainer.Handler,
		AdminHandler:      c.AdminContainer.Handler,
		CORSOrigins:       c.Config.CORSOrigins,
		RequireAdminToken: c.Config.RequireAdminToken,
	}
	if c.AIQuizContainer != nil {
		rc.AIQuizHandler = c.AIQuizContainer.Handler
	}
	return rc
}

func (c *Container) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
