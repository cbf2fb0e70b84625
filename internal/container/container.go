package container

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/saulo-duarte/studyquiz/internal/aiquiz"
	"github.com/saulo-duarte/studyquiz/internal/attempt"
	"github.com/saulo-duarte/studyquiz/internal/auth"
	"github.com/saulo-duarte/studyquiz/internal/config"
	"github.com/saulo-duarte/studyquiz/internal/events"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
	"github.com/saulo-duarte/studyquiz/internal/ratelimit"
	"github.com/saulo-duarte/studyquiz/internal/storage"
	"github.com/saulo-duarte/studyquiz/internal/upload"
)

type Container struct {
	Settings         *config.Settings
	AuthHandler      *auth.Handler
	UploadContainer  *upload.UploadContainer
	AIQuizContainer  *aiquiz.AIQuizContainer
	QuizContainer    *quiz.QuizContainer
	AttemptContainer *attempt.AttemptContainer
	Publisher        events.Publisher

	redis *redis.Client
}

func New(ctx context.Context) *Container {
	config.Init()
	settings := config.Load()
	auth.Init()

	if err := config.Connect(ctx, settings.DatabaseDSN); err != nil {
		config.Logger.WithError(err).Fatal("Failed to connect to DB")
	}
	if err := migrate(config.DB); err != nil {
		config.Logger.WithError(err).Fatal("Failed to migrate database")
	}

	store := newStore(ctx, settings)

	publisher, err := events.NewEventPublisher(settings.RabbitMQURI, settings.RabbitMQExchange)
	if err != nil {
		config.Logger.WithError(err).Fatal("Failed to initialize event publisher")
	}

	limiter, redisClient := newLimiter(ctx, settings)

	aiQuizContainer, err := aiquiz.NewAIQuizContainer(ctx, settings)
	if err != nil {
		config.Logger.WithError(err).Fatal("Failed to initialize AI provider")
	}

	uploadContainer := upload.NewUploadContainer(config.DB, store, settings.MaxUploadBytes)
	quizContainer := quiz.NewQuizContainer(
		config.DB,
		uploadContainer.Repo,
		aiQuizContainer.Generator,
		publisher,
		limiter,
		quiz.DispatcherConfig{
			Workers:   settings.GenerationWorkers,
			QueueSize: settings.GenerationQueueSize,
			Timeout:   settings.GenerationTimeout,
		},
	)
	attemptContainer := attempt.NewAttemptContainer(config.DB, quizContainer.Repo, publisher)

	if n, err := quizContainer.Dispatcher.FailInterrupted(ctx, time.Now()); err != nil {
		config.Logger.WithError(err).Warn("Failed to clean up interrupted generations")
	} else if n > 0 {
		config.Logger.WithField("count", n).Info("Failed quizzes interrupted by a restart")
	}
	quizContainer.Dispatcher.Start()

	return &Container{
		Settings:         settings,
		AuthHandler:      auth.NewHandler(settings.CookieDomain),
		UploadContainer:  uploadContainer,
		AIQuizContainer:  aiQuizContainer,
		QuizContainer:    quizContainer,
		AttemptContainer: attemptContainer,
		Publisher:        publisher,
		redis:            redisClient,
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&upload.UploadedFile{},
		&quiz.Quiz{},
		&attempt.QuizAttempt{},
	)
}

// newStore uses MinIO when an endpoint is configured and the local upload
// directory otherwise.
func newStore(ctx context.Context, s *config.Settings) storage.Store {
	if s.MinioEndpoint != "" {
		store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  s.MinioEndpoint,
			AccessKey: s.MinioAccessKey,
			SecretKey: s.MinioSecretKey,
			Bucket:    s.MinioBucket,
			UseSSL:    s.MinioUseSSL,
		})
		if err != nil {
			config.Logger.WithError(err).Fatal("Failed to initialize object storage")
		}
		return store
	}

	store, err := storage.NewLocalStore(s.UploadDir)
	if err != nil {
		config.Logger.WithError(err).Fatal("Failed to initialize upload directory")
	}
	return store
}

func newLimiter(ctx context.Context, s *config.Settings) (ratelimit.Limiter, *redis.Client) {
	if s.RedisAddr == "" {
		config.Logger.Warn("Redis address is empty, generation rate limit is disabled")
		return ratelimit.NewNoop(), nil
	}

	client, err := ratelimit.Connect(ctx, s.RedisAddr, s.RedisPassword)
	if err != nil {
		config.Logger.WithError(err).Warn("Redis unavailable, generation rate limit is disabled")
		return ratelimit.NewNoop(), nil
	}
	return ratelimit.NewRedisLimiter(client, s.GenerationRateLimit, s.GenerationRateEvery), client
}

// Health pings the database.
func (c *Container) Health(r *http.Request) error {
	sqlDB, err := config.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(r.Context())
}

// Shutdown drains queued generations before closing outbound connections.
func (c *Container) Shutdown(ctx context.Context) {
	if err := c.QuizContainer.Dispatcher.Shutdown(ctx); err != nil {
		config.Logger.WithError(err).Warn("Generation queue did not drain")
	}
	if err := c.Publisher.Close(); err != nil {
		config.Logger.WithError(err).Warn("Failed to close event publisher")
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			config.Logger.WithError(err).Warn("Failed to close redis client")
		}
	}
	if sqlDB, err := config.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
