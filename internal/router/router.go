package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/saulo-duarte/studyquiz/internal/attempt"
	"github.com/saulo-duarte/studyquiz/internal/auth"
	"github.com/saulo-duarte/studyquiz/internal/config"
	_ "github.com/saulo-duarte/studyquiz/internal/docs"
	"github.com/saulo-duarte/studyquiz/internal/metrics"
	"github.com/saulo-duarte/studyquiz/internal/middlewares"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
	"github.com/saulo-duarte/studyquiz/internal/upload"
)

type RouterConfig struct {
	UploadHandler  *upload.Handler
	QuizHandler    *quiz.Handler
	AttemptHandler *attempt.Handler
	AuthHandler    *auth.Handler
	AllowedOrigins []string
	// Health reports whether backing services are reachable.
	Health func(r *http.Request) error
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware(cfg.AllowedOrigins))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", health(cfg.Health))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/files", upload.Routes(cfg.UploadHandler))
		r.Mount("/quizzes", quiz.Routes(cfg.QuizHandler, cfg.AttemptHandler.Submit))
		r.Mount("/attempts", attempt.Routes(cfg.AttemptHandler))
	})
	return r
}

func health(check func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r); err != nil {
				config.WithContext(r.Context()).WithError(err).Warn("Health check failed")
				config.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
