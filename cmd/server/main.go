package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saulo-duarte/studyquiz/internal/config"
	"github.com/saulo-duarte/studyquiz/internal/container"
	"github.com/saulo-duarte/studyquiz/internal/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx := context.Background()
	c := container.New(ctx)

	handler := router.New(router.RouterConfig{
		UploadHandler:  c.UploadContainer.Handler,
		QuizHandler:    c.QuizContainer.Handler,
		AttemptHandler: c.AttemptContainer.Handler,
		AuthHandler:    c.AuthHandler,
		AllowedOrigins: c.Settings.AllowedOrigins,
		Health:         c.Health,
	})

	srv := &http.Server{
		Addr:              ":" + c.Settings.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		config.Logger.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.WithError(err).Fatal("Server failed")
		}
	}()

	<-shutdownChan
	config.Logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.WithError(err).Error("Error shutting down HTTP server")
	}
	c.Shutdown(shutdownCtx)

	config.Logger.Info("Server exited")
}
