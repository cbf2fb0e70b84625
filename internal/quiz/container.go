package quiz

import (
	"github.com/saulo-duarte/studyquiz/internal/aiquiz"
	"github.com/saulo-duarte/studyquiz/internal/events"
	"github.com/saulo-duarte/studyquiz/internal/ratelimit"
	"gorm.io/gorm"
)

type QuizContainer struct {
	Repo       Repository
	Service    QuizService
	Handler    *Handler
	Dispatcher *Dispatcher
}

func NewQuizContainer(
	db *gorm.DB,
	files SourceFileFinder,
	generator aiquiz.Generator,
	publisher events.Publisher,
	limiter ratelimit.Limiter,
	cfg DispatcherConfig,
) *QuizContainer {
	repo := NewRepository(db)
	dispatcher := NewDispatcher(repo, generator, publisher, cfg)
	service := NewService(repo, files, dispatcher, limiter)
	handler := NewHandler(service)

	return &QuizContainer{
		Repo:       repo,
		Service:    service,
		Handler:    handler,
		Dispatcher: dispatcher,
	}
}
