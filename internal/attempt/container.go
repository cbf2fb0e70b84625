package attempt

import (
	"github.com/saulo-duarte/studyquiz/internal/events"
	"gorm.io/gorm"
)

type AttemptContainer struct {
	Repo    Repository
	Service AttemptService
	Handler *Handler
}

func NewAttemptContainer(db *gorm.DB, quizzes QuizFinder, publisher events.Publisher) *AttemptContainer {
	repo := NewRepository(db)
	service := NewService(repo, quizzes, publisher)
	handler := NewHandler(service)

	return &AttemptContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
