package attempt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/config"
	"github.com/saulo-duarte/studyquiz/internal/events"
	"github.com/saulo-duarte/studyquiz/internal/metrics"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
)

const HistoryLimit = 20

var ErrInvalidTimestamps = errors.New("startedAt and completedAt are required")

// QuizFinder returns a completed quiz owned by the user or quiz.ErrQuizNotFound.
type QuizFinder interface {
	FindCompleted(ctx context.Context, id, userID uuid.UUID) (*quiz.Quiz, error)
}

type AttemptService interface {
	Submit(ctx context.Context, userID, quizID uuid.UUID, req SubmitRequest) (*QuizAttempt, error)
	History(ctx context.Context, userID uuid.UUID) ([]QuizAttempt, error)
	Detail(ctx context.Context, id, userID uuid.UUID) (*QuizAttempt, error)
}

type attemptService struct {
	repo      Repository
	quizzes   QuizFinder
	publisher events.Publisher
}

func NewService(repo Repository, quizzes QuizFinder, publisher events.Publisher) AttemptService {
	return &attemptService{repo: repo, quizzes: quizzes, publisher: publisher}
}

func (s *attemptService) Submit(ctx context.Context, userID, quizID uuid.UUID, req SubmitRequest) (*QuizAttempt, error) {
	log := config.WithContext(ctx).WithField("user_id", userID).WithField("quiz_id", quizID)

	if req.StartedAt.IsZero() || req.CompletedAt.IsZero() {
		return nil, ErrInvalidTimestamps
	}

	q, err := s.quizzes.FindCompleted(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	result, err := Score(q.Questions, req.Answers, req.StartedAt, req.CompletedAt)
	if err != nil {
		log.WithError(err).Warn("Rejected attempt")
		return nil, err
	}

	a := &QuizAttempt{
		ID:             uuid.New(),
		QuizID:         q.ID,
		UserID:         userID,
		Answers:        result.Answers,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		TimeTaken:      result.TimeTaken,
		StartedAt:      req.StartedAt,
		CompletedAt:    req.CompletedAt,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	metrics.AttemptSubmitted()
	if s.publisher != nil {
		event := events.NewAttemptSubmittedEvent(a.ID, q.ID, userID, a.Score)
		if err := s.publisher.PublishAttemptSubmitted(ctx, event); err != nil {
			log.WithError(err).Warn("Failed to publish attempt event")
		}
	}

	log.WithField("attempt_id", a.ID).WithField("score", a.Score).Info("Attempt submitted")
	return a, nil
}

func (s *attemptService) History(ctx context.Context, userID uuid.UUID) ([]QuizAttempt, error) {
	attempts, err := s.repo.ListByUser(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []QuizAttempt{}
	}
	return attempts, nil
}

func (s *attemptService) Detail(ctx context.Context, id, userID uuid.UUID) (*QuizAttempt, error) {
	return s.repo.FindByIDAndUser(ctx, id, userID)
}
