package attempt_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/saulo-duarte/studyquiz/internal/attempt"
	"github.com/saulo-duarte/studyquiz/internal/events"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
)

type memoryRepo struct {
	mu       sync.Mutex
	attempts []attempt.QuizAttempt
	err      error
}

func (m *memoryRepo) Create(_ context.Context, a *attempt.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.attempts = append(m.attempts, *a)
	return nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]attempt.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attempt.QuizAttempt
	for _, a := range m.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*attempt.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.attempts {
		if a.ID == id && a.UserID == userID {
			cp := a
			return &cp, nil
		}
	}
	return nil, attempt.ErrAttemptNotFound
}

type quizFinder struct {
	quizzes []quiz.Quiz
}

func (f *quizFinder) FindCompleted(_ context.Context, id, userID uuid.UUID) (*quiz.Quiz, error) {
	for _, q := range f.quizzes {
		if q.ID == id && q.UserID == userID && q.Status == quiz.StatusCompleted {
			cp := q
			return &cp, nil
		}
	}
	return nil, quiz.ErrQuizNotFound
}

type recordingPublisher struct {
	mu       sync.Mutex
	attempts []*events.AttemptEvent
}

func (p *recordingPublisher) PublishQuizGenerated(context.Context, *events.QuizEvent) error {
	return nil
}

func (p *recordingPublisher) PublishQuizFailed(context.Context, *events.QuizEvent) error {
	return nil
}

func (p *recordingPublisher) PublishAttemptSubmitted(_ context.Context, e *events.AttemptEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts = append(p.attempts, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func completedQuiz(userID uuid.UUID) quiz.Quiz {
	return quiz.Quiz{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Quiz - 3/1/2025",
		QuizType:  "multiple-choice",
		Status:    quiz.StatusCompleted,
		Questions: threeQuestions(),
	}
}
