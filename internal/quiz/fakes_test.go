package quiz_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/studyquiz/internal/events"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
	"github.com/saulo-duarte/studyquiz/internal/upload"
)

type memoryRepo struct {
	mu      sync.Mutex
	quizzes map[uuid.UUID]*quiz.Quiz
	deleted map[uuid.UUID]bool
	writes  int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{quizzes: map[uuid.UUID]*quiz.Quiz{}, deleted: map[uuid.UUID]bool{}}
}

func (m *memoryRepo) Create(_ context.Context, q *quiz.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *q
	m.quizzes[q.ID] = &cp
	return nil
}

func (m *memoryRepo) get(id, userID uuid.UUID) (*quiz.Quiz, error) {
	q, ok := m.quizzes[id]
	if !ok || q.UserID != userID || m.deleted[id] {
		return nil, quiz.ErrQuizNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *memoryRepo) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*quiz.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id, userID)
}

func (m *memoryRepo) FindStatus(ctx context.Context, id, userID uuid.UUID) (*quiz.Quiz, error) {
	return m.FindByIDAndUser(ctx, id, userID)
}

func (m *memoryRepo) FindCompleted(_ context.Context, id, userID uuid.UUID) (*quiz.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, err := m.get(id, userID)
	if err != nil {
		return nil, err
	}
	if q.Status != quiz.StatusCompleted {
		return nil, quiz.ErrQuizNotFound
	}
	return q, nil
}

func (m *memoryRepo) ListCompletedByUser(_ context.Context, userID uuid.UUID) ([]quiz.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []quiz.Quiz
	for id, q := range m.quizzes {
		if q.UserID == userID && q.Status == quiz.StatusCompleted && !m.deleted[id] {
			cp := *q
			cp.Questions = nil
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m *memoryRepo) FinishGeneration(_ context.Context, id uuid.UUID, outcome quiz.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !quiz.StatusGenerating.CanTransitionTo(outcome.Status) {
		return quiz.ErrInvalidTransition
	}
	q, ok := m.quizzes[id]
	if !ok || m.deleted[id] || q.Status != quiz.StatusGenerating {
		return quiz.ErrAlreadyTerminal
	}
	q.Status = outcome.Status
	q.Questions = outcome.Questions
	q.GenerationError = outcome.Error
	m.writes++
	return nil
}

func (m *memoryRepo) SoftDelete(_ context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.get(id, userID); err != nil {
		return err
	}
	m.deleted[id] = true
	return nil
}

func (m *memoryRepo) FailStale(_ context.Context, createdBefore time.Time, reason string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, q := range m.quizzes {
		if q.Status == quiz.StatusGenerating && q.CreatedAt.Before(createdBefore) && !m.deleted[id] {
			msg := reason
			q.Status = quiz.StatusFailed
			q.GenerationError = &msg
			n++
		}
	}
	return n, nil
}

func (m *memoryRepo) snapshot(id uuid.UUID) quiz.Quiz {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.quizzes[id]
}

func (m *memoryRepo) terminalWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type fileFinder struct {
	files []upload.UploadedFile
	err   error
}

func (f *fileFinder) FindByIDsAndUser(_ context.Context, ids []uuid.UUID, userID uuid.UUID) ([]upload.UploadedFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []upload.UploadedFile
	for _, file := range f.files {
		for _, id := range ids {
			if file.ID == id && file.UserID == userID {
				out = append(out, file)
			}
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) record(t events.EventType, quizID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, fmt.Sprintf("%s:%s", t, quizID))
}

func (p *recordingPublisher) PublishQuizGenerated(_ context.Context, e *events.QuizEvent) error {
	p.record(e.Type, e.QuizID)
	return nil
}

func (p *recordingPublisher) PublishQuizFailed(_ context.Context, e *events.QuizEvent) error {
	p.record(e.Type, e.QuizID)
	return nil
}

func (p *recordingPublisher) PublishAttemptSubmitted(_ context.Context, e *events.AttemptEvent) error {
	p.record(e.Type, e.AttemptID)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) recorded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type funcProvider func(ctx context.Context, prompt string) (string, error)

func (f funcProvider) Name() string { return "test" }

func (f funcProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func staticProvider(raw string) funcProvider {
	return func(context.Context, string) (string, error) { return raw, nil }
}

func textFile(userID uuid.UUID, text *string) upload.UploadedFile {
	id := uuid.New()
	return upload.UploadedFile{
		ID:            id,
		UserID:        userID,
		OriginalName:  "notes.txt",
		Filename:      id.String() + ".txt",
		FilePath:      "uploads/" + id.String() + ".txt",
		MimeType:      "text/plain",
		ExtractedText: text,
		IsProcessed:   text != nil && *text != "",
	}
}

func strPtr(s string) *string { return &s }
