package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeQuizGenerated    EventType = "quiz.generation.completed"
	EventTypeQuizFailed       EventType = "quiz.generation.failed"
	EventTypeAttemptSubmitted EventType = "quiz.attempt.submitted"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	Version   string    `json:"version"`
}

type QuizEvent struct {
	BaseEvent
	QuizID        string `json:"quizId"`
	UserID        string `json:"userId"`
	QuestionCount int    `json:"questionCount,omitempty"`
	Error         string `json:"error,omitempty"`
}

type AttemptEvent struct {
	BaseEvent
	AttemptID string `json:"attemptId"`
	QuizID    string `json:"quizId"`
	UserID    string `json:"userId"`
	Score     int    `json:"score"`
}

func newBase(t EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().Unix(),
		Version:   "1.0",
	}
}

func NewQuizGeneratedEvent(quizID, userID uuid.UUID, questionCount int) *QuizEvent {
	return &QuizEvent{
		BaseEvent:     newBase(EventTypeQuizGenerated),
		QuizID:        quizID.String(),
		UserID:        userID.String(),
		QuestionCount: questionCount,
	}
}

func NewQuizFailedEvent(quizID, userID uuid.UUID, reason string) *QuizEvent {
	return &QuizEvent{
		BaseEvent: newBase(EventTypeQuizFailed),
		QuizID:    quizID.String(),
		UserID:    userID.String(),
		Error:     reason,
	}
}

func NewAttemptSubmittedEvent(attemptID, quizID, userID uuid.UUID, score int) *AttemptEvent {
	return &AttemptEvent{
		BaseEvent: newBase(EventTypeAttemptSubmitted),
		AttemptID: attemptID.String(),
		QuizID:    quizID.String(),
		UserID:    userID.String(),
		Score:     score,
	}
}
