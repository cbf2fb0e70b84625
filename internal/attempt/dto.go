package attempt

import (
	"time"

	"github.com/google/uuid"
)

type AnswerInput struct {
	QuestionID uuid.UUID `json:"question_id"`
	UserAnswer string    `json:"user_answer"`
	TimeSpent  *int      `json:"time_spent"`
}

type SubmitRequest struct {
	Answers     []AnswerInput `json:"answers"`
	StartedAt   time.Time     `json:"startedAt"`
	CompletedAt time.Time     `json:"completedAt"`
}

type SubmitResponse struct {
	Message string       `json:"message"`
	Attempt *QuizAttempt `json:"attempt"`
}

type HistoryResponse struct {
	Attempts []QuizAttempt `json:"attempts"`
}

type AttemptResponse struct {
	Attempt *QuizAttempt `json:"attempt"`
}
