package quiz

import (
	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/aiquiz"
	util "github.com/saulo-duarte/studyquiz/internal/utils"
)

type GenerateQuizRequest struct {
	FileIDs      []uuid.UUID       `json:"fileIds"`
	QuizType     aiquiz.QuizType   `json:"quizType"`
	NumQuestions int               `json:"numQuestions"`
	Difficulty   aiquiz.Difficulty `json:"difficulty"`
	TimeLimit    util.TimeLimit    `json:"timeLimit"`
}

type GenerateQuizResponse struct {
	Message string    `json:"message"`
	QuizID  uuid.UUID `json:"quizId"`
	Status  Status    `json:"status"`
}

type StatusResponse struct {
	QuizID uuid.UUID `json:"quizId"`
	Status Status    `json:"status"`
	Error  *string   `json:"error"`
}

type QuizListResponse struct {
	Quizzes []Quiz `json:"quizzes"`
}

type QuizResponse struct {
	Quiz *Quiz `json:"quiz"`
}
