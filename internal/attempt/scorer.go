package attempt

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
)

var (
	ErrQuestionNotFound = errors.New("question not found in quiz")
	ErrDuplicateAnswer  = errors.New("question answered more than once")
)

type Result struct {
	Answers        []Answer
	Score          int
	TotalQuestions int
	CorrectAnswers int
	TimeTaken      int
}

// Score grades answers against the quiz questions. Answers are compared
// verbatim and the score is taken over every question in the quiz, so
// unanswered questions count as wrong.
func Score(questions []quiz.Question, answers []AnswerInput, startedAt, completedAt time.Time) (Result, error) {
	byID := make(map[uuid.UUID]quiz.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	res := Result{
		Answers:        make([]Answer, 0, len(answers)),
		TotalQuestions: len(questions),
	}
	seen := make(map[uuid.UUID]bool, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrQuestionNotFound, a.QuestionID)
		}
		if seen[a.QuestionID] {
			return Result{}, fmt.Errorf("%w: %s", ErrDuplicateAnswer, a.QuestionID)
		}
		seen[a.QuestionID] = true

		correct := q.CorrectAnswer == a.UserAnswer
		if correct {
			res.CorrectAnswers++
		}

		spent := 0
		if a.TimeSpent != nil {
			spent = *a.TimeSpent
		}
		res.Answers = append(res.Answers, Answer{
			QuestionID: a.QuestionID,
			UserAnswer: a.UserAnswer,
			IsCorrect:  correct,
			TimeSpent:  spent,
		})
	}

	if res.TotalQuestions > 0 {
		res.Score = int(math.Round(float64(res.CorrectAnswers) / float64(res.TotalQuestions) * 100))
	}
	res.TimeTaken = int(math.Floor(completedAt.Sub(startedAt).Seconds()))
	return res, nil
}
