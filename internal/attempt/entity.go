package attempt

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/aiquiz"
	"github.com/saulo-duarte/studyquiz/internal/quiz"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizAttempt struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID         uuid.UUID                   `gorm:"type:uuid;not null;index" json:"quiz_id"`
	UserID         uuid.UUID                   `gorm:"type:uuid;not null;index:idx_quiz_attempts_user_created,priority:1" json:"user_id"`
	Answers        datatypes.JSONSlice[Answer] `gorm:"type:jsonb;not null" json:"answers"`
	Score          int                         `gorm:"not null" json:"score"`
	TotalQuestions int                         `gorm:"not null" json:"total_questions"`
	CorrectAnswers int                         `gorm:"not null" json:"correct_answers"`
	TimeTaken      int                         `gorm:"not null" json:"time_taken"`
	StartedAt      time.Time                   `gorm:"not null" json:"started_at"`
	CompletedAt    time.Time                   `gorm:"not null" json:"completed_at"`
	CreatedAt      time.Time                   `gorm:"index:idx_quiz_attempts_user_created,priority:2,sort:desc" json:"created_at"`
	DeletedAt      gorm.DeletedAt              `gorm:"index" json:"-"`

	Quiz *QuizSummary `gorm:"-" json:"quiz,omitempty"`
}

type Answer struct {
	QuestionID uuid.UUID `json:"question_id"`
	UserAnswer string    `json:"user_answer"`
	IsCorrect  bool      `json:"is_correct"`
	TimeSpent  int       `json:"time_spent"`
}

// QuizSummary is the slice of the quiz shown next to an attempt. Questions
// are only loaded for the detail view.
type QuizSummary struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	Difficulty aiquiz.Difficulty `json:"difficulty"`
	QuizType   aiquiz.QuizType   `json:"quiz_type"`
	Questions  []quiz.Question   `json:"questions,omitempty"`
}

func summaryOf(q quiz.Quiz, withQuestions bool) *QuizSummary {
	s := &QuizSummary{
		ID:         q.ID,
		Title:      q.Title,
		Difficulty: q.Difficulty,
		QuizType:   q.QuizType,
	}
	if withQuestions {
		s.Questions = q.Questions
	}
	return s
}
