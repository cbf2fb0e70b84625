package quiz

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/studyquiz/internal/aiquiz"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Quiz struct {
	ID              uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID                       `gorm:"type:uuid;not null;index:idx_quizzes_user_status,priority:1" json:"user_id"`
	Title           string                          `gorm:"type:text;not null" json:"title"`
	QuizType        aiquiz.QuizType                 `gorm:"type:text;not null" json:"quiz_type"`
	Difficulty      aiquiz.Difficulty               `gorm:"type:text;not null" json:"difficulty"`
	TimeLimit       *int                            `json:"time_limit"`
	Questions       datatypes.JSONSlice[Question]   `gorm:"type:jsonb" json:"questions,omitempty"`
	SourceFiles     datatypes.JSONSlice[SourceFile] `gorm:"type:jsonb" json:"source_files"`
	Status          Status                          `gorm:"type:text;not null;index:idx_quizzes_user_status,priority:2" json:"status"`
	GenerationError *string                         `gorm:"type:text" json:"generation_error"`
	CreatedAt       time.Time                       `json:"created_at"`
	UpdatedAt       time.Time                       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt                  `gorm:"index" json:"-"`
}

// Question is stored inside the quiz row and never changes once the quiz
// has completed.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	QuestionText  string          `json:"question_text"`
	QuestionType  aiquiz.QuizType `json:"question_type"`
	Options       []string        `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
	Explanation   string          `json:"explanation"`
}

type SourceFile struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"file_path"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

func (q *Quiz) QuestionByID(id uuid.UUID) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

func questionsFrom(generated []aiquiz.GeneratedQuestion) []Question {
	out := make([]Question, 0, len(generated))
	for _, g := range generated {
		options := g.Options
		if options == nil {
			options = []string{}
		}
		out = append(out, Question{
			ID:            uuid.New(),
			QuestionText:  g.QuestionText,
			QuestionType:  g.QuestionType,
			Options:       options,
			CorrectAnswer: g.CorrectAnswer,
			Explanation:   g.Explanation,
		})
	}
	return out
}
