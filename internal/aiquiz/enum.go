package aiquiz

type QuizType string

const (
	QuizTypeMultipleChoice QuizType = "multiple-choice"
	QuizTypeFillBlank      QuizType = "fill-blank"
)

func (t QuizType) IsValid() bool {
	switch t {
	case QuizTypeMultipleChoice, QuizTypeFillBlank:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
