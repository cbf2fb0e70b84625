package aiquiz

// GeneratedQuestion is one validated item of a model response. Options is
// empty for fill-blank questions.
type GeneratedQuestion struct {
	QuestionText  string   `json:"question_text"`
	QuestionType  QuizType `json:"question_type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type Settings struct {
	QuizType     QuizType
	Difficulty   Difficulty
	NumQuestions int
}

// GenerationConfig holds the sampling parameters sent with every request.
type GenerationConfig struct {
	Model           string
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int
}
