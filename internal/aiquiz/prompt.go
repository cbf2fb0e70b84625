package aiquiz

import (
	"fmt"
	"strings"
)

const (
	sourceSeparator = "\n\n---\n\n"
	truncatedMarker = "\n\n[Text truncated due to length...]"

	DefaultMaxSourceChars = 30000
)

const promptTemplate = `You are an expert educational quiz generator. Generate %[1]d %[2]s difficulty %[3]s questions based on the following study materials.

STUDY MATERIALS:
%[4]s

Generate %[1]d questions in JSON array format. Each question must have:
- question_text: the question
- question_type: "%[3]s"
- options: %[5]s
- correct_answer: the correct answer%[6]s
- explanation: brief explanation of the answer

Example:
[
  {
    "question_text": "What is the capital of France?",
    "question_type": "%[3]s",
    "options": %[7]s,
    "correct_answer": "Paris",
    "explanation": "Paris is the capital and largest city of France."
  }
]`

// JoinSources concatenates extracted texts and cuts the result to maxChars
// characters, appending a marker when anything was dropped.
func JoinSources(texts []string, maxChars int) string {
	combined := strings.Join(texts, sourceSeparator)
	if maxChars <= 0 {
		maxChars = DefaultMaxSourceChars
	}

	runes := []rune(combined)
	if len(runes) <= maxChars {
		return combined
	}
	return string(runes[:maxChars]) + truncatedMarker
}

func BuildPrompt(texts []string, s Settings, maxChars int) string {
	optionsSpec := "empty array []"
	answerSpec := ""
	exampleOptions := "[]"
	if s.QuizType == QuizTypeMultipleChoice {
		optionsSpec = "array of 4 choices"
		answerSpec = " (must match one of the options exactly)"
		exampleOptions = `["Paris", "London", "Berlin", "Madrid"]`
	}

	return fmt.Sprintf(promptTemplate,
		s.NumQuestions,
		s.Difficulty,
		s.QuizType,
		JoinSources(texts, maxChars),
		optionsSpec,
		answerSpec,
		exampleOptions,
	)
}
