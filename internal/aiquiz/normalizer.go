package aiquiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/saulo-duarte/studyquiz/internal/config"
)

var (
	ErrNoJSONArray      = errors.New("no JSON array found in AI response")
	ErrEmptyArray       = errors.New("generated questions array is empty")
	ErrNoValidQuestions = errors.New("no valid questions found in AI response")
)

var (
	fencePattern         = regexp.MustCompile("(?i)```json\\s*")
	barefencePattern     = regexp.MustCompile("```\\s*")
	trailingCommaPattern = regexp.MustCompile(`,(\s*[}\]])`)

	smartQuotes = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", "'", "’", "'",
	)
)

// Normalize turns raw model output into at most requested validated
// questions. Items that fail validation are dropped; the call fails when
// fewer than half of the requested questions survive. An item whose
// question_type is present but unrecognised is read as fallback.
func Normalize(raw string, requested int, fallback QuizType) ([]GeneratedQuestion, error) {
	parsed, err := decode(raw)
	if err != nil {
		cleaned, cerr := cleanup(raw)
		if cerr != nil {
			return nil, cerr
		}
		if parsed, err = decode(cleaned); err != nil {
			return nil, fmt.Errorf("JSON parsing failed: %w", err)
		}
	}

	items, ok := parsed.([]any)
	if !ok {
		return nil, fmt.Errorf("generated response is not an array, got: %s", jsonKind(parsed))
	}
	if len(items) == 0 {
		return nil, ErrEmptyArray
	}

	log := config.Logger.WithField("raw_count", len(items))
	valid := make([]GeneratedQuestion, 0, len(items))
	for i, item := range items {
		q, reason := validate(item, fallback)
		if reason != "" {
			log.WithField("index", i).WithField("reason", reason).Debug("Dropped invalid question")
			continue
		}
		valid = append(valid, q)
	}

	if len(valid) == 0 {
		return nil, ErrNoValidQuestions
	}
	if 2*len(valid) < requested {
		return nil, fmt.Errorf("only generated %d valid questions out of %d requested", len(valid), requested)
	}
	if requested > 0 && len(valid) > requested {
		valid = valid[:requested]
	}
	return valid, nil
}

func decode(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func cleanup(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = fencePattern.ReplaceAllString(s, "")
	s = barefencePattern.ReplaceAllString(s, "")

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSONArray
	}
	s = s[start : end+1]

	s = smartQuotes.Replace(s)
	s = trailingCommaPattern.ReplaceAllString(s, "$1")
	return s, nil
}

func validate(item any, fallback QuizType) (GeneratedQuestion, string) {
	obj, ok := item.(map[string]any)
	if !ok {
		return GeneratedQuestion{}, "not an object"
	}

	text, _ := obj["question_text"].(string)
	if strings.TrimSpace(text) == "" {
		return GeneratedQuestion{}, "missing question_text"
	}

	qtype, _ := obj["question_type"].(string)
	quizType, ok := canonicalType(qtype, fallback)
	if !ok {
		return GeneratedQuestion{}, "unknown question_type"
	}

	answer, ok := scalarString(obj["correct_answer"])
	if !ok || answer == "" {
		return GeneratedQuestion{}, "missing correct_answer"
	}

	q := GeneratedQuestion{
		QuestionText:  text,
		QuestionType:  quizType,
		Options:       []string{},
		CorrectAnswer: answer,
	}
	if explanation, ok := obj["explanation"].(string); ok {
		q.Explanation = explanation
	}

	if quizType == QuizTypeMultipleChoice {
		raw, _ := obj["options"].([]any)
		options := make([]string, 0, len(raw))
		for _, o := range raw {
			s, ok := scalarString(o)
			if !ok {
				return GeneratedQuestion{}, "non-scalar option"
			}
			options = append(options, s)
		}
		if len(options) < 2 {
			return GeneratedQuestion{}, "fewer than two options"
		}
		if !slices.Contains(options, answer) {
			return GeneratedQuestion{}, "correct_answer not among options"
		}
		q.Options = options
	}

	return q, ""
}

var quizTypeAliases = map[string]QuizType{
	"multiple-choice":   QuizTypeMultipleChoice,
	"multiplechoice":    QuizTypeMultipleChoice,
	"mcq":               QuizTypeMultipleChoice,
	"fill-blank":        QuizTypeFillBlank,
	"fill-in-the-blank": QuizTypeFillBlank,
	"fill-in-blank":     QuizTypeFillBlank,
	"fill-the-blank":    QuizTypeFillBlank,
	"fillblank":         QuizTypeFillBlank,
}

var typeSeparators = strings.NewReplacer(" ", "-", "_", "-")

// canonicalType accepts spelling variants such as "Multiple Choice". Any
// other non-empty value takes the fallback type.
func canonicalType(raw string, fallback QuizType) (QuizType, bool) {
	key := typeSeparators.Replace(strings.ToLower(strings.TrimSpace(raw)))
	if key == "" {
		return "", false
	}
	if t, ok := quizTypeAliases[key]; ok {
		return t, true
	}
	return fallback, fallback.IsValid()
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

func jsonKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
