package aiquiz

import (
	"context"
	"fmt"
	"time"

	"github.com/saulo-duarte/studyquiz/internal/config"
	"github.com/sirupsen/logrus"
)

// Generator produces validated questions from extracted study texts.
type Generator interface {
	Generate(ctx context.Context, texts []string, settings Settings) ([]GeneratedQuestion, error)
}

type service struct {
	provider       Provider
	maxSourceChars int
}

func NewService(provider Provider, maxSourceChars int) Generator {
	return &service{provider: provider, maxSourceChars: maxSourceChars}
}

// Generate makes exactly one provider call. Every failure is reported with
// the same prefix so it can be stored as the quiz generation error.
func (s *service) Generate(ctx context.Context, texts []string, settings Settings) ([]GeneratedQuestion, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"provider":      s.provider.Name(),
		"quiz_type":     settings.QuizType,
		"difficulty":    settings.Difficulty,
		"num_questions": settings.NumQuestions,
	})

	prompt := BuildPrompt(texts, settings, s.maxSourceChars)
	log.WithField("prompt_length", len(prompt)).Info("Requesting quiz questions")

	start := time.Now()
	raw, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz with AI: %w", err)
	}

	questions, err := Normalize(raw, settings.NumQuestions, settings.QuizType)
	if err != nil {
		log.WithError(err).WithField("response_length", len(raw)).Warn("Model response rejected")
		return nil, fmt.Errorf("failed to generate quiz with AI: %w", err)
	}

	log.WithField("count", len(questions)).WithField("elapsed", time.Since(start).String()).Info("Quiz questions generated")
	return questions, nil
}
