package aiquiz

import (
	"context"
	"fmt"

	"github.com/saulo-duarte/studyquiz/internal/config"
)

type AIQuizContainer struct {
	Provider  Provider
	Generator Generator
}

func NewAIQuizContainer(ctx context.Context, s *config.Settings) (*AIQuizContainer, error) {
	provider, err := newProvider(ctx, s)
	if err != nil {
		return nil, err
	}

	return &AIQuizContainer{
		Provider:  provider,
		Generator: NewService(provider, s.MaxSourceChars),
	}, nil
}

func newProvider(ctx context.Context, s *config.Settings) (Provider, error) {
	cfg := GenerationConfig{
		Temperature:     s.Temperature,
		TopP:            s.TopP,
		TopK:            s.TopK,
		MaxOutputTokens: s.MaxOutputTokens,
	}

	switch s.AIProvider {
	case "gemini":
		cfg.Model = s.GeminiModel
		return NewGeminiProvider(ctx, s.GeminiAPIKey, cfg)
	case "openai":
		cfg.Model = s.OpenAIModel
		return NewOpenAIProvider(s.OpenAIAPIKey, s.OpenAIBaseURL, cfg)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", s.AIProvider)
	}
}
