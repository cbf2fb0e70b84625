package aiquiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/saulo-duarte/studyquiz/internal/config"
	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("empty response from model")

// Provider sends one prompt to a model and returns its raw text output.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

type geminiProvider struct {
	client *genai.Client
	cfg    GenerationConfig
}

func NewGeminiProvider(ctx context.Context, apiKey string, cfg GenerationConfig) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiProvider{client: client, cfg: cfg}, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

func (p *geminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	log := config.WithContext(ctx).WithField("model", p.cfg.Model)

	result, err := p.client.Models.GenerateContent(
		ctx,
		p.cfg.Model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(p.cfg.Temperature),
			TopP:             genai.Ptr(p.cfg.TopP),
			TopK:             genai.Ptr(p.cfg.TopK),
			MaxOutputTokens:  int32(p.cfg.MaxOutputTokens),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		log.WithError(err).Error("Gemini request failed")
		return "", fmt.Errorf("gemini request: %w", err)
	}

	raw := result.Text()
	log.WithField("length", len(raw)).Debug("Gemini response received")
	if raw == "" {
		return "", ErrEmptyResponse
	}
	return raw, nil
}
