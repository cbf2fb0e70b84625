package aiquiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/saulo-duarte/studyquiz/internal/config"
	openai "github.com/sashabaranov/go-openai"
)

// Chat models reject completion budgets above this.
const openAIMaxTokens = 16384

const openAISystemPrompt = "You are an expert educational quiz generator. Respond with a JSON array only, no prose."

type openAIProvider struct {
	client *openai.Client
	cfg    GenerationConfig
}

// NewOpenAIProvider talks to the OpenAI API or any compatible endpoint when
// baseURL is set.
func NewOpenAIProvider(apiKey, baseURL string, cfg GenerationConfig) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return &openAIProvider{client: openai.NewClientWithConfig(clientCfg), cfg: cfg}, nil
}

func (p *openAIProvider) Name() string { return "openai" }

func (p *openAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	log := config.WithContext(ctx).WithField("model", p.cfg.Model)

	maxTokens := p.cfg.MaxOutputTokens
	if maxTokens <= 0 || maxTokens > openAIMaxTokens {
		maxTokens = openAIMaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.cfg.Temperature,
		TopP:        p.cfg.TopP,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		log.WithError(err).Error("OpenAI request failed")
		return "", fmt.Errorf("openai request: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	log.WithField("finish_reason", resp.Choices[0].FinishReason).Debug("OpenAI response received")
	return resp.Choices[0].Message.Content, nil
}
