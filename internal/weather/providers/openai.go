package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/rod-jemeel/WeatherWizard/internal/weather"
)

const (
	descriptionMaxTokens   = 200
	descriptionTemperature = 0.7
)

var errNoChoices = errors.New("chat completion returned no choices")

// OpenAIConfig configures an OpenAIGenerator.
type OpenAIConfig struct {
	APIKey     string
	Model      string // defaults to gpt-4o
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAIGenerator implements weather.TextGenerator with the chat completions API.
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

var _ weather.TextGenerator = (*OpenAIGenerator)(nil)

func NewOpenAIGenerator(cfg OpenAIConfig, logger *zap.Logger) *OpenAIGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}

	return &OpenAIGenerator{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		circuit: newCircuitBreaker("openai"),
		logger:  logger,
	}
}

// Generate sends one system and one user message and returns the first
// choice's content.
func (g *OpenAIGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	result, err := g.circuit.Execute(func() (interface{}, error) {
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   descriptionMaxTokens,
			Temperature: descriptionTemperature,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, errNoChoices
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		g.logger.Debug("chat completion failed", zap.String("model", g.model), zap.Error(err))
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	content, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected result type from circuit breaker")
	}
	return content, nil
}
