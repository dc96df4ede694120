package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// OpenAIConfig configures one sampler against an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	SamplerName string  `yaml:"sampler_name"`
}

// OpenAIClient is the production Client backed by an eino chat model.
type OpenAIClient struct {
	name      string
	chatModel model.BaseChatModel
}

// NewOpenAIClient builds a sampler with its own temperature. The ensemble
// constructs several of these so that consensus sees genuinely independent
// sampling behavior.
func NewOpenAIClient(ctx context.Context, cfg OpenAIConfig) (*OpenAIClient, error) {
	temp := cfg.Temperature
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: &temp,
	})
	if err != nil {
		return nil, fmt.Errorf("chat model init: %w", err)
	}
	name := cfg.SamplerName
	if name == "" {
		name = fmt.Sprintf("%s@%.1f", cfg.Model, cfg.Temperature)
	}
	return &OpenAIClient{name: name, chatModel: chatModel}, nil
}

func (c *OpenAIClient) Name() string { return c.name }

func (c *OpenAIClient) Invoke(ctx context.Context, prompt string) (Response, error) {
	messages := []*schema.Message{
		{Role: schema.User, Content: prompt},
	}
	resp, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return Response{}, fmt.Errorf("model invocation: %w", err)
	}
	return Response{Content: resp.Content}, nil
}
