package assessment

import (
	"context"
	"errors"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultLLMModel = "claude-sonnet-4-20250514"

const generationMaxTokens = 8192

// Generator abstracts the generation service so the client and pipeline can
// be tested against fakes.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	ModelName() string
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicGenerator struct {
	messages AnthropicMessager
	model    string
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

func NewAnthropicGeneratorFromEnv() (*AnthropicGenerator, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	model := strings.TrimSpace(os.Getenv("NAVIGATOR_LLM_MODEL"))
	if model == "" {
		model = DefaultLLMModel
	}
	return &AnthropicGenerator{messages: newAnthropicClient(apiKey), model: model}, nil
}

func (g *AnthropicGenerator) ModelName() string { return g.model }

func (g *AnthropicGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := g.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.model),
		MaxTokens:   generationMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(0.2),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}
