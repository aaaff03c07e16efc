// Package llm provides the model client: a synchronous, single-turn
// completion call with a fixed system instruction. Engines are selected by
// name so tests and offline demos can swap in the mock.
package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// systemPrompt is the fixed instruction sent with every completion.
const systemPrompt = "You are a helpful AI assistant. Please answer the questions based on the content of the provided files, and respond in English."

// Client is the single-turn completion contract. Each call is independent
// and stateless on the model side; callers may retry freely.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options configures engine construction.
type Options struct {
	// Engine selects the implementation: "openai" or "mock".
	Engine string
	// Model is the model identifier, e.g. "gpt-4o".
	Model string
	// MaxTokens caps the completion length.
	MaxTokens int64
	// Temperature is the sampling temperature.
	Temperature float64
}

// NewClient builds the engine named in opts.
func NewClient(opts Options) (Client, error) {
	switch opts.Engine {
	case "openai":
		return newOpenAI(opts)
	case "mock":
		return NewMock(opts.Model), nil
	default:
		return nil, fmt.Errorf("unknown model engine %q (want openai or mock)", opts.Engine)
	}
}

// OpenAI implements Client over the OpenAI chat completions API.
type OpenAI struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
}

func newOpenAI(opts Options) (*OpenAI, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	return &OpenAI{
		client:      openai.NewClient(option.WithAPIKey(key)),
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}, nil
}

// Complete sends one chat completion request. Errors are returned to the
// caller; the workflow treats them as retryable and keeps its state.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(o.maxTokens),
		Temperature: openai.Float(o.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
