package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	appErrors "github.com/unclebandit/coldreach/internal/errors"
)

const defaultModel = "gpt-4o"

type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Model() string
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int      // 0 = provider default
	Temperature  *float64 // nil = model default
}

type Response struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type client struct {
	openai  openai.Client
	model   string
	timeout time.Duration
}

// New creates an OpenAI backed Client. The SDK's automatic retries are
// turned off; every call is attempted exactly once.
func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, appErrors.NewConfiguration("OpenAI API key is required", nil)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &client{
		openai:  openai.NewClient(opts...),
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

func (c *client) Complete(ctx context.Context, req Request) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classify(ctx, err)
	}

	slog.DebugContext(ctx, "llm chat completed",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return nil, appErrors.NewUpstreamLLM("The AI service returned an empty response.", errors.New("no choices in response"))
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, appErrors.NewUpstreamLLM("The AI service returned an empty response.", errors.New("empty message content"))
	}

	return &Response{
		Content:          content,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

func (c *client) Model() string {
	return c.model
}

// classify maps SDK and transport errors to user facing upstream failures.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return appErrors.NewUpstreamLLM("The AI service took too long to respond. Please try again.", err)
	}
	if errors.Is(err, context.Canceled) {
		return appErrors.NewUpstreamLLM("The request was cancelled.", err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		slog.WarnContext(ctx, "llm api error",
			"status_code", apiErr.StatusCode,
			"error_type", apiErr.Type,
			"error_code", apiErr.Code)
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return appErrors.NewUpstreamLLM("The AI service rejected our credentials.", err)
		case apiErr.StatusCode == 429:
			return appErrors.NewUpstreamLLM("The AI service is rate limiting requests. Please try again shortly.", err)
		case apiErr.StatusCode >= 500:
			return appErrors.NewUpstreamLLM("The AI service is currently unavailable.", err)
		default:
			return appErrors.NewUpstreamLLM(fmt.Sprintf("The AI service rejected the request (status %d).", apiErr.StatusCode), err)
		}
	}

	slog.WarnContext(ctx, "llm network error", "error", err)
	return appErrors.NewUpstreamLLM("Could not reach the AI service.", err)
}
