package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/normalize"
	"github.com/mamamath/mothermath-backend/internal/utils"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "google/gemini-2.5-flash"
	keyPrefix      = "sk-or-v1-"
)

// Message is one prior conversation turn replayed into a chat completion.
type Message struct {
	Role    string // "user" | "assistant"
	Content string
}

// Client is the single boundary to the LLM gateway. One HTTP round-trip per
// call, no retries: a failed call surfaces immediately and the caller owns
// any retry UX.
type Client interface {
	// GenerateText returns the raw completion text.
	GenerateText(ctx context.Context, system, user string) (string, error)

	// GenerateChat replays history between the system prompt and the final
	// user message and returns the completion text.
	GenerateChat(ctx context.Context, system string, history []Message, user string) (string, error)

	// GenerateJSON mandates a JSON object response. The content is normalized
	// (fences stripped, envelope unwrapped) and must parse; otherwise
	// ErrInvalidJSON is returned.
	GenerateJSON(ctx context.Context, system, user string) (*Result, error)

	// GenerateTextWithImage sends a multimodal user turn (text + one image,
	// given as an https or data URL) and returns the completion text.
	GenerateTextWithImage(ctx context.Context, system, user, imageURL string) (string, error)
}

type client struct {
	log         *logger.Logger
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// HasValidKey reports whether a plausible gateway key is configured, without
// creating a client. Used for eager configuration checks.
func HasValidKey() bool {
	key := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	return key != "" && strings.HasPrefix(key, keyPrefix)
}

func NewClient(log *logger.Logger) (Client, error) {
	key := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	if key == "" || !strings.HasPrefix(key, keyPrefix) {
		return nil, ErrMissingCredentials
	}

	baseURL := utils.GetEnv("OPENROUTER_BASE_URL", defaultBaseURL, log)
	model := utils.GetEnv("OPENROUTER_MODEL", defaultModel, log)
	timeoutSec := utils.GetEnvAsInt("OPENROUTER_TIMEOUT_SECONDS", 180, log)
	maxTokens := utils.GetEnvAsInt("OPENROUTER_MAX_TOKENS", 2048, log)

	cfg := openai.DefaultConfig(key)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.HTTPClient = &http.Client{Timeout: time.Duration(timeoutSec) * time.Second}

	return &client{
		log:         log.With("service", "OpenRouterClient"),
		api:         openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.7,
		maxTokens:   maxTokens,
	}, nil
}

func (c *client) GenerateText(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, c.buildMessages(system, nil, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	}), nil)
}

func (c *client) GenerateChat(ctx context.Context, system string, history []Message, user string) (string, error) {
	return c.complete(ctx, c.buildMessages(system, history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	}), nil)
}

func (c *client) GenerateJSON(ctx context.Context, system, user string) (*Result, error) {
	format := &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	content, err := c.complete(ctx, c.buildMessages(system, nil, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: user,
	}), format)
	if err != nil {
		return nil, err
	}

	normalized := normalize.Normalize(content)
	if normalized.Kind != normalize.KindJSON {
		c.log.Error("Gateway content failed JSON parse after normalization", "contentPrefix", prefix(content, 120))
		return nil, ErrInvalidJSON
	}
	return &Result{Kind: KindJSON, Text: normalized.Text, Object: normalized.Object}, nil
}

func (c *client) GenerateTextWithImage(ctx context.Context, system, user, imageURL string) (string, error) {
	userMsg := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: user},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    imageURL,
					Detail: openai.ImageURLDetailHigh,
				},
			},
		},
	}
	return c.complete(ctx, c.buildMessages(system, nil, userMsg), nil)
}

func (c *client) buildMessages(system string, history []Message, user openai.ChatCompletionMessage) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return append(messages, user)
}

func (c *client) complete(ctx context.Context, messages []openai.ChatCompletionMessage, format *openai.ChatCompletionResponseFormat) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    c.temperature,
		MaxTokens:      c.maxTokens,
		ResponseFormat: format,
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", mapGatewayError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &GatewayError{Status: http.StatusBadGateway, Message: "no choices in gateway response"}
	}
	return resp.Choices[0].Message.Content, nil
}

func mapGatewayError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &GatewayError{Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &GatewayError{Status: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return fmt.Errorf("gateway request error: %w", err)
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
