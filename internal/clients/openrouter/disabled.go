package openrouter

import (
	"context"

	"github.com/mamamath/mothermath-backend/internal/logger"
)

// disabledClient stands in when no gateway key is configured. The server
// still boots; every generative call fails with ErrMissingCredentials so
// handlers can report the misconfiguration per request.
type disabledClient struct{}

func (disabledClient) GenerateText(context.Context, string, string) (string, error) {
	return "", ErrMissingCredentials
}

func (disabledClient) GenerateChat(context.Context, string, []Message, string) (string, error) {
	return "", ErrMissingCredentials
}

func (disabledClient) GenerateJSON(context.Context, string, string) (*Result, error) {
	return nil, ErrMissingCredentials
}

func (disabledClient) GenerateTextWithImage(context.Context, string, string, string) (string, error) {
	return "", ErrMissingCredentials
}

// NewClientOrDisabled returns a real client when a key is configured and the
// disabled stand-in otherwise.
func NewClientOrDisabled(log *logger.Logger) Client {
	c, err := NewClient(log)
	if err != nil {
		log.Warn("LLM gateway disabled", "error", err)
		return disabledClient{}
	}
	return c
}
