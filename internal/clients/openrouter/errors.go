package openrouter

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials means no API key is configured, or the configured key
// fails the format check. Detected before any network call; non-retryable
// without redeploying configuration.
var ErrMissingCredentials = errors.New("openrouter API key is not configured or has an invalid format")

// ErrInvalidJSON means JSON output was mandated but the gateway content was
// not parseable even after normalization. Reported to the caller, never
// silently swallowed.
var ErrInvalidJSON = errors.New("gateway returned content that is not valid JSON")

// GatewayError wraps a non-2xx gateway response. Message carries the
// gateway's own error text when present.
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway request failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("gateway request failed with status %d", e.Status)
}
