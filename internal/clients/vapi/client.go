package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/utils"
)

// Client controls interview calls on the hosted voice platform. The agent
// layer depends on this interface so sessions can run against a fake in
// tests.
type Client interface {
	StartCall(ctx context.Context, req StartCallRequest) (*Call, error)
	StopCall(ctx context.Context, callID string) error
}

// StartCallRequest configures one interview call. SystemPrompt and
// FirstMessage override the assistant's defaults for this call only.
type StartCallRequest struct {
	SessionID    string
	SystemPrompt string
	FirstMessage string
}

type Call struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type Config struct {
	APIKey      string
	AssistantID string
	BaseURL     string
	Timeout     time.Duration
}

func ConfigFromEnv(log *logger.Logger) Config {
	timeoutSec := utils.GetEnvAsInt("VAPI_TIMEOUT_SECONDS", 30, log)
	return Config{
		APIKey:      strings.TrimSpace(os.Getenv("VAPI_API_KEY")),
		AssistantID: strings.TrimSpace(os.Getenv("VAPI_ASSISTANT_ID")),
		BaseURL:     utils.GetEnv("VAPI_BASE_URL", "https://api.vapi.ai", log),
		Timeout:     time.Duration(timeoutSec) * time.Second,
	}
}

type client struct {
	cfg  Config
	http *http.Client
	log  *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing VAPI_API_KEY")
	}
	if cfg.AssistantID == "" {
		return nil, fmt.Errorf("missing VAPI_ASSISTANT_ID")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.vapi.ai"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log.With("client", "vapi"),
	}, nil
}

func (c *client) StartCall(ctx context.Context, req StartCallRequest) (*Call, error) {
	payload := map[string]any{
		"assistantId": c.cfg.AssistantID,
		"metadata":    map[string]any{"sessionId": req.SessionID},
	}
	overrides := map[string]any{}
	if req.FirstMessage != "" {
		overrides["firstMessage"] = req.FirstMessage
	}
	if req.SystemPrompt != "" {
		overrides["model"] = map[string]any{
			"messages": []map[string]any{{"role": "system", "content": req.SystemPrompt}},
		}
	}
	if len(overrides) > 0 {
		payload["assistantOverrides"] = overrides
	}

	var call Call
	if err := c.do(ctx, http.MethodPost, "/call", payload, &call); err != nil {
		return nil, err
	}
	c.log.Info("Started voice call", "callID", call.ID, "sessionID", req.SessionID)
	return &call, nil
}

func (c *client) StopCall(ctx context.Context, callID string) error {
	if strings.TrimSpace(callID) == "" {
		return fmt.Errorf("callID required")
	}
	err := c.do(ctx, http.MethodDelete, "/call/"+callID, nil, nil)
	if err == nil {
		c.log.Info("Stopped voice call", "callID", callID)
	}
	return err
}

func (c *client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode vapi request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build vapi request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vapi %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("vapi %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode vapi response: %w", err)
	}
	return nil
}
