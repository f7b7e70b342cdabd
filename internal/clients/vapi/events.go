package vapi

import (
	"encoding/json"
	"fmt"
)

// EventType enumerates the webhook events the voice platform delivers while
// a call is live.
type EventType string

const (
	EventCallStart    EventType = "call-start"
	EventCallEnd      EventType = "call-end"
	EventError        EventType = "error"
	EventSpeakerStart EventType = "speaker-start"
	EventSpeakerEnd   EventType = "speaker-end"
	EventMessage      EventType = "message"
)

// Transcript granularity on message events. Partial transcripts are interim
// captions; only final ones are durable.
const (
	TranscriptPartial = "partial"
	TranscriptFinal   = "final"
)

// Event is one webhook notification. Fields beyond Type are populated per
// event kind; unknown fields from the platform are ignored.
type Event struct {
	Type           EventType `json:"type"`
	CallID         string    `json:"callId,omitempty"`
	SessionID      string    `json:"sessionId,omitempty"`
	Role           string    `json:"role,omitempty"`
	TranscriptType string    `json:"transcriptType,omitempty"`
	Transcript     string    `json:"transcript,omitempty"`
	ErrorMessage   string    `json:"error,omitempty"`
}

// webhookEnvelope matches the platform's outer wrapper.
type webhookEnvelope struct {
	Message Event `json:"message"`
}

// ParseWebhook decodes a webhook body into an Event.
func ParseWebhook(body []byte) (Event, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{}, fmt.Errorf("decode voice webhook: %w", err)
	}
	if env.Message.Type == "" {
		return Event{}, fmt.Errorf("voice webhook has no event type")
	}
	return env.Message, nil
}
