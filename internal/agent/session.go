package agent

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mamamath/mothermath-backend/internal/clients/vapi"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/repos"
	"github.com/mamamath/mothermath-backend/internal/sse"
	"github.com/mamamath/mothermath-backend/internal/types"
)

// State is the lifecycle of one live interview session.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateEnded      State = "ended"
	StateError      State = "error"
)

// Session tracks one voice interview from dial-out to transcript save.
// Voice-platform events drive the state machine; browser clients observe it
// over the session's SSE channel.
type Session struct {
	ID          uuid.UUID
	InterviewID uuid.UUID
	UserID      uuid.UUID

	mu         sync.Mutex
	state      State
	callID     string
	transcript []types.TranscriptEntry

	log  *logger.Logger
	hub  *sse.Hub
	repo repos.InterviewRepo

	// saves tracks the async transcript persist kicked off on call-end.
	saves sync.WaitGroup
}

func newSession(interview *types.Interview, hub *sse.Hub, repo repos.InterviewRepo, log *logger.Logger) *Session {
	id := uuid.New()
	return &Session{
		ID:          id,
		InterviewID: interview.ID,
		UserID:      interview.UserID,
		state:       StateIdle,
		hub:         hub,
		repo:        repo,
		log:         log.With("session", id),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) CallID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callID
}

// Transcript returns a copy of the final entries accumulated so far.
func (s *Session) Transcript() []types.TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.TranscriptEntry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

func (s *Session) broadcast(event sse.Event, data any) {
	s.hub.Broadcast(sse.Message{
		Channel: sse.SessionChannel(s.ID),
		Event:   event,
		Data:    data,
	})
}

func (s *Session) setState(state State) {
	s.state = state
	s.broadcast(sse.EventInterviewState, map[string]any{"state": string(state)})
}

// HandleEvent applies one voice-platform event. Events arriving while the
// session is idle or already over are ignored.
func (s *Session) HandleEvent(ev vapi.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case vapi.EventCallStart:
		if s.state != StateConnecting {
			return
		}
		s.setState(StateConnected)

	case vapi.EventMessage:
		if s.state != StateConnected {
			return
		}
		if ev.TranscriptType != vapi.TranscriptFinal || ev.Transcript == "" {
			return
		}
		entry := types.TranscriptEntry{Role: ev.Role, Content: ev.Transcript}
		s.transcript = append(s.transcript, entry)
		s.broadcast(sse.EventInterviewTranscript, entry)

	case vapi.EventSpeakerStart, vapi.EventSpeakerEnd:
		if s.state != StateConnected {
			return
		}
		s.broadcast(sse.EventInterviewState, map[string]any{
			"state":    string(s.state),
			"speaking": ev.Type == vapi.EventSpeakerStart,
			"role":     ev.Role,
		})

	case vapi.EventError:
		if s.state != StateConnecting && s.state != StateConnected {
			return
		}
		s.setState(StateError)
		s.broadcast(sse.EventInterviewError, map[string]any{"error": ev.ErrorMessage})

	case vapi.EventCallEnd:
		if s.state != StateConnecting && s.state != StateConnected {
			return
		}
		s.setState(StateEnded)
		transcript := make([]types.TranscriptEntry, len(s.transcript))
		copy(transcript, s.transcript)
		s.saves.Add(1)
		go s.saveTranscript(transcript)
	}
}

// saveTranscript persists the final transcript after the call ends. The
// session stays ended even when the save fails; the failure is surfaced to
// listeners instead.
func (s *Session) saveTranscript(transcript []types.TranscriptEntry) {
	defer s.saves.Done()
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := s.repo.UpdateTranscript(ctx, nil, s.InterviewID, transcript); err != nil {
		s.log.Error("Failed to save interview transcript", "interviewID", s.InterviewID, "error", err)
		s.broadcast(sse.EventInterviewError, map[string]any{"error": "failed to save transcript"})
		return
	}
	s.log.Info("Saved interview transcript", "interviewID", s.InterviewID, "entries", len(transcript))
}
