package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mamamath/mothermath-backend/internal/clients/vapi"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/prompts"
	"github.com/mamamath/mothermath-backend/internal/repos"
	"github.com/mamamath/mothermath-backend/internal/sse"
	"github.com/mamamath/mothermath-backend/internal/types"
)

const saveTimeout = 15 * time.Second

var (
	ErrSessionNotFound = fmt.Errorf("interview session not found")
	ErrNotConnected    = fmt.Errorf("interview session is not connected")
)

// Manager owns all live interview sessions and routes webhook events to
// them.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*Session
	byCall      map[string]*Session
	byInterview map[uuid.UUID]*Session

	voice vapi.Client
	hub   *sse.Hub
	repo  repos.InterviewRepo
	log   *logger.Logger
}

func NewManager(voice vapi.Client, hub *sse.Hub, repo repos.InterviewRepo, log *logger.Logger) *Manager {
	return &Manager{
		sessions:    make(map[uuid.UUID]*Session),
		byCall:      make(map[string]*Session),
		byInterview: make(map[uuid.UUID]*Session),
		voice:       voice,
		hub:         hub,
		repo:        repo,
		log:         log.With("component", "AgentManager"),
	}
}

// StartSession dials out for the given interview. The session is returned in
// the connecting state; the call-start webhook moves it to connected. It is
// registered for event routing before the dial-out so a webhook racing the
// StartCall response still reaches it.
func (m *Manager) StartSession(ctx context.Context, interview *types.Interview, userName string) (*Session, error) {
	systemPrompt, err := prompts.InterviewAssistant(userName, []string(interview.Questions))
	if err != nil {
		return nil, err
	}

	s := newSession(interview, m.hub, m.repo, m.log)
	s.mu.Lock()
	s.setState(StateConnecting)
	s.mu.Unlock()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.byInterview[interview.ID] = s
	m.mu.Unlock()

	call, err := m.voice.StartCall(ctx, vapi.StartCallRequest{
		SessionID:    s.ID.String(),
		SystemPrompt: systemPrompt,
		FirstMessage: fmt.Sprintf("Hello %s, I'm Eva. Shall we begin your mock interview?", userName),
	})
	if err != nil {
		s.mu.Lock()
		s.setState(StateError)
		s.mu.Unlock()
		m.evict(s)
		return nil, fmt.Errorf("start interview call: %w", err)
	}

	s.mu.Lock()
	s.callID = call.ID
	s.mu.Unlock()

	m.mu.Lock()
	m.byCall[call.ID] = s
	m.mu.Unlock()

	m.log.Info("Interview session started", "sessionID", s.ID, "interviewID", interview.ID, "callID", call.ID)
	return s, nil
}

// StopSession requests hang-up for a connected session. The call-end webhook
// finalizes the state and triggers the transcript save.
func (m *Manager) StopSession(ctx context.Context, sessionID uuid.UUID) error {
	s, ok := m.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if s.State() != StateConnected {
		return ErrNotConnected
	}
	if err := m.voice.StopCall(ctx, s.CallID()); err != nil {
		return fmt.Errorf("stop interview call: %w", err)
	}
	return nil
}

// StopForInterview stops the interview's most recent session and returns its
// id.
func (m *Manager) StopForInterview(ctx context.Context, interviewID uuid.UUID) (uuid.UUID, error) {
	m.mu.RLock()
	s, ok := m.byInterview[interviewID]
	m.mu.RUnlock()
	if !ok {
		return uuid.Nil, ErrSessionNotFound
	}
	if err := m.StopSession(ctx, s.ID); err != nil {
		return uuid.Nil, err
	}
	return s.ID, nil
}

func (m *Manager) Get(sessionID uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// HandleEvent routes one webhook event to its session, preferring the
// sessionId carried in call metadata and falling back to the call id. A
// session that reaches a terminal state is dropped from the routing maps;
// later webhook events for it would be no-ops anyway.
func (m *Manager) HandleEvent(ev vapi.Event) {
	s := m.resolve(ev)
	if s == nil {
		m.log.Debug("Dropping event for unknown session", "type", ev.Type, "callID", ev.CallID)
		return
	}
	s.HandleEvent(ev)
	if st := s.State(); st == StateEnded || st == StateError {
		m.evict(s)
	}
}

// evict removes a session from all routing maps. The session object itself
// stays alive for anyone still holding it, such as the transcript save.
func (m *Manager) evict(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.ID)
	if cur, ok := m.byInterview[s.InterviewID]; ok && cur == s {
		delete(m.byInterview, s.InterviewID)
	}
	if callID := s.CallID(); callID != "" {
		delete(m.byCall, callID)
	}
}

func (m *Manager) resolve(ev vapi.Event) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ev.SessionID != "" {
		if id, err := uuid.Parse(ev.SessionID); err == nil {
			if s, ok := m.sessions[id]; ok {
				return s
			}
		}
	}
	if ev.CallID != "" {
		if s, ok := m.byCall[ev.CallID]; ok {
			return s
		}
	}
	return nil
}
