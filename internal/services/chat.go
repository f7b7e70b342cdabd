package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mamamath/mothermath-backend/internal/clients/openrouter"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/prompts"
	"github.com/mamamath/mothermath-backend/internal/types"
)

var (
	ErrGradeRequired   = errors.New("grade is required for the curriculum chatbot")
	ErrMessageRequired = errors.New("message must not be empty")
)

// ChatService backs the MAMA curriculum chatbot. Conversations are
// ephemeral: the caller replays history on every turn and nothing is
// persisted.
type ChatService interface {
	Respond(ctx context.Context, grade string, history []types.ChatMessage, message string) (string, error)
	Starters(grade string) []string
}

type chatService struct {
	log     *logger.Logger
	gateway openrouter.Client
}

func NewChatService(log *logger.Logger, gateway openrouter.Client) ChatService {
	return &chatService{
		log:     log.With("service", "ChatService"),
		gateway: gateway,
	}
}

func (s *chatService) Respond(ctx context.Context, grade string, history []types.ChatMessage, message string) (string, error) {
	grade = strings.TrimSpace(grade)
	if grade == "" {
		return "", ErrGradeRequired
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrMessageRequired
	}

	system := prompts.Chatbot(grade)
	turns := make([]openrouter.Message, 0, len(history))
	for _, m := range history {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		turns = append(turns, openrouter.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := s.gateway.GenerateChat(ctx, system, turns, message)
	if err != nil {
		return "", err
	}
	s.log.Debug("Chatbot turn complete", "grade", grade, "historyTurns", len(turns))
	return reply, nil
}

// Starters are the suggested opening questions shown before the first turn.
func (s *chatService) Starters(grade string) []string {
	grade = strings.TrimSpace(grade)
	if grade == "" {
		grade = "your class"
	}
	return []string{
		"What topics does the " + grade + " mathematics curriculum cover this term?",
		"How can I teach fractions with materials found in my classroom?",
		"Give me a quick warm-up activity for " + grade + " on mental arithmetic.",
		"How do I support learners who are struggling with place value?",
	}
}
