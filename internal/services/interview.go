package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mamamath/mothermath-backend/internal/clients/openrouter"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/prompts"
	"github.com/mamamath/mothermath-backend/internal/repos"
	"github.com/mamamath/mothermath-backend/internal/types"
)

var ErrInterviewNotFound = errors.New("interview not found")

// CreateInterviewInput is the interview setup the teacher fills in before
// practicing.
type CreateInterviewInput struct {
	Role        string
	Level       string
	Topic       string
	Focus       string
	TimeMinutes int
}

// InterviewService manages mock-interview records: setup with generated
// questions, transcript storage and written feedback.
type InterviewService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInterviewInput) (*types.Interview, error)
	Get(ctx context.Context, userID, interviewID uuid.UUID) (*types.Interview, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.Interview, error)
	Delete(ctx context.Context, userID, interviewID uuid.UUID) error
	SaveTranscript(ctx context.Context, userID, interviewID uuid.UUID, transcript []types.TranscriptEntry) error
	GenerateFeedback(ctx context.Context, userID, interviewID uuid.UUID) (string, error)
}

type interviewService struct {
	db      *gorm.DB
	log     *logger.Logger
	repo    repos.InterviewRepo
	gateway openrouter.Client
}

func NewInterviewService(db *gorm.DB, log *logger.Logger, repo repos.InterviewRepo, gateway openrouter.Client) InterviewService {
	return &interviewService{
		db:      db,
		log:     log.With("service", "InterviewService"),
		repo:    repo,
		gateway: gateway,
	}
}

func (s *interviewService) Create(ctx context.Context, userID uuid.UUID, input CreateInterviewInput) (*types.Interview, error) {
	input.Role = strings.TrimSpace(input.Role)
	input.Topic = strings.TrimSpace(input.Topic)
	if input.Role == "" {
		return nil, fmt.Errorf("role is required")
	}
	if input.Topic == "" {
		return nil, types.ErrEmptyTopic
	}
	if input.TimeMinutes <= 0 {
		input.TimeMinutes = 15
	}

	questions, err := s.generateQuestions(ctx, input)
	if err != nil {
		return nil, err
	}

	interview := &types.Interview{
		UserID:    userID,
		Role:      input.Role,
		Level:     input.Level,
		Topic:     input.Topic,
		Focus:     input.Focus,
		Time:      input.TimeMinutes,
		Questions: datatypes.NewJSONSlice(questions),
	}
	saved, err := s.repo.Create(ctx, nil, interview)
	if err != nil {
		return nil, fmt.Errorf("save interview: %w", err)
	}
	s.log.Info("Created interview", "interviewID", saved.ID, "questions", len(questions))
	return saved, nil
}

func (s *interviewService) generateQuestions(ctx context.Context, input CreateInterviewInput) ([]string, error) {
	req := prompts.InterviewQuestions(input.Role, input.Level, input.Topic, input.Focus, input.TimeMinutes)
	res, err := s.gateway.GenerateJSON(ctx, req.System, req.User)
	if err != nil {
		return nil, err
	}
	raw, ok := res.Object["questions"]
	if !ok {
		return nil, fmt.Errorf("question response has no questions: %w", openrouter.ErrInvalidJSON)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var questions []string
	if err := json.Unmarshal(encoded, &questions); err != nil {
		return nil, fmt.Errorf("questions malformed: %w", openrouter.ErrInvalidJSON)
	}
	if len(questions) == 0 {
		return nil, types.ErrNoQuestions
	}
	return questions, nil
}

func (s *interviewService) Get(ctx context.Context, userID, interviewID uuid.UUID) (*types.Interview, error) {
	interview, err := s.repo.GetByID(ctx, nil, interviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	if interview.UserID != userID {
		return nil, ErrInterviewNotFound
	}
	return interview, nil
}

func (s *interviewService) List(ctx context.Context, userID uuid.UUID) ([]*types.Interview, error) {
	return s.repo.ListByUser(ctx, nil, userID)
}

func (s *interviewService) Delete(ctx context.Context, userID, interviewID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, interviewID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, nil, interviewID)
}

func (s *interviewService) SaveTranscript(ctx context.Context, userID, interviewID uuid.UUID, transcript []types.TranscriptEntry) error {
	if _, err := s.Get(ctx, userID, interviewID); err != nil {
		return err
	}
	if len(transcript) == 0 {
		return types.ErrEmptyTranscript
	}
	return s.repo.UpdateTranscript(ctx, nil, interviewID, transcript)
}

// GenerateFeedback analyzes the stored transcript and persists the written
// feedback on the interview record.
func (s *interviewService) GenerateFeedback(ctx context.Context, userID, interviewID uuid.UUID) (string, error) {
	interview, err := s.Get(ctx, userID, interviewID)
	if err != nil {
		return "", err
	}
	req, err := prompts.Feedback([]types.TranscriptEntry(interview.Transcript))
	if err != nil {
		return "", err
	}
	feedback, err := s.gateway.GenerateText(ctx, req.System, req.User)
	if err != nil {
		return "", err
	}
	if err := s.repo.UpdateFeedback(ctx, nil, interviewID, feedback); err != nil {
		return "", fmt.Errorf("save feedback: %w", err)
	}
	s.log.Info("Generated interview feedback", "interviewID", interviewID)
	return feedback, nil
}
