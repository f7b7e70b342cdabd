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

var ErrImageRequired = errors.New("an image of the student's work is required")

// AnalysisService grades photographed student work and turns interview
// transcripts into written feedback.
type AnalysisService interface {
	AnalyzeWork(ctx context.Context, imageURL, instructions string) (string, error)
	AnalyzeTranscript(ctx context.Context, transcript []types.TranscriptEntry) (string, error)
}

type analysisService struct {
	log     *logger.Logger
	gateway openrouter.Client
}

func NewAnalysisService(log *logger.Logger, gateway openrouter.Client) AnalysisService {
	return &analysisService{
		log:     log.With("service", "AnalysisService"),
		gateway: gateway,
	}
}

// AnalyzeWork sends the work image to the vision model. Extra instructions
// from the teacher, when present, are appended to the grading prompt.
func (s *analysisService) AnalyzeWork(ctx context.Context, imageURL, instructions string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", ErrImageRequired
	}
	user := "Analyze the student's work in this image."
	if inst := strings.TrimSpace(instructions); inst != "" {
		user += " " + inst
	}
	feedback, err := s.gateway.GenerateTextWithImage(ctx, prompts.WorkAnalysis, user, imageURL)
	if err != nil {
		return "", err
	}
	s.log.Info("Analyzed student work")
	return feedback, nil
}

func (s *analysisService) AnalyzeTranscript(ctx context.Context, transcript []types.TranscriptEntry) (string, error) {
	req, err := prompts.Feedback(transcript)
	if err != nil {
		return "", err
	}
	feedback, err := s.gateway.GenerateText(ctx, req.System, req.User)
	if err != nil {
		return "", err
	}
	s.log.Info("Generated transcript feedback", "entries", len(transcript))
	return feedback, nil
}
