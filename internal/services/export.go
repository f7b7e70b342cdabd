package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mamamath/mothermath-backend/internal/export"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/repos"
	"github.com/mamamath/mothermath-backend/internal/types"
)

var ErrSlidesUnavailable = errors.New("slide export is not configured")

// ExportService turns saved plans into downloadable documents. The PDF path
// always succeeds on saved plans; the slide path requires the deck font and
// reports errors instead of degrading.
type ExportService interface {
	LessonPDF(ctx context.Context, userID, planID uuid.UUID) ([]byte, string, error)
	SlideDeck(ctx context.Context, userID, planID uuid.UUID) ([]byte, string, error)
	RenderPDF(ctx context.Context, content, topic, level, kind string) ([]byte, string, error)
	RenderSlides(ctx context.Context, content, topic string) ([]byte, string, error)
}

type exportService struct {
	log      *logger.Logger
	planRepo repos.LessonPlanRepo
	pdf      *export.PDFExporter
	slides   *export.SlideExporter
}

// NewExportService accepts a nil slide exporter; only the slide endpoint is
// affected.
func NewExportService(log *logger.Logger, planRepo repos.LessonPlanRepo, pdf *export.PDFExporter, slides *export.SlideExporter) ExportService {
	return &exportService{
		log:      log.With("service", "ExportService"),
		planRepo: planRepo,
		pdf:      pdf,
		slides:   slides,
	}
}

func (s *exportService) loadPlan(ctx context.Context, userID, planID uuid.UUID) (*types.LessonPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, nil, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// exportContent prefers the normalized JSON document; older plans that only
// carry rendered markdown still export through the text fallback.
func exportContent(plan *types.LessonPlan) string {
	if len(plan.Content) > 0 {
		return string(plan.Content)
	}
	return plan.GeneratedContent
}

func (s *exportService) LessonPDF(ctx context.Context, userID, planID uuid.UUID) ([]byte, string, error) {
	plan, err := s.loadPlan(ctx, userID, planID)
	if err != nil {
		return nil, "", err
	}

	var out []byte
	var name string
	if plan.Kind == "story" {
		out, err = s.pdf.Story(exportContent(plan), plan.Topic, plan.Level)
		name = export.StoryPDFName(plan.Topic)
	} else {
		out, err = s.pdf.Lesson(exportContent(plan), plan.Topic, plan.Level)
		name = export.LessonPDFName(plan.Topic)
	}
	if err != nil {
		return nil, "", err
	}
	s.log.Info("Exported plan as PDF", "planID", planID, "file", name)
	return out, name, nil
}

// RenderPDF exports content the client holds without requiring a saved plan.
func (s *exportService) RenderPDF(ctx context.Context, content, topic, level, kind string) ([]byte, string, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, "", types.ErrEmptyTopic
	}
	var out []byte
	var name string
	var err error
	if kind == "story" {
		out, err = s.pdf.Story(content, topic, level)
		name = export.StoryPDFName(topic)
	} else {
		out, err = s.pdf.Lesson(content, topic, level)
		name = export.LessonPDFName(topic)
	}
	if err != nil {
		return nil, "", err
	}
	s.log.Info("Exported content as PDF", "topic", topic, "file", name)
	return out, name, nil
}

func (s *exportService) RenderSlides(ctx context.Context, content, topic string) ([]byte, string, error) {
	if s.slides == nil {
		return nil, "", ErrSlidesUnavailable
	}
	if strings.TrimSpace(topic) == "" {
		return nil, "", types.ErrEmptyTopic
	}
	out, err := s.slides.Deck(content, topic, time.Now())
	if err != nil {
		return nil, "", err
	}
	name := export.SlideDeckName(topic)
	s.log.Info("Exported content as slide deck", "topic", topic, "file", name)
	return out, name, nil
}

func (s *exportService) SlideDeck(ctx context.Context, userID, planID uuid.UUID) ([]byte, string, error) {
	if s.slides == nil {
		return nil, "", ErrSlidesUnavailable
	}
	plan, err := s.loadPlan(ctx, userID, planID)
	if err != nil {
		return nil, "", err
	}
	out, err := s.slides.Deck(plan.GeneratedContent, plan.Topic, plan.CreatedAt)
	if err != nil {
		return nil, "", err
	}
	name := export.SlideDeckName(plan.Topic)
	s.log.Info("Exported plan as slide deck", "planID", planID, "file", name)
	return out, name, nil
}
