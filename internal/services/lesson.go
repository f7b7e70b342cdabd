package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mamamath/mothermath-backend/internal/cache"
	"github.com/mamamath/mothermath-backend/internal/clients/openrouter"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/markdown"
	"github.com/mamamath/mothermath-backend/internal/normalize"
	"github.com/mamamath/mothermath-backend/internal/prompts"
	"github.com/mamamath/mothermath-backend/internal/repos"
	"github.com/mamamath/mothermath-backend/internal/sse"
	"github.com/mamamath/mothermath-backend/internal/types"
)

var (
	ErrNotMathTopic = errors.New("topic does not look like a mathematics topic")
	ErrPlanNotFound = errors.New("lesson plan not found")
)

// LessonService drives the two-step lesson wizard: a fast outline pass the
// teacher can edit, then the detailed generation that persists the plan.
type LessonService interface {
	GenerateOutline(ctx context.Context, topic, level string) ([]types.LessonSection, error)
	GenerateDetailed(ctx context.Context, userID uuid.UUID, topic, level string, sections []types.LessonSection) (*types.LessonPlan, error)
	Save(ctx context.Context, userID uuid.UUID, input SaveLessonPlanInput) (*types.LessonPlan, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.LessonPlan, error)
	Get(ctx context.Context, userID, planID uuid.UUID) (*types.LessonPlan, error)
	Delete(ctx context.Context, userID, planID uuid.UUID) error
}

// SaveLessonPlanInput saves a plan the client already holds, such as one
// generated before the user signed in.
type SaveLessonPlanInput struct {
	Title            string          `json:"title"`
	Topic            string          `json:"topic"`
	Level            string          `json:"level"`
	Kind             string          `json:"kind"`
	Content          json.RawMessage `json:"content"`
	GeneratedContent string          `json:"generatedContent"`
}

type lessonService struct {
	db       *gorm.DB
	log      *logger.Logger
	planRepo repos.LessonPlanRepo
	gateway  openrouter.Client
	cache    cache.LessonPlanCache
	hub      *sse.Hub

	// inflight collapses duplicate generate clicks per user and topic.
	inflight singleflight.Group
}

func NewLessonService(db *gorm.DB, log *logger.Logger, planRepo repos.LessonPlanRepo, gateway openrouter.Client, planCache cache.LessonPlanCache, hub *sse.Hub) LessonService {
	return &lessonService{
		db:       db,
		log:      log.With("service", "LessonService"),
		planRepo: planRepo,
		gateway:  gateway,
		cache:    planCache,
		hub:      hub,
	}
}

// mathTopicHints gates the wizard to mathematics topics. The match is loose:
// a topic only has to mention one recognizable term.
var mathTopicHints = []string{
	"math", "number", "count", "add", "subtract", "multipl", "divis", "divide",
	"fraction", "decimal", "percent", "geometr", "shape", "angle", "measure",
	"graph", "algebra", "equation", "arithmetic", "time", "money", "length",
	"weight", "area", "perimeter", "volume", "estimat", "place value", "set",
	"pattern", "statistic", "data", "probability", "ratio", "proportion",
}

func isMathTopic(topic string) bool {
	t := strings.ToLower(topic)
	for _, hint := range mathTopicHints {
		if strings.Contains(t, hint) {
			return true
		}
	}
	return false
}

func (s *lessonService) GenerateOutline(ctx context.Context, topic, level string) ([]types.LessonSection, error) {
	topic = strings.TrimSpace(topic)
	level = strings.TrimSpace(level)
	if topic == "" {
		return nil, types.ErrEmptyTopic
	}
	if level == "" {
		return nil, types.ErrEmptyLevel
	}
	if !isMathTopic(topic) {
		return nil, ErrNotMathTopic
	}

	req := prompts.Outline(topic, level)
	res, err := s.gateway.GenerateJSON(ctx, req.System, req.User)
	if err != nil {
		return nil, err
	}
	sections, err := sectionsFromObject(res.Object)
	if err != nil {
		return nil, err
	}
	s.log.Info("Generated lesson outline", "topic", topic, "sections", len(sections))
	return sections, nil
}

func sectionsFromObject(obj map[string]any) ([]types.LessonSection, error) {
	raw, ok := obj["sections"]
	if !ok {
		return nil, fmt.Errorf("outline response has no sections: %w", openrouter.ErrInvalidJSON)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var sections []types.LessonSection
	if err := json.Unmarshal(encoded, &sections); err != nil {
		return nil, fmt.Errorf("outline sections malformed: %w", openrouter.ErrInvalidJSON)
	}
	for i := range sections {
		if strings.TrimSpace(sections[i].ID) == "" {
			sections[i].ID = fmt.Sprintf("section-%d", i+1)
		}
	}
	if err := types.ValidateSections(sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// GenerateDetailed produces and persists the full plan. Concurrent requests
// for the same user and topic share a single generation.
func (s *lessonService) GenerateDetailed(ctx context.Context, userID uuid.UUID, topic, level string, sections []types.LessonSection) (*types.LessonPlan, error) {
	topic = strings.TrimSpace(topic)
	level = strings.TrimSpace(level)
	if topic == "" {
		return nil, types.ErrEmptyTopic
	}
	if level == "" {
		return nil, types.ErrEmptyLevel
	}
	if err := types.ValidateSections(sections); err != nil {
		return nil, err
	}

	key := userID.String() + "|standard|" + strings.ToLower(topic)
	v, err, shared := s.inflight.Do(key, func() (any, error) {
		return s.generateAndSave(ctx, userID, topic, level, sections)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.Info("Joined in-flight generation", "userID", userID, "topic", topic)
	}
	return v.(*types.LessonPlan), nil
}

func (s *lessonService) generateAndSave(ctx context.Context, userID uuid.UUID, topic, level string, sections []types.LessonSection) (*types.LessonPlan, error) {
	req := prompts.LessonPlan(topic, level, sections)
	raw, err := s.gateway.GenerateText(ctx, req.System, req.User)
	if err != nil {
		return nil, err
	}

	plan := &types.LessonPlan{
		UserID:           userID,
		Title:            topic,
		Topic:            topic,
		Level:            level,
		Kind:             "standard",
		Sections:         datatypes.NewJSONSlice(sections),
		GeneratedContent: markdown.FormatLesson(raw),
	}
	res := normalize.Normalize(raw)
	if res.Kind == normalize.KindJSON {
		if encoded, err := json.Marshal(res.Object); err == nil {
			plan.Content = datatypes.JSON(encoded)
		}
		if title := types.CanonicalFromMap(res.Object).Title; title != "" {
			plan.Title = title
		}
	}

	saved, err := s.planRepo.Create(ctx, nil, plan)
	if err != nil {
		return nil, fmt.Errorf("save lesson plan: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	s.hub.Broadcast(sse.Message{
		Channel: sse.UserChannel(userID),
		Event:   sse.EventLessonPlanCreated,
		Data:    map[string]any{"id": saved.ID, "title": saved.Title},
	})
	s.log.Info("Generated lesson plan", "planID", saved.ID, "topic", topic)
	return saved, nil
}

func (s *lessonService) Save(ctx context.Context, userID uuid.UUID, input SaveLessonPlanInput) (*types.LessonPlan, error) {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return nil, types.ErrEmptyTopic
	}
	kind := input.Kind
	if kind != "story" {
		kind = "standard"
	}
	plan := &types.LessonPlan{
		UserID:           userID,
		Title:            strings.TrimSpace(input.Title),
		Topic:            topic,
		Level:            strings.TrimSpace(input.Level),
		Kind:             kind,
		GeneratedContent: input.GeneratedContent,
	}
	if len(input.Content) > 0 {
		res := normalize.Normalize(string(input.Content))
		if res.Kind != normalize.KindJSON {
			return nil, fmt.Errorf("plan content malformed: %w", openrouter.ErrInvalidJSON)
		}
		encoded, err := json.Marshal(res.Object)
		if err != nil {
			return nil, err
		}
		plan.Content = datatypes.JSON(encoded)
		if plan.Title == "" {
			plan.Title = types.CanonicalFromMap(res.Object).Title
		}
	}
	if plan.Title == "" {
		plan.Title = topic
	}

	saved, err := s.planRepo.Create(ctx, nil, plan)
	if err != nil {
		return nil, fmt.Errorf("save lesson plan: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	s.hub.Broadcast(sse.Message{
		Channel: sse.UserChannel(userID),
		Event:   sse.EventLessonPlanCreated,
		Data:    map[string]any{"id": saved.ID, "title": saved.Title},
	})
	s.log.Info("Saved lesson plan", "planID", saved.ID, "topic", topic)
	return saved, nil
}

// List reads through the cache; misses hit Postgres and repopulate it.
func (s *lessonService) List(ctx context.Context, userID uuid.UUID) ([]*types.LessonPlan, error) {
	if cached, ok := s.cache.GetList(ctx, userID); ok {
		out := make([]*types.LessonPlan, len(cached))
		for i := range cached {
			out[i] = &cached[i]
		}
		return out, nil
	}
	plans, err := s.planRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	values := make([]types.LessonPlan, len(plans))
	for i, p := range plans {
		values[i] = *p
	}
	s.cache.SetList(ctx, userID, values)
	return plans, nil
}

func (s *lessonService) Get(ctx context.Context, userID, planID uuid.UUID) (*types.LessonPlan, error) {
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

func (s *lessonService) Delete(ctx context.Context, userID, planID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, planID); err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, nil, planID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	s.hub.Broadcast(sse.Message{
		Channel: sse.UserChannel(userID),
		Event:   sse.EventLessonPlanDeleted,
		Data:    map[string]any{"id": planID},
	})
	return nil
}
