package services

import (
	"context"
	"encoding/json"
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

// StoryService generates story-based lesson plans: the same scaffold as the
// standard wizard, woven into a narrative with Cameroonian characters.
type StoryService interface {
	Generate(ctx context.Context, userID uuid.UUID, topic, level string, sections []types.LessonSection) (*types.LessonPlan, error)
}

type storyService struct {
	db       *gorm.DB
	log      *logger.Logger
	planRepo repos.LessonPlanRepo
	gateway  openrouter.Client
	cache    cache.LessonPlanCache
	hub      *sse.Hub

	inflight singleflight.Group
}

func NewStoryService(db *gorm.DB, log *logger.Logger, planRepo repos.LessonPlanRepo, gateway openrouter.Client, planCache cache.LessonPlanCache, hub *sse.Hub) StoryService {
	return &storyService{
		db:       db,
		log:      log.With("service", "StoryService"),
		planRepo: planRepo,
		gateway:  gateway,
		cache:    planCache,
		hub:      hub,
	}
}

func (s *storyService) Generate(ctx context.Context, userID uuid.UUID, topic, level string, sections []types.LessonSection) (*types.LessonPlan, error) {
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

	key := userID.String() + "|story|" + strings.ToLower(topic)
	v, err, _ := s.inflight.Do(key, func() (any, error) {
		return s.generateAndSave(ctx, userID, topic, level, sections)
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.LessonPlan), nil
}

func (s *storyService) generateAndSave(ctx context.Context, userID uuid.UUID, topic, level string, sections []types.LessonSection) (*types.LessonPlan, error) {
	req := prompts.StoryLessonPlan(topic, level, sections)
	raw, err := s.gateway.GenerateText(ctx, req.System, req.User)
	if err != nil {
		return nil, err
	}

	plan := &types.LessonPlan{
		UserID:           userID,
		Title:            topic,
		Topic:            topic,
		Level:            level,
		Kind:             "story",
		Sections:         datatypes.NewJSONSlice(sections),
		GeneratedContent: markdown.FormatStory(raw),
	}
	res := normalize.Normalize(raw)
	if res.Kind == normalize.KindJSON {
		if encoded, err := json.Marshal(res.Object); err == nil {
			plan.Content = datatypes.JSON(encoded)
		}
		if title := types.StoryFromMap(res.Object).Title; title != "" {
			plan.Title = title
		}
	}

	saved, err := s.planRepo.Create(ctx, nil, plan)
	if err != nil {
		return nil, fmt.Errorf("save story lesson plan: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	s.hub.Broadcast(sse.Message{
		Channel: sse.UserChannel(userID),
		Event:   sse.EventLessonPlanCreated,
		Data:    map[string]any{"id": saved.ID, "title": saved.Title, "kind": "story"},
	})
	s.log.Info("Generated story lesson plan", "planID", saved.ID, "topic", topic)
	return saved, nil
}
