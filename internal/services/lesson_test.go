package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mamamath/mothermath-backend/internal/cache"
	"github.com/mamamath/mothermath-backend/internal/clients/openrouter"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/sse"
	"github.com/mamamath/mothermath-backend/internal/types"
)

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[uuid.UUID]*types.LessonPlan
	order []uuid.UUID
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: make(map[uuid.UUID]*types.LessonPlan)}
}

func (f *fakePlanRepo) Create(_ context.Context, _ *gorm.DB, plan *types.LessonPlan) (*types.LessonPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = time.Now()
	f.plans[plan.ID] = plan
	f.order = append(f.order, plan.ID)
	return plan, nil
}

func (f *fakePlanRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.LessonPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	plan, ok := f.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return plan, nil
}

func (f *fakePlanRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*types.LessonPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.LessonPlan
	for i := len(f.order) - 1; i >= 0; i-- {
		if p, ok := f.plans[f.order[i]]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlanRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.plans, id)
	return nil
}

func serviceDeps(t *testing.T) (*logger.Logger, *sse.Hub) {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log, sse.NewHub(log)
}

func TestGenerateOutlineValidation(t *testing.T) {
	log, hub := serviceDeps(t)
	gateway := openrouter.NewMockClient()
	svc := NewLessonService(nil, log, newFakePlanRepo(), gateway, cache.NewNoopCache(), hub)

	if _, err := svc.GenerateOutline(context.Background(), "", "Class 3"); !errors.Is(err, types.ErrEmptyTopic) {
		t.Fatalf("empty topic err = %v", err)
	}
	if _, err := svc.GenerateOutline(context.Background(), "Fractions", ""); !errors.Is(err, types.ErrEmptyLevel) {
		t.Fatalf("empty level err = %v", err)
	}
	if _, err := svc.GenerateOutline(context.Background(), "French colonial history", "Class 3"); !errors.Is(err, ErrNotMathTopic) {
		t.Fatalf("non-math topic err = %v", err)
	}
	if gateway.CallCount() != 0 {
		t.Fatalf("validation failures reached the gateway %d times", gateway.CallCount())
	}
}

func TestGenerateOutlineParsesSections(t *testing.T) {
	log, hub := serviceDeps(t)
	gateway := openrouter.NewMockClient(openrouter.MockResponse{
		Content: "```json\n" + `{"sections":[{"title":"INTRODUCTION","keyPoints":"greet"},{"title":"PRESENTATION","keyPoints":"model halves"}]}` + "\n```",
	})
	svc := NewLessonService(nil, log, newFakePlanRepo(), gateway, cache.NewNoopCache(), hub)

	sections, err := svc.GenerateOutline(context.Background(), "Fractions", "Class 3")
	if err != nil {
		t.Fatalf("GenerateOutline: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	if sections[0].ID == "" || sections[1].ID == "" {
		t.Fatalf("missing ids were not assigned: %+v", sections)
	}
	if sections[0].Title != "INTRODUCTION" {
		t.Fatalf("section order changed: %+v", sections)
	}
}

const detailedLessonJSON = `{"lessonPlan":{"title":"Understanding Halves","gradeLevel":"Class 3","sections":[{"title":"INTRODUCTION","teacherActivities":["greet"],"learnerActivities":["respond"]}]}}`

func scaffold() []types.LessonSection {
	return []types.LessonSection{
		{ID: "s1", Title: "INTRODUCTION", KeyPoints: "greet"},
		{ID: "s2", Title: "PRESENTATION", KeyPoints: "model halves"},
	}
}

func TestGenerateDetailedSavesPlan(t *testing.T) {
	log, hub := serviceDeps(t)
	repo := newFakePlanRepo()
	gateway := openrouter.NewMockClient(openrouter.MockResponse{Content: detailedLessonJSON})
	svc := NewLessonService(nil, log, repo, gateway, cache.NewNoopCache(), hub)
	userID := uuid.New()

	plan, err := svc.GenerateDetailed(context.Background(), userID, "Fractions", "Class 3", scaffold())
	if err != nil {
		t.Fatalf("GenerateDetailed: %v", err)
	}
	if plan.Title != "Understanding Halves" {
		t.Fatalf("title = %q, want canonical title", plan.Title)
	}
	if plan.Kind != "standard" {
		t.Fatalf("kind = %q", plan.Kind)
	}
	if len(plan.Content) == 0 {
		t.Fatal("normalized content was not stored")
	}
	if plan.GeneratedContent == "" {
		t.Fatal("markdown rendering was not stored")
	}

	listed, err := svc.List(context.Background(), userID)
	if err != nil || len(listed) != 1 {
		t.Fatalf("List after save = %v plans, err %v", len(listed), err)
	}
}

func TestGenerateDetailedSavesTextFallback(t *testing.T) {
	log, hub := serviceDeps(t)
	repo := newFakePlanRepo()
	gateway := openrouter.NewMockClient(openrouter.MockResponse{Content: "Just prose, not JSON."})
	svc := NewLessonService(nil, log, repo, gateway, cache.NewNoopCache(), hub)

	plan, err := svc.GenerateDetailed(context.Background(), uuid.New(), "Fractions", "Class 3", scaffold())
	if err != nil {
		t.Fatalf("GenerateDetailed: %v", err)
	}
	if plan.Title != "Fractions" {
		t.Fatalf("fallback title = %q, want topic", plan.Title)
	}
	if len(plan.Content) != 0 {
		t.Fatal("non-JSON output should not populate Content")
	}
}

// blockingGateway implements openrouter.Client with a GenerateText that
// holds until released, to observe request coalescing.
type blockingGateway struct {
	openrouter.Client
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (b *blockingGateway) GenerateText(context.Context, string, string) (string, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-b.release
	return detailedLessonJSON, nil
}

func TestGenerateDetailedCoalescesDuplicates(t *testing.T) {
	log, hub := serviceDeps(t)
	repo := newFakePlanRepo()
	gateway := &blockingGateway{release: make(chan struct{})}
	svc := NewLessonService(nil, log, repo, gateway, cache.NewNoopCache(), hub)
	userID := uuid.New()

	var wg sync.WaitGroup
	results := make([]*types.LessonPlan, 2)
	started := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started <- struct{}{}
			plan, err := svc.GenerateDetailed(context.Background(), userID, "Fractions", "Class 3", scaffold())
			if err != nil {
				t.Errorf("GenerateDetailed: %v", err)
				return
			}
			results[i] = plan
		}(i)
	}
	<-started
	<-started
	// Give the second caller time to join the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(gateway.release)
	wg.Wait()

	if results[0] == nil || results[1] == nil {
		t.Fatal("a caller returned no plan")
	}
	if results[0].ID != results[1].ID {
		t.Fatalf("duplicate clicks produced two plans: %s vs %s", results[0].ID, results[1].ID)
	}
	if len(repo.plans) != 1 {
		t.Fatalf("repo holds %d plans, want 1", len(repo.plans))
	}
}

func TestSavePersistsClientHeldPlan(t *testing.T) {
	log, hub := serviceDeps(t)
	repo := newFakePlanRepo()
	svc := NewLessonService(nil, log, repo, openrouter.NewMockClient(), cache.NewNoopCache(), hub)
	userID := uuid.New()

	if _, err := svc.Save(context.Background(), userID, SaveLessonPlanInput{Level: "Class 3"}); !errors.Is(err, types.ErrEmptyTopic) {
		t.Fatalf("empty topic err = %v", err)
	}

	plan, err := svc.Save(context.Background(), userID, SaveLessonPlanInput{
		Topic:            "Fractions",
		Level:            "Class 3",
		Content:          []byte(detailedLessonJSON),
		GeneratedContent: "# Lesson Plan: Understanding Halves",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if plan.Title != "Understanding Halves" {
		t.Fatalf("title = %q, want canonical title", plan.Title)
	}
	if plan.Kind != "standard" {
		t.Fatalf("kind = %q", plan.Kind)
	}

	if _, err := svc.Save(context.Background(), userID, SaveLessonPlanInput{
		Topic:   "Fractions",
		Content: []byte("not a json document"),
	}); !errors.Is(err, openrouter.ErrInvalidJSON) {
		t.Fatalf("malformed content err = %v", err)
	}

	listed, err := svc.List(context.Background(), userID)
	if err != nil || len(listed) != 1 {
		t.Fatalf("List after save = %v plans, err %v", len(listed), err)
	}
}

func TestGetAndDeleteEnforceOwnership(t *testing.T) {
	log, hub := serviceDeps(t)
	repo := newFakePlanRepo()
	gateway := openrouter.NewMockClient(openrouter.MockResponse{Content: detailedLessonJSON})
	svc := NewLessonService(nil, log, repo, gateway, cache.NewNoopCache(), hub)

	owner := uuid.New()
	plan, err := svc.GenerateDetailed(context.Background(), owner, "Fractions", "Class 3", scaffold())
	if err != nil {
		t.Fatalf("GenerateDetailed: %v", err)
	}

	if _, err := svc.Get(context.Background(), uuid.New(), plan.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("foreign Get err = %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.New(), plan.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("foreign Delete err = %v", err)
	}
	if err := svc.Delete(context.Background(), owner, plan.ID); err != nil {
		t.Fatalf("owner Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), owner, plan.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("Get after delete err = %v", err)
	}
}
