package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mamamath/mothermath-backend/internal/clients/openrouter"
	"github.com/mamamath/mothermath-backend/internal/types"
)

type memInterviewRepo struct {
	mu         sync.Mutex
	interviews map[uuid.UUID]*types.Interview
}

func newMemInterviewRepo() *memInterviewRepo {
	return &memInterviewRepo{interviews: make(map[uuid.UUID]*types.Interview)}
}

func (f *memInterviewRepo) Create(_ context.Context, _ *gorm.DB, iv *types.Interview) (*types.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if iv.ID == uuid.Nil {
		iv.ID = uuid.New()
	}
	f.interviews[iv.ID] = iv
	return iv, nil
}

func (f *memInterviewRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	iv, ok := f.interviews[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return iv, nil
}

func (f *memInterviewRepo) ListByUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*types.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Interview
	for _, iv := range f.interviews {
		if iv.UserID == userID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (f *memInterviewRepo) UpdateTranscript(_ context.Context, _ *gorm.DB, id uuid.UUID, transcript []types.TranscriptEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	iv, ok := f.interviews[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	iv.Transcript = datatypes.NewJSONSlice(transcript)
	return nil
}

func (f *memInterviewRepo) UpdateFeedback(_ context.Context, _ *gorm.DB, id uuid.UUID, feedback string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	iv, ok := f.interviews[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	iv.Feedback = feedback
	return nil
}

func (f *memInterviewRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.interviews, id)
	return nil
}

func setupInput() CreateInterviewInput {
	return CreateInterviewInput{
		Role:        "Primary Mathematics Teacher",
		Level:       "Primary",
		Topic:       "Fractions",
		Focus:       "classroom management",
		TimeMinutes: 20,
	}
}

func TestCreateInterviewGeneratesQuestions(t *testing.T) {
	log, _ := serviceDeps(t)
	repo := newMemInterviewRepo()
	gateway := openrouter.NewMockClient(openrouter.MockResponse{
		Content: `{"questions":["Why teaching?","How do you manage a large class?"]}`,
	})
	svc := NewInterviewService(nil, log, repo, gateway)

	iv, err := svc.Create(context.Background(), uuid.New(), setupInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(iv.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(iv.Questions))
	}
	if iv.Time != 20 {
		t.Fatalf("time = %d", iv.Time)
	}
}

func TestCreateInterviewRejectsEmptyQuestionSet(t *testing.T) {
	log, _ := serviceDeps(t)
	gateway := openrouter.NewMockClient(openrouter.MockResponse{Content: `{"questions":[]}`})
	svc := NewInterviewService(nil, log, newMemInterviewRepo(), gateway)

	if _, err := svc.Create(context.Background(), uuid.New(), setupInput()); !errors.Is(err, types.ErrNoQuestions) {
		t.Fatalf("empty question set err = %v", err)
	}
}

func TestGenerateFeedbackPersists(t *testing.T) {
	log, _ := serviceDeps(t)
	repo := newMemInterviewRepo()
	gateway := openrouter.NewMockClient(
		openrouter.MockResponse{Content: `{"questions":["Why teaching?"]}`},
		openrouter.MockResponse{Content: "**Overall Summary:** solid."},
	)
	svc := NewInterviewService(nil, log, repo, gateway)
	userID := uuid.New()

	iv, err := svc.Create(context.Background(), userID, setupInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// No transcript yet: feedback must fail before any gateway call.
	if _, err := svc.GenerateFeedback(context.Background(), userID, iv.ID); !errors.Is(err, types.ErrEmptyTranscript) {
		t.Fatalf("feedback without transcript err = %v", err)
	}

	transcript := []types.TranscriptEntry{
		{Role: "assistant", Content: "Why teaching?"},
		{Role: "user", Content: "I love helping children learn."},
	}
	if err := svc.SaveTranscript(context.Background(), userID, iv.ID, transcript); err != nil {
		t.Fatalf("SaveTranscript: %v", err)
	}

	feedback, err := svc.GenerateFeedback(context.Background(), userID, iv.ID)
	if err != nil {
		t.Fatalf("GenerateFeedback: %v", err)
	}
	if feedback == "" {
		t.Fatal("empty feedback")
	}
	stored, _ := repo.GetByID(context.Background(), nil, iv.ID)
	if stored.Feedback != feedback {
		t.Fatal("feedback was not persisted")
	}
}

func TestInterviewOwnership(t *testing.T) {
	log, _ := serviceDeps(t)
	repo := newMemInterviewRepo()
	gateway := openrouter.NewMockClient(openrouter.MockResponse{Content: `{"questions":["Why teaching?"]}`})
	svc := NewInterviewService(nil, log, repo, gateway)

	iv, err := svc.Create(context.Background(), uuid.New(), setupInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New(), iv.ID); !errors.Is(err, ErrInterviewNotFound) {
		t.Fatalf("foreign Get err = %v", err)
	}
	if err := svc.Delete(context.Background(), uuid.New(), iv.ID); !errors.Is(err, ErrInterviewNotFound) {
		t.Fatalf("foreign Delete err = %v", err)
	}
}
