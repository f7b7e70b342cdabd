package prompts

import (
	"errors"
	"strings"
	"testing"

	"github.com/mamamath/mothermath-backend/internal/types"
)

func TestOutlineMentionsTopicAndLevel(t *testing.T) {
	req := Outline("Fractions", "Primary 3")
	if !strings.Contains(req.User, `"Fractions"`) {
		t.Fatalf("outline prompt missing topic: %q", req.User)
	}
	if !strings.Contains(req.User, "Primary 3") {
		t.Fatalf("outline prompt missing level: %q", req.User)
	}
	if !strings.Contains(req.User, "valid JSON object") {
		t.Fatal("outline prompt must mandate JSON output")
	}
}

func TestLessonPlanEmbedsScaffoldTitlesInOrder(t *testing.T) {
	sections := []types.LessonSection{
		{ID: "a", Title: "INTRODUCTION", KeyPoints: "warm up"},
		{ID: "b", Title: "PRESENTATION", KeyPoints: "core idea"},
		{ID: "c", Title: "EVALUATION", KeyPoints: "check"},
	}
	req := LessonPlan("Sets", "Primary 2", sections)

	intro := strings.Index(req.User, `"INTRODUCTION"`)
	pres := strings.Index(req.User, `"PRESENTATION"`)
	eval := strings.Index(req.User, `"EVALUATION"`)
	if intro < 0 || pres < 0 || eval < 0 {
		t.Fatalf("prompt missing scaffold titles: %q", req.User)
	}
	if !(intro < pres && pres < eval) {
		t.Fatal("scaffold titles must appear in scaffold order")
	}
	if !strings.Contains(req.User, `root key "lessonPlan"`) {
		t.Fatal("prompt must mandate the lessonPlan envelope")
	}
}

func TestStoryLessonPlanMandatesStoryEnvelope(t *testing.T) {
	req := StoryLessonPlan("Money", "Primary 4", []types.LessonSection{
		{ID: "a", Title: "INTRODUCTION", KeyPoints: "market visit"},
	})
	if !strings.Contains(req.User, `root key "storyLessonPlan"`) {
		t.Fatal("prompt must mandate the storyLessonPlan envelope")
	}
	if !strings.Contains(req.User, `"INTRODUCTION": market visit`) {
		t.Fatalf("prompt missing scaffold details: %q", req.User)
	}
}

func TestFeedbackRequiresTranscript(t *testing.T) {
	_, err := Feedback(nil)
	if !errors.Is(err, types.ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}

	req, err := Feedback([]types.TranscriptEntry{
		{Role: "user", Content: "5+5=10"},
		{Role: "assistant", Content: "Correct!"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(req.User, "5+5=10") {
		t.Fatalf("feedback prompt missing transcript content: %q", req.User)
	}
}

func TestInterviewAssistantNumbersQuestions(t *testing.T) {
	if _, err := InterviewAssistant("Ngum", nil); !errors.Is(err, types.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}

	system, err := InterviewAssistant("Ngum", []string{"Why teaching?", "Describe a lesson."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(system, "Ngum") {
		t.Fatal("assistant prompt missing user name")
	}
	if !strings.Contains(system, "1. Why teaching?") || !strings.Contains(system, "2. Describe a lesson.") {
		t.Fatalf("assistant prompt missing numbered questions: %q", system)
	}
}
