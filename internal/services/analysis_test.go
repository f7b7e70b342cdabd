package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mamamath/mothermath-backend/internal/clients/openrouter"
	"github.com/mamamath/mothermath-backend/internal/types"
)

func TestAnalyzeWorkRequiresImage(t *testing.T) {
	log, _ := serviceDeps(t)
	gateway := openrouter.NewMockClient()
	svc := NewAnalysisService(log, gateway)

	if _, err := svc.AnalyzeWork(context.Background(), " ", ""); !errors.Is(err, ErrImageRequired) {
		t.Fatalf("missing image err = %v", err)
	}
	if gateway.CallCount() != 0 {
		t.Fatal("validation failure reached the gateway")
	}
}

func TestAnalyzeWorkSendsImage(t *testing.T) {
	log, _ := serviceDeps(t)
	gateway := openrouter.NewMockClient(openrouter.MockResponse{Content: "## Feedback\nGood counting."})
	svc := NewAnalysisService(log, gateway)

	out, err := svc.AnalyzeWork(context.Background(), "data:image/png;base64,AAAA", "Focus on carrying.")
	if err != nil {
		t.Fatalf("AnalyzeWork: %v", err)
	}
	if out == "" {
		t.Fatal("empty analysis")
	}
	call := gateway.Calls[0]
	if call.Method != "GenerateTextWithImage" || call.ImageURL == "" {
		t.Fatalf("unexpected gateway call: %+v", call)
	}
}

func TestAnalyzeTranscriptEmptyFailsBeforeNetwork(t *testing.T) {
	log, _ := serviceDeps(t)
	gateway := openrouter.NewMockClient()
	svc := NewAnalysisService(log, gateway)

	if _, err := svc.AnalyzeTranscript(context.Background(), nil); !errors.Is(err, types.ErrEmptyTranscript) {
		t.Fatalf("empty transcript err = %v", err)
	}
	if gateway.CallCount() != 0 {
		t.Fatal("empty transcript reached the gateway")
	}
}

func TestAnalyzeTranscriptGatewayErrorSurfaces(t *testing.T) {
	log, _ := serviceDeps(t)
	gateway := openrouter.NewMockClient(openrouter.MockResponse{
		Err: &openrouter.GatewayError{Status: 502, Message: "upstream down"},
	})
	svc := NewAnalysisService(log, gateway)

	_, err := svc.AnalyzeTranscript(context.Background(), []types.TranscriptEntry{
		{Role: "user", Content: "I would use games."},
	})
	var gwErr *openrouter.GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
}
