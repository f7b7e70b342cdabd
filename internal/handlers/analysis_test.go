package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mamamath/mothermath-backend/internal/clients/openrouter"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/services"
)

func analyzeRouter(t *testing.T, gateway openrouter.Client) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	handler := NewAnalysisHandler(services.NewAnalysisService(log, gateway))
	router := gin.New()
	router.POST("/api/analyze", handler.AnalyzeTranscript)
	return router
}

func postAnalyze(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const twoTurnTranscript = `{"transcript":[{"role":"user","content":"5+5=10"},{"role":"assistant","content":"Correct!"}]}`

func TestAnalyzeTranscriptReturnsFeedback(t *testing.T) {
	gateway := openrouter.NewMockClient(openrouter.MockResponse{Content: "Strong number sense; work on explaining reasoning."})
	router := analyzeRouter(t, gateway)

	rec := postAnalyze(t, router, twoTurnTranscript)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Feedback string `json:"feedback"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Feedback == "" {
		t.Fatal("feedback is empty")
	}
}

func TestAnalyzeEmptyTranscriptIsBadRequest(t *testing.T) {
	gateway := openrouter.NewMockClient()
	router := analyzeRouter(t, gateway)

	for _, body := range []string{`{"transcript":[]}`, `{}`} {
		rec := postAnalyze(t, router, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status for %s = %d, want 400", body, rec.Code)
		}
		var envelope ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode error envelope: %v", err)
		}
		if envelope.Error.Message == "" {
			t.Fatal("error envelope has no message")
		}
	}
	if gateway.CallCount() != 0 {
		t.Fatalf("empty transcripts reached the gateway %d times", gateway.CallCount())
	}
}

func TestAnalyzeGatewayFailuresAreInternalErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{name: "missing_key", err: openrouter.ErrMissingCredentials},
		{name: "gateway_failure", err: &openrouter.GatewayError{Status: http.StatusBadGateway, Message: "upstream down"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gateway := openrouter.NewMockClient(openrouter.MockResponse{Err: tc.err})
			router := analyzeRouter(t, gateway)

			rec := postAnalyze(t, router, twoTurnTranscript)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500; body %s", rec.Code, rec.Body.String())
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode error envelope: %v", err)
			}
			if envelope.Error.Message == "" {
				t.Fatal("error envelope has no message")
			}
		})
	}
}
