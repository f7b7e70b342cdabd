package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mamamath/mothermath-backend/internal/handlers"
	"github.com/mamamath/mothermath-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware   *middleware.AuthMiddleware
	LessonHandler    *handlers.LessonHandler
	ChatHandler      *handlers.ChatHandler
	AnalysisHandler  *handlers.AnalysisHandler
	InterviewHandler *handlers.InterviewHandler
	VoiceHandler     *handlers.VoiceHandler
	SSEHandler       *handlers.SSEHandler
	AllowedOrigins   []string
	TracingEnabled   bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("mothermath-backend"))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/api/voice/events", cfg.VoiceHandler.Events)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Lesson wizard and library
	api.POST("/lessons/outline", cfg.LessonHandler.GenerateOutline)
	api.POST("/lessons/generate", cfg.LessonHandler.GenerateDetailed)
	api.POST("/lessons", cfg.LessonHandler.Save)
	api.GET("/lessons", cfg.LessonHandler.List)
	api.GET("/lessons/:id", cfg.LessonHandler.Get)
	api.DELETE("/lessons/:id", cfg.LessonHandler.Delete)
	api.POST("/lessons/:id/export/pdf", cfg.LessonHandler.ExportPDF)
	api.POST("/lessons/:id/export/slides", cfg.LessonHandler.ExportSlides)

	// Stateless exports from client-held content
	api.POST("/export/pdf", cfg.LessonHandler.RenderPDF)
	api.POST("/export/slides", cfg.LessonHandler.RenderSlides)

	// Story-based plans
	api.POST("/stories/generate", cfg.LessonHandler.GenerateStory)

	// Curriculum chatbot
	api.POST("/chat", cfg.ChatHandler.Respond)
	api.GET("/chat/starters", cfg.ChatHandler.Starters)

	// Student-work and transcript analysis
	api.POST("/analysis/work", cfg.AnalysisHandler.AnalyzeWork)
	api.POST("/analyze", cfg.AnalysisHandler.AnalyzeTranscript)

	// Mock interviews
	api.POST("/interviews", cfg.InterviewHandler.Create)
	api.GET("/interviews", cfg.InterviewHandler.List)
	api.GET("/interviews/:id", cfg.InterviewHandler.Get)
	api.DELETE("/interviews/:id", cfg.InterviewHandler.Delete)
	api.PUT("/interviews/:id/transcript", cfg.InterviewHandler.SaveTranscript)
	api.POST("/interviews/:id/feedback", cfg.InterviewHandler.GenerateFeedback)
	api.POST("/interviews/:id/session/start", cfg.InterviewHandler.StartSession)
	api.POST("/interviews/:id/session/stop", cfg.InterviewHandler.StopSession)

	// Event stream
	api.GET("/sse/stream", cfg.SSEHandler.Stream)

	return router
}

// SplitOrigins parses a comma-separated origin list from the environment.
func SplitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
