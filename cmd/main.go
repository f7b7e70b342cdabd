package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mamamath/mothermath-backend/internal/agent"
	"github.com/mamamath/mothermath-backend/internal/cache"
	"github.com/mamamath/mothermath-backend/internal/clients/openrouter"
	"github.com/mamamath/mothermath-backend/internal/clients/vapi"
	"github.com/mamamath/mothermath-backend/internal/db"
	"github.com/mamamath/mothermath-backend/internal/export"
	"github.com/mamamath/mothermath-backend/internal/handlers"
	"github.com/mamamath/mothermath-backend/internal/logger"
	"github.com/mamamath/mothermath-backend/internal/middleware"
	"github.com/mamamath/mothermath-backend/internal/observability"
	"github.com/mamamath/mothermath-backend/internal/repos"
	"github.com/mamamath/mothermath-backend/internal/server"
	"github.com/mamamath/mothermath-backend/internal/services"
	"github.com/mamamath/mothermath-backend/internal/sse"
	"github.com/mamamath/mothermath-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "mothermath-backend",
		Environment: os.Getenv("APP_ENV"),
		Version:     os.Getenv("APP_VERSION"),
	})
	if shutdownTracing != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(ctx)
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	port := utils.GetEnv("PORT", "8080", log)
	brandingPath := os.Getenv("EXPORT_BRANDING_PATH")
	slideFont := os.Getenv("EXPORT_FONT")
	voiceWebhookSecret := os.Getenv("VAPI_WEBHOOK_SECRET")
	allowedOrigins := server.SplitOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// Database
	dbService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	planRepo := repos.NewLessonPlanRepo(theDB, log)
	interviewRepo := repos.NewInterviewRepo(theDB, log)

	// Cache
	planCache, err := cache.NewLessonPlanCache(log)
	if err != nil {
		log.Warn("Lesson plan cache disabled", "error", err)
		planCache = cache.NewNoopCache()
	}

	// SSE
	log.Info("Setting up SSE hub now...")
	hub := sse.NewHub(log)

	// Gateway and voice clients
	gateway := openrouter.NewClientOrDisabled(log)
	var voiceClient vapi.Client
	voiceClient, err = vapi.NewClient(vapi.ConfigFromEnv(log), log)
	if err != nil {
		log.Warn("Voice client disabled", "error", err)
		voiceClient = vapi.NewMockClient()
	}

	// Exporters
	branding, err := export.LoadBranding(brandingPath)
	if err != nil {
		log.Error("Could not load export branding", "error", err)
		os.Exit(1)
	}
	logos := export.LoadLogos(branding, log)
	pdfExporter := export.NewPDFExporter(branding, logos, log)
	var slideExporter *export.SlideExporter
	if slideFont != "" {
		slideExporter, err = export.NewSlideExporter(branding, slideFont, log)
		if err != nil {
			log.Error("Could not init slide exporter", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("EXPORT_FONT not set; slide export disabled")
	}

	// Agent
	agentManager := agent.NewManager(voiceClient, hub, interviewRepo, log)

	// Services
	log.Info("Setting up Services from main...")
	lessonService := services.NewLessonService(theDB, log, planRepo, gateway, planCache, hub)
	storyService := services.NewStoryService(theDB, log, planRepo, gateway, planCache, hub)
	chatService := services.NewChatService(log, gateway)
	analysisService := services.NewAnalysisService(log, gateway)
	interviewService := services.NewInterviewService(theDB, log, interviewRepo, gateway)
	exportService := services.NewExportService(log, planRepo, pdfExporter, slideExporter)

	// Handlers
	log.Info("Setting up Handlers from main...")
	lessonHandler := handlers.NewLessonHandler(lessonService, storyService, exportService)
	chatHandler := handlers.NewChatHandler(chatService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	interviewHandler := handlers.NewInterviewHandler(interviewService, agentManager)
	voiceHandler := handlers.NewVoiceHandler(agentManager, voiceWebhookSecret, log)
	sseHandler := handlers.NewSSEHandler(hub, agentManager)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:   authMiddleware,
		LessonHandler:    lessonHandler,
		ChatHandler:      chatHandler,
		AnalysisHandler:  analysisHandler,
		InterviewHandler: interviewHandler,
		VoiceHandler:     voiceHandler,
		SSEHandler:       sseHandler,
		AllowedOrigins:   allowedOrigins,
		TracingEnabled:   observability.Enabled(),
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
