package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ufgtutor/tutoria-backend/internal/clients/gcp"
	"github.com/ufgtutor/tutoria-backend/internal/clients/hf"
	"github.com/ufgtutor/tutoria-backend/internal/config"
	"github.com/ufgtutor/tutoria-backend/internal/extract"
	"github.com/ufgtutor/tutoria-backend/internal/handlers"
	"github.com/ufgtutor/tutoria-backend/internal/observability"
	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
	"github.com/ufgtutor/tutoria-backend/internal/server"
	"github.com/ufgtutor/tutoria-backend/internal/services"
	"github.com/ufgtutor/tutoria-backend/internal/utils"
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

	ctx := context.Background()

	// Tracing
	tracingEnabled := observability.Enabled()
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "tutoria-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOTel(sctx)
	}()

	// Clients
	log.Info("Setting up clients from main...")
	visionService, err := gcp.NewVisionService(ctx, log)
	if err != nil {
		// Image attachments degrade to "no extracted text" without OCR; the
		// rest of the pipeline still works.
		log.Warn("Could not init VisionService, image OCR disabled", "error", err)
		visionService = nil
	} else {
		defer visionService.Close()
	}
	hfClient, err := hf.NewClient(log)
	if err != nil {
		log.Error("Could not init HF client", "error", err)
		os.Exit(1)
	}

	// Model candidates
	candidates, err := config.LoadModelCandidates(log)
	if err != nil {
		log.Error("Could not load model candidates", "error", err)
		os.Exit(1)
	}
	for i, c := range candidates {
		log.Info("Model candidate registered", "priority", i+1, "candidate", c.ID())
	}

	// Services
	log.Info("Setting up services from main...")
	var ocr extract.OCRClient
	if visionService != nil {
		ocr = visionService
	}
	extractService := extract.NewService(log, ocr)
	attachmentService := services.NewAttachmentService(log, extractService)
	promptBuilder := services.NewPromptBuilder(log)
	chatService := services.NewChatService(log, hfClient, candidates)

	// Handlers
	attachmentHandler := handlers.NewAttachmentHandler(log, attachmentService)
	chatHandler := handlers.NewChatHandler(log, promptBuilder, chatService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:               log,
		AllowedOrigins:    server.SplitOrigins(utils.GetEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000", log)),
		TracingEnabled:    tracingEnabled,
		AttachmentHandler: attachmentHandler,
		ChatHandler:       chatHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
