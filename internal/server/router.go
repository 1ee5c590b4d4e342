package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ufgtutor/tutoria-backend/internal/handlers"
	"github.com/ufgtutor/tutoria-backend/internal/middleware"
	"github.com/ufgtutor/tutoria-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log               *logger.Logger
	AllowedOrigins    []string
	TracingEnabled    bool
	AttachmentHandler *handlers.AttachmentHandler
	ChatHandler       *handlers.ChatHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("tutoria-backend"))
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/attachments", cfg.AttachmentHandler.Intake)
		api.POST("/chat", cfg.ChatHandler.Chat)
	}

	return router
}

// SplitOrigins turns the comma-separated CORS_ALLOWED_ORIGINS value into a
// clean origin list.
func SplitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
