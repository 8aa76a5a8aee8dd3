package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prepquest/prepquest-backend/internal/config"
	"github.com/prepquest/prepquest-backend/internal/handler"
	"github.com/prepquest/prepquest-backend/internal/middleware"
	"github.com/prepquest/prepquest-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Session *handler.SessionHandler
	Catalog *handler.CatalogHandler
	History *handler.HistoryHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.Auth(cfg.AuthSecret)

	// Rate limiter for catalog routes, which proxy the upstream question
	// service (60 requests per minute per IP).
	catalogLimiter := middleware.NewRateLimiter(60, time.Minute)

	// ─── 1. Catalog Group (Rate Limited) ───────────────────────────────
	catalogAPI := router.Group("/api/v1/catalog")
	catalogAPI.Use(catalogLimiter.Middleware())
	{
		catalogAPI.GET("/exams", handlers.Catalog.ListExams)
		catalogAPI.GET("/exams/:exam/years", handlers.Catalog.ListYears)
		catalogAPI.GET("/exams/:exam/years/:year/subjects", handlers.Catalog.ListSubjects)
		catalogAPI.GET("/questions", handlers.Catalog.GetQuestions)
	}

	// ─── 2. Sessions Group ─────────────────────────────────────────────
	sessionsAPI := router.Group("/api/v1/sessions")
	sessionsAPI.Use(auth)
	{
		sessionsAPI.POST("", handlers.Session.CreateSession)
		sessionsAPI.GET("/:id", handlers.Session.GetSession)
		sessionsAPI.POST("/:id/next", handlers.Session.Next)
		sessionsAPI.POST("/:id/prev", handlers.Session.Prev)
		sessionsAPI.POST("/:id/answer", handlers.Session.Answer)
		sessionsAPI.POST("/:id/subject", handlers.Session.ChangeSubject)
		sessionsAPI.POST("/:id/page", handlers.Session.ChangePage)
		sessionsAPI.POST("/:id/submit", handlers.Session.Submit)
		sessionsAPI.GET("/:id/results", handlers.Session.GetResults)
		sessionsAPI.DELETE("/:id", handlers.Session.DeleteSession)
	}

	// ─── 3. History Group ──────────────────────────────────────────────
	historyAPI := router.Group("/api/v1/history")
	historyAPI.Use(auth)
	{
		historyAPI.GET("", handlers.History.ListAttempts)
		historyAPI.GET("/summary", handlers.History.Summary)
	}

	// ─── 4. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(auth)
	{
		ws.GET("/sessions/:id/stream", handlers.WS.SessionStream)
	}

	return router
}
