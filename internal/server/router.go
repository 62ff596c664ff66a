package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/muhajirhq/muhajir-backend/internal/handlers"
	"github.com/muhajirhq/muhajir-backend/internal/middleware"
	"github.com/muhajirhq/muhajir-backend/internal/ratelimit"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	SubscriptionHandler *handlers.SubscriptionHandler
	ChatHandler         *handlers.ChatHandler
	AuthMiddleware      *middleware.AuthMiddleware
	Limiter             *ratelimit.Limiter

	GeneralLimit int
	AuthLimit    int
	PlanLimit    int

	AllowedOrigins []string
	StaticDir      string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Every route shares the general ceiling; tighter class ceilings stack on
	// top of it below.
	router.Use(cfg.Limiter.Middleware(ratelimit.ClassGeneral, cfg.GeneralLimit))

	router.GET("/healthcheck", handlers.HealthCheck)

	// Public auth endpoints, throttled hard against credential guessing.
	authAPI := router.Group("/api")
	authAPI.Use(cfg.Limiter.Middleware(ratelimit.ClassAuth, cfg.AuthLimit))
	{
		authAPI.POST("/signup", cfg.AuthHandler.Signup)
		authAPI.POST("/login", cfg.AuthHandler.Login)
	}

	// Plan generation: the rate check runs before identity verification so an
	// over-budget caller costs nothing downstream.
	planAPI := router.Group("/api")
	planAPI.Use(cfg.Limiter.Middleware(ratelimit.ClassPlan, cfg.PlanLimit))
	planAPI.Use(cfg.AuthMiddleware.RequireAuth())
	{
		planAPI.POST("/generate-plan", cfg.ChatHandler.GeneratePlan)
	}

	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.GET("/subscription", cfg.SubscriptionHandler.GetSubscription)
		protected.GET("/chat/history", cfg.ChatHandler.GetHistory)
		protected.POST("/chat/history", cfg.ChatHandler.GetHistory)
		protected.POST("/chat/clear", cfg.ChatHandler.ClearHistory)
	}

	registerStatic(router, cfg.StaticDir)

	return router
}

// registerStatic serves the single-page app shell: real files from StaticDir,
// index.html for everything else so client-side routes resolve.
func registerStatic(router *gin.Engine, staticDir string) {
	if staticDir == "" {
		return
	}
	router.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "not found"}})
			return
		}
		reqPath := filepath.Clean(c.Request.URL.Path)
		if strings.HasPrefix(reqPath, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "not found"}})
			return
		}
		full := filepath.Join(staticDir, reqPath)
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			c.File(full)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
}
