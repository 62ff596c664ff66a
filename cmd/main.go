package main

import (
	"fmt"
	"os"

	"github.com/muhajirhq/muhajir-backend/internal/clients/gemini"
	"github.com/muhajirhq/muhajir-backend/internal/clients/redis"
	"github.com/muhajirhq/muhajir-backend/internal/config"
	"github.com/muhajirhq/muhajir-backend/internal/db"
	"github.com/muhajirhq/muhajir-backend/internal/handlers"
	"github.com/muhajirhq/muhajir-backend/internal/logger"
	"github.com/muhajirhq/muhajir-backend/internal/middleware"
	"github.com/muhajirhq/muhajir-backend/internal/ratelimit"
	"github.com/muhajirhq/muhajir-backend/internal/repos"
	"github.com/muhajirhq/muhajir-backend/internal/server"
	"github.com/muhajirhq/muhajir-backend/internal/services"
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

	// Env
	log.Info("Loading environment variables...")
	cfg := config.Load(log)

	// Postgres. Missing or unreachable datastore halts startup: a plan service
	// that cannot record history or verify sessions serves nothing useful.
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	chatMessageRepo := repos.NewChatMessageRepo(thePG, log)
	subscriptionRepo := repos.NewSubscriptionRepo(thePG, log)

	// Clients. GEMINI_API_KEY is required; halting beats running a generation
	// API that can only ever answer 502.
	geminiClient, err := gemini.NewClient(log)
	if err != nil {
		log.Error("Could not init Gemini client", "error", err)
		os.Exit(1)
	}

	// Rate-limit counters: shared redis when REDIS_ADDR is set, otherwise
	// in-process (ceilings then apply per instance).
	var counterStore ratelimit.CounterStore
	if os.Getenv("REDIS_ADDR") != "" {
		redisStore, err := redis.NewCounterStore(log)
		if err != nil {
			log.Error("Could not init redis counter store", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		counterStore = redisStore
	} else {
		log.Info("REDIS_ADDR not set, using in-memory rate-limit counters")
		counterStore = ratelimit.NewMemoryStore()
	}
	limiter := ratelimit.NewLimiter(log, counterStore, cfg.RateLimitWindow)

	// Services
	log.Info("Setting up services...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	subscriptionService := services.NewSubscriptionService(thePG, log, subscriptionRepo)
	chatService := services.NewChatService(thePG, log, chatMessageRepo, geminiClient)

	// Handlers
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(authService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:         authHandler,
		SubscriptionHandler: subscriptionHandler,
		ChatHandler:         chatHandler,
		AuthMiddleware:      authMiddleware,
		Limiter:             limiter,
		GeneralLimit:        cfg.GeneralLimit,
		AuthLimit:           cfg.AuthLimit,
		PlanLimit:           cfg.PlanLimit,
		AllowedOrigins:      cfg.AllowedOrigins,
		StaticDir:           cfg.StaticDir,
	})

	log.Info("Server listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
