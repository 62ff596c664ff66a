package config

import (
	"strings"
	"time"

	"github.com/muhajirhq/muhajir-backend/internal/logger"
	"github.com/muhajirhq/muhajir-backend/internal/utils"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	RateLimitWindow time.Duration
	GeneralLimit    int
	AuthLimit       int
	PlanLimit       int

	AllowedOrigins []string
	StaticDir      string
}

func Load(log *logger.Logger) Config {
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	windowMinutes := utils.GetEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 15, log)

	origins := strings.Split(utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173", log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		Port:            utils.GetEnv("PORT", "3000", log),
		JWTSecretKey:    utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		RateLimitWindow: time.Duration(windowMinutes) * time.Minute,
		GeneralLimit:    utils.GetEnvAsInt("RATE_LIMIT_GENERAL", 100, log),
		AuthLimit:       utils.GetEnvAsInt("RATE_LIMIT_AUTH", 10, log),
		PlanLimit:       utils.GetEnvAsInt("RATE_LIMIT_PLAN", 10, log),
		AllowedOrigins:  origins,
		StaticDir:       utils.GetEnv("STATIC_DIR", "./public", log),
	}
}
