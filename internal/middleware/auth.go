package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/muhajirhq/muhajir-backend/internal/apierr"
	"github.com/muhajirhq/muhajir-backend/internal/logger"
	"github.com/muhajirhq/muhajir-backend/internal/requestdata"
	"github.com/muhajirhq/muhajir-backend/internal/response"
	"github.com/muhajirhq/muhajir-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		log:         log.With("middleware", "AuthMiddleware"),
		authService: authService,
	}
}

// RequireAuth aborts unauthenticated requests before any downstream work. On
// success the verified user id rides the request context; handlers never read
// an identity from the request body.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			response.AbortAPIError(c, apierr.Unauthenticated(fmt.Errorf("missing or invalid bearer token")))
			return
		}

		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Token verification failed", "path", c.Request.URL.Path, "error", err)
			response.AbortAPIError(c, apierr.Unauthenticated(fmt.Errorf("invalid or expired session")))
			return
		}

		rd := requestdata.GetRequestData(ctx)
		if rd == nil || rd.UserID == uuid.Nil {
			response.AbortAPIError(c, apierr.Unauthenticated(fmt.Errorf("invalid or expired session")))
			return
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
