package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/muhajirhq/muhajir-backend/internal/apierr"
	"github.com/muhajirhq/muhajir-backend/internal/response"
	"github.com/muhajirhq/muhajir-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.InvalidRequest(fmt.Errorf("invalid request body")))
		return
	}

	user, err := ah.authService.RegisterUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "userId": user.ID})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.InvalidRequest(fmt.Errorf("invalid request body")))
		return
	}

	user, token, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"user":    user,
		"session": gin.H{
			"access_token":  token.AccessToken,
			"refresh_token": token.RefreshToken,
			"expires_in":    int(ah.authService.GetAccessTTL().Seconds()),
		},
	})
}
