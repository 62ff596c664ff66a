package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/muhajirhq/muhajir-backend/internal/apierr"
	"github.com/muhajirhq/muhajir-backend/internal/requestdata"
	"github.com/muhajirhq/muhajir-backend/internal/response"
	"github.com/muhajirhq/muhajir-backend/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Request bodies intentionally carry no user id field; scoping always comes
// from the verified identity in the request context.
type generatePlanRequest struct {
	ConversationID string                   `json:"conversationId"`
	Country        string                   `json:"country"`
	QAList         []services.InterviewItem `json:"qaList"`
}

type conversationRequest struct {
	ConversationID string `json:"conversationId"`
}

func (ch *ChatHandler) GeneratePlan(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondAPIError(c, apierr.Unauthenticated(fmt.Errorf("no verified identity")))
		return
	}

	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.InvalidRequest(fmt.Errorf("invalid request body")))
		return
	}

	plan, _, err := ch.chatService.GeneratePlan(c.Request.Context(), rd.UserID, req.ConversationID, req.Country, req.QAList)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": plan})
}

func (ch *ChatHandler) GetHistory(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondAPIError(c, apierr.Unauthenticated(fmt.Errorf("no verified identity")))
		return
	}

	conversationID := conversationIDFromRequest(c)
	history := ch.chatService.GetHistory(c.Request.Context(), rd.UserID, conversationID)
	response.RespondOK(c, gin.H{"history": history})
}

func (ch *ChatHandler) ClearHistory(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondAPIError(c, apierr.Unauthenticated(fmt.Errorf("no verified identity")))
		return
	}

	var req conversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.InvalidRequest(fmt.Errorf("invalid request body")))
		return
	}

	if err := ch.chatService.ClearHistory(c.Request.Context(), rd.UserID, req.ConversationID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// History is reachable via GET (query param) and POST (JSON body).
func conversationIDFromRequest(c *gin.Context) string {
	if q := strings.TrimSpace(c.Query("conversationId")); q != "" {
		return q
	}
	var req conversationRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.ConversationID
	}
	return ""
}
