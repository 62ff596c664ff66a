package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/muhajirhq/muhajir-backend/internal/apierr"
	"github.com/muhajirhq/muhajir-backend/internal/requestdata"
	"github.com/muhajirhq/muhajir-backend/internal/response"
	"github.com/muhajirhq/muhajir-backend/internal/services"
)

type SubscriptionHandler struct {
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

func (sh *SubscriptionHandler) GetSubscription(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondAPIError(c, apierr.Unauthenticated(fmt.Errorf("no verified identity")))
		return
	}

	sub := sh.subscriptionService.GetForUser(c.Request.Context(), rd.UserID)
	response.RespondOK(c, gin.H{"subscription": sub})
}
