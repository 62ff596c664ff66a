package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/muhajirhq/muhajir-backend/internal/logger"
	"github.com/muhajirhq/muhajir-backend/internal/repos"
	"github.com/muhajirhq/muhajir-backend/internal/types"
)

type SubscriptionService interface {
	// GetForUser returns nil both when the user has no subscription and when
	// the lookup fails; a billing hiccup must not break the app shell.
	GetForUser(ctx context.Context, userID uuid.UUID) *types.Subscription
}

type subscriptionService struct {
	db               *gorm.DB
	log              *logger.Logger
	subscriptionRepo repos.SubscriptionRepo
}

func NewSubscriptionService(db *gorm.DB, log *logger.Logger, subscriptionRepo repos.SubscriptionRepo) SubscriptionService {
	return &subscriptionService{
		db:               db,
		log:              log.With("service", "SubscriptionService"),
		subscriptionRepo: subscriptionRepo,
	}
}

func (ss *subscriptionService) GetForUser(ctx context.Context, userID uuid.UUID) *types.Subscription {
	sub, err := ss.subscriptionRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		ss.log.Warn("Subscription lookup failed, degrading to none", "user_id", userID.String(), "error", err)
		return nil
	}
	return sub
}
