package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/muhajirhq/muhajir-backend/internal/logger"
	"github.com/muhajirhq/muhajir-backend/internal/types"
)

type SubscriptionRepo interface {
	// GetByUserID returns (nil, nil) when the user has no subscription row.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Subscription, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (sr *subscriptionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return sr.db
}

func (sr *subscriptionRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Subscription, error) {
	var sub types.Subscription
	err := sr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
