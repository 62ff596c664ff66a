package types

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is read-only from this service; billing writes it elsewhere.
// At most one row per user; a missing row means "no subscription".
type Subscription struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"uniqueIndex;not null" json:"user_id"`
	User             *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	PlanTier         string    `gorm:"not null;column:plan_tier" json:"plan_tier"`
	Status           string    `gorm:"not null;column:status" json:"status"`
	CurrentPeriodEnd time.Time `gorm:"column:current_period_end" json:"current_period_end"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
