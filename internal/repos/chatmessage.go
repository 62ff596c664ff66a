package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/muhajirhq/muhajir-backend/internal/logger"
	"github.com/muhajirhq/muhajir-backend/internal/types"
)

// MaxHistoryPageSize bounds every conversation read.
const MaxHistoryPageSize = 100

type ChatMessageRepo interface {
	Append(ctx context.Context, tx *gorm.DB, msg *types.ChatMessage) (*types.ChatMessage, error)
	ListByConversation(ctx context.Context, tx *gorm.DB, userID uuid.UUID, conversationID string, limit int) ([]*types.ChatMessage, error)
	ClearConversation(ctx context.Context, tx *gorm.DB, userID uuid.UUID, conversationID string) error
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (cr *chatMessageRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *chatMessageRepo) Append(ctx context.Context, tx *gorm.DB, msg *types.ChatMessage) (*types.ChatMessage, error) {
	if err := cr.conn(tx).WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// ListByConversation returns messages ordered by created_at ascending; the id
// tie-break keeps concurrent same-timestamp appends in insertion order.
func (cr *chatMessageRepo) ListByConversation(ctx context.Context, tx *gorm.DB, userID uuid.UUID, conversationID string, limit int) ([]*types.ChatMessage, error) {
	if limit <= 0 || limit > MaxHistoryPageSize {
		limit = MaxHistoryPageSize
	}

	var results []*types.ChatMessage
	if err := cr.conn(tx).WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *chatMessageRepo) ClearConversation(ctx context.Context, tx *gorm.DB, userID uuid.UUID, conversationID string) error {
	return cr.conn(tx).WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userID, conversationID).
		Delete(&types.ChatMessage{}).Error
}
