package types

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one immutable entry of a conversation. Rows are only ever
// appended or bulk-deleted per (user, conversation); there is no update path.
// The auto-increment ID breaks created_at ties when reading in order.
type ChatMessage struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	ConversationID string    `gorm:"index:idx_chat_scope;not null;column:conversation_id" json:"conversation_id"`
	UserID         uuid.UUID `gorm:"index:idx_chat_scope;not null;column:user_id" json:"user_id"`
	Role           string    `gorm:"not null;column:role" json:"role"`
	Message        string    `gorm:"type:text;not null;column:message" json:"message"`
	Country        string    `gorm:"column:country" json:"country,omitempty"`
	IsPlan         bool      `gorm:"not null;default:false;column:is_plan" json:"is_plan"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:created_at" json:"created_at"`
}

func (ChatMessage) TableName() string {
	return "chat_history"
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
