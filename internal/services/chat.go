package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/muhajirhq/muhajir-backend/internal/apierr"
	"github.com/muhajirhq/muhajir-backend/internal/clients/gemini"
	"github.com/muhajirhq/muhajir-backend/internal/logger"
	"github.com/muhajirhq/muhajir-backend/internal/repos"
	"github.com/muhajirhq/muhajir-backend/internal/types"
)

// appendTimeout bounds the background history write after a generation; it
// cannot ride the request context, which dies with the response.
const appendTimeout = 15 * time.Second

type ChatService interface {
	// GeneratePlan runs the pipeline prompt -> generation -> append. The
	// returned channel reports the outcome of the history append, which runs
	// after the plan is already handed to the caller: a successfully generated
	// plan is never withheld because the record failed to persist.
	GeneratePlan(ctx context.Context, userID uuid.UUID, conversationID, country string, qaList []InterviewItem) (string, <-chan error, error)

	// GetHistory returns at most repos.MaxHistoryPageSize messages, ascending
	// by creation time. Lookup failures degrade to an empty slice.
	GetHistory(ctx context.Context, userID uuid.UUID, conversationID string) []*types.ChatMessage

	// ClearHistory deletes the conversation scope; clearing an empty scope
	// succeeds.
	ClearHistory(ctx context.Context, userID uuid.UUID, conversationID string) error
}

type chatService struct {
	db        *gorm.DB
	log       *logger.Logger
	chatRepo  repos.ChatMessageRepo
	generator gemini.Client
}

func NewChatService(db *gorm.DB, log *logger.Logger, chatRepo repos.ChatMessageRepo, generator gemini.Client) ChatService {
	return &chatService{
		db:        db,
		log:       log.With("service", "ChatService"),
		chatRepo:  chatRepo,
		generator: generator,
	}
}

func (cs *chatService) GeneratePlan(ctx context.Context, userID uuid.UUID, conversationID, country string, qaList []InterviewItem) (string, <-chan error, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return "", nil, apierr.InvalidRequest(fmt.Errorf("country is required"))
	}
	if len(qaList) == 0 {
		return "", nil, apierr.InvalidRequest(fmt.Errorf("qaList must not be empty"))
	}

	prompt := BuildPlanPrompt(country, qaList)

	planText, err := cs.generator.GenerateText(ctx, prompt)
	if err != nil {
		cs.log.Error("Plan generation failed", "user_id", userID.String(), "conversation_id", conversationID, "error", err)
		return "", nil, apierr.UpstreamUnavailable(err)
	}

	msg := &types.ChatMessage{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           types.RoleAssistant,
		Message:        planText,
		Country:        country,
		IsPlan:         true,
	}

	done := make(chan error, 1)
	go func() {
		appendCtx, cancel := context.WithTimeout(context.Background(), appendTimeout)
		defer cancel()
		_, appendErr := cs.chatRepo.Append(appendCtx, nil, msg)
		if appendErr != nil {
			cs.log.Error("History append failed after successful generation",
				"user_id", userID.String(),
				"conversation_id", conversationID,
				"error", appendErr,
			)
		}
		done <- appendErr
		close(done)
	}()

	return planText, done, nil
}

func (cs *chatService) GetHistory(ctx context.Context, userID uuid.UUID, conversationID string) []*types.ChatMessage {
	messages, err := cs.chatRepo.ListByConversation(ctx, nil, userID, conversationID, repos.MaxHistoryPageSize)
	if err != nil {
		cs.log.Warn("History lookup failed, returning empty", "user_id", userID.String(), "conversation_id", conversationID, "error", err)
		return []*types.ChatMessage{}
	}
	if messages == nil {
		messages = []*types.ChatMessage{}
	}
	return messages
}

func (cs *chatService) ClearHistory(ctx context.Context, userID uuid.UUID, conversationID string) error {
	if err := cs.chatRepo.ClearConversation(ctx, nil, userID, conversationID); err != nil {
		return apierr.PersistenceFailed(fmt.Errorf("clear conversation: %w", err))
	}
	return nil
}
