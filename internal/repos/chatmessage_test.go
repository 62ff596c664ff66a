package repos

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/muhajirhq/muhajir-backend/internal/logger"
	"github.com/muhajirhq/muhajir-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repos_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}, &types.UserToken{}, &types.ChatMessage{}, &types.Subscription{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func TestChatMessageListAscendingWithTieBreak(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatMessageRepo(db, newTestLogger())
	ctx := context.Background()
	userID := uuid.New()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Inserted out of chronological order; the middle two share a timestamp.
	inputs := []*types.ChatMessage{
		{ConversationID: "conv-1", UserID: userID, Role: types.RoleAssistant, Message: "third", CreatedAt: base.Add(2 * time.Second)},
		{ConversationID: "conv-1", UserID: userID, Role: types.RoleUser, Message: "first", CreatedAt: base},
		{ConversationID: "conv-1", UserID: userID, Role: types.RoleUser, Message: "second-a", CreatedAt: base.Add(time.Second)},
		{ConversationID: "conv-1", UserID: userID, Role: types.RoleAssistant, Message: "second-b", CreatedAt: base.Add(time.Second)},
	}
	for _, msg := range inputs {
		if _, err := repo.Append(ctx, nil, msg); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := repo.ListByConversation(ctx, nil, userID, "conv-1", 0)
	if err != nil {
		t.Fatalf("ListByConversation: %v", err)
	}
	want := []string{"first", "second-a", "second-b", "third"}
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d", len(got), len(want))
	}
	for i, msg := range got {
		if msg.Message != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, msg.Message, want[i])
		}
	}
}

func TestChatMessageListScopedToUserAndConversation(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatMessageRepo(db, newTestLogger())
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()

	seed := []*types.ChatMessage{
		{ConversationID: "conv-1", UserID: owner, Role: types.RoleUser, Message: "mine"},
		{ConversationID: "conv-2", UserID: owner, Role: types.RoleUser, Message: "other conversation"},
		{ConversationID: "conv-1", UserID: other, Role: types.RoleUser, Message: "other user"},
	}
	for _, msg := range seed {
		if _, err := repo.Append(ctx, nil, msg); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := repo.ListByConversation(ctx, nil, owner, "conv-1", 0)
	if err != nil {
		t.Fatalf("ListByConversation: %v", err)
	}
	if len(got) != 1 || got[0].Message != "mine" {
		t.Fatalf("scope leak: got %+v", got)
	}
}

func TestChatMessageListLimitClamp(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatMessageRepo(db, newTestLogger())
	ctx := context.Background()
	userID := uuid.New()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < MaxHistoryPageSize+5; i++ {
		msg := &types.ChatMessage{
			ConversationID: "conv-1",
			UserID:         userID,
			Role:           types.RoleUser,
			Message:        fmt.Sprintf("msg-%03d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		if _, err := repo.Append(ctx, nil, msg); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero_defaults_to_max", limit: 0, want: MaxHistoryPageSize},
		{name: "negative_defaults_to_max", limit: -1, want: MaxHistoryPageSize},
		{name: "over_max_clamped", limit: MaxHistoryPageSize + 50, want: MaxHistoryPageSize},
		{name: "small_limit_respected", limit: 3, want: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.ListByConversation(ctx, nil, userID, "conv-1", tc.limit)
			if err != nil {
				t.Fatalf("ListByConversation: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("got %d messages, want %d", len(got), tc.want)
			}
			// Oldest first regardless of limit.
			if got[0].Message != "msg-000" {
				t.Fatalf("first message %q, want msg-000", got[0].Message)
			}
		})
	}
}

func TestChatMessageClearIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatMessageRepo(db, newTestLogger())
	ctx := context.Background()
	userID := uuid.New()

	if _, err := repo.Append(ctx, nil, &types.ChatMessage{ConversationID: "conv-1", UserID: userID, Role: types.RoleUser, Message: "hello"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if err := repo.ClearConversation(ctx, nil, userID, "conv-1"); err != nil {
		t.Fatalf("first ClearConversation: %v", err)
	}
	got, err := repo.ListByConversation(ctx, nil, userID, "conv-1", 0)
	if err != nil {
		t.Fatalf("ListByConversation: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty conversation, got %d messages", len(got))
	}

	// Clearing an already-empty scope succeeds.
	if err := repo.ClearConversation(ctx, nil, userID, "conv-1"); err != nil {
		t.Fatalf("second ClearConversation: %v", err)
	}
}

func TestSubscriptionGetByUserIDMissingRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepo(db, newTestLogger())

	sub, err := repo.GetByUserID(context.Background(), nil, uuid.New())
	if err != nil {
		t.Fatalf("missing subscription must not be an error, got %v", err)
	}
	if sub != nil {
		t.Fatalf("expected nil subscription, got %+v", sub)
	}
}

func TestUserRepoEmailExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db, newTestLogger())
	ctx := context.Background()

	user := &types.User{ID: uuid.New(), Email: "amira@example.com", Password: "x", DisplayName: "amira"}
	if _, err := repo.Create(ctx, nil, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := repo.EmailExists(ctx, nil, "amira@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("expected email to exist")
	}
	exists, err = repo.EmailExists(ctx, nil, "nobody@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if exists {
		t.Fatalf("expected email to be free")
	}
}
