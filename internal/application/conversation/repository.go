package conversation

import (
	"context"
	"time"

	"github.com/tasktrack/platform/internal/domain"
)

// Repository is the durable store behind Service.
type Repository interface {
	CreateConversation(ctx context.Context, c domain.Conversation) (domain.Conversation, error)
	GetConversation(ctx context.Context, id string) (domain.Conversation, error)
	TouchConversation(ctx context.Context, id string, at time.Time) error
	ListConversationsForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Conversation, error)

	InsertMessage(ctx context.Context, m domain.Message) (domain.Message, error)
	GetMessageByExternalID(ctx context.Context, conversationID, externalID string) (domain.Message, bool, error)
	ListHistory(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)
	ListItems(ctx context.Context, conversationID string, after string, limit int, order domain.ItemOrder) (domain.MessagePage, error)

	DeleteExpiredMessages(ctx context.Context) (int, error)
}
