// Package conversation implements the Conversation Store (component H):
// stateless per-request chat thread persistence with user-isolated history
// and a stable message identity across the streaming placeholder/real-id
// transition.
package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tasktrack/platform/internal/domain"
)

// Service is stateless: every operation loads from the durable store,
// mutates, and returns — no in-process cache or session state.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires a Service against its repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// GetOrCreateConversation resolves an existing conversation (enforcing
// ownership) or creates a fresh one. A supplied id that doesn't belong to
// userID is FORBIDDEN, never NOT_FOUND leaked as absence; an id that
// doesn't exist at all is NOT_FOUND.
func (s *Service) GetOrCreateConversation(ctx context.Context, userID string, conversationID *string) (domain.Conversation, error) {
	if conversationID != nil {
		c, err := s.repo.GetConversation(ctx, *conversationID)
		if err != nil {
			return domain.Conversation{}, err
		}
		if c.UserID != userID {
			return domain.Conversation{}, &domain.ForbiddenError{Entity: "conversation", ID: *conversationID}
		}
		return c, nil
	}

	now := s.now()
	c := domain.Conversation{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Title:     fmt.Sprintf("Conversation %s", now.Format("2006-01-02 15:04")),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.repo.CreateConversation(ctx, c)
}

// AddMessage validates role, stamps ExpiresAt, and bumps the owning
// conversation's updated_at. ExternalItemID is set to the message's own id
// — a message added outside the streaming surface has no placeholder to
// resolve, so its stable identity is simply itself.
func (s *Service) AddMessage(ctx context.Context, userID, conversationID string, role domain.MessageRole, content string, toolCalls []byte) (domain.Message, error) {
	id := ulid.Make().String()
	return s.insertMessage(ctx, userID, conversationID, id, id, role, content, toolCalls)
}

// ResolveStreamedMessage implements the stable-identity rule: if
// streamedID is the placeholder sentinel, a fresh opaque id is minted and
// recorded as ExternalItemID; otherwise streamedID is preserved as-is so a
// client that already observed a real id continues to see the same one.
// Idempotent on streamedID: a retried persist call for an id already
// recorded returns the existing row rather than inserting a duplicate.
func (s *Service) ResolveStreamedMessage(ctx context.Context, userID, conversationID string, streamedID string, role domain.MessageRole, content string, toolCalls []byte) (domain.Message, error) {
	externalID := streamedID
	if externalID == domain.PlaceholderItemID {
		externalID = ulid.Make().String()
	} else if existing, ok, err := s.repo.GetMessageByExternalID(ctx, conversationID, externalID); err != nil {
		return domain.Message{}, err
	} else if ok {
		return existing, nil
	}
	return s.insertMessage(ctx, userID, conversationID, ulid.Make().String(), externalID, role, content, toolCalls)
}

func (s *Service) insertMessage(ctx context.Context, userID, conversationID, id, externalID string, role domain.MessageRole, content string, toolCalls []byte) (domain.Message, error) {
	if !role.Valid() {
		return domain.Message{}, &domain.ValidationError{Field: "role", Message: "unknown role: " + string(role)}
	}

	c, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return domain.Message{}, err
	}
	if c.UserID != userID {
		return domain.Message{}, &domain.ForbiddenError{Entity: "conversation", ID: conversationID}
	}

	now := s.now()
	m := domain.Message{
		ID:             id,
		ExternalItemID: externalID,
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		Content:        content,
		ToolCalls:      toolCalls,
		CreatedAt:      now,
		ExpiresAt:      now.Add(domain.ConversationMessageRetention),
	}

	inserted, err := s.repo.InsertMessage(ctx, m)
	if err != nil {
		return domain.Message{}, err
	}
	if err := s.repo.TouchConversation(ctx, conversationID, now); err != nil {
		return domain.Message{}, err
	}
	return inserted, nil
}

// ListConversations returns userID's conversations, most recently updated
// first, limit/offset paginated.
func (s *Service) ListConversations(ctx context.Context, userID string, limit, offset int) ([]domain.Conversation, error) {
	return s.repo.ListConversationsForUser(ctx, userID, limit, offset)
}

// LoadHistory returns chronological {role, content} turns. The caller (the
// Task API orchestrator) is responsible for user isolation by only ever
// passing a conversationID it already verified belongs to userID.
func (s *Service) LoadHistory(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	return s.repo.ListHistory(ctx, conversationID, limit)
}

// LoadItems returns a cursor-paginated page of a thread's messages.
func (s *Service) LoadItems(ctx context.Context, threadID string, after string, limit int, order domain.ItemOrder) (domain.MessagePage, error) {
	return s.repo.ListItems(ctx, threadID, after, limit, order)
}

// CleanupResult is the daily retention job's outcome.
type CleanupResult struct {
	DeletedCount int
	Timestamp    time.Time
}

// RunCleanup deletes every message whose expires_at has passed. Intended to
// run once per day from a scheduled job, not the request path.
func (s *Service) RunCleanup(ctx context.Context) (CleanupResult, error) {
	n, err := s.repo.DeleteExpiredMessages(ctx)
	if err != nil {
		return CleanupResult{}, err
	}
	return CleanupResult{DeletedCount: n, Timestamp: s.now()}, nil
}
