package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/platform/internal/domain"
)

type fakeRepo struct {
	conversations map[string]domain.Conversation
	messages      []domain.Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{conversations: make(map[string]domain.Conversation)}
}

func (f *fakeRepo) CreateConversation(_ context.Context, c domain.Conversation) (domain.Conversation, error) {
	f.conversations[c.ID] = c
	return c, nil
}

func (f *fakeRepo) GetConversation(_ context.Context, id string) (domain.Conversation, error) {
	c, ok := f.conversations[id]
	if !ok {
		return domain.Conversation{}, &domain.NotFoundError{Entity: "conversation", ID: id}
	}
	return c, nil
}

func (f *fakeRepo) TouchConversation(_ context.Context, id string, at time.Time) error {
	return nil
}

func (f *fakeRepo) InsertMessage(_ context.Context, m domain.Message) (domain.Message, error) {
	f.messages = append(f.messages, m)
	return m, nil
}

func (f *fakeRepo) GetMessageByExternalID(_ context.Context, conversationID, externalID string) (domain.Message, bool, error) {
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.ExternalItemID == externalID {
			return m, true, nil
		}
	}
	return domain.Message{}, false, nil
}

func (f *fakeRepo) ListHistory(_ context.Context, conversationID string, limit int) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListItems(_ context.Context, conversationID string, after string, limit int, order domain.ItemOrder) (domain.MessagePage, error) {
	return domain.MessagePage{}, nil
}

func (f *fakeRepo) DeleteExpiredMessages(_ context.Context) (int, error) {
	return 0, nil
}

func (f *fakeRepo) ListConversationsForUser(_ context.Context, userID string, limit, offset int) ([]domain.Conversation, error) {
	var out []domain.Conversation
	for _, c := range f.conversations {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestGetOrCreateConversation_CreatesWhenAbsent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	c, err := svc.GetOrCreateConversation(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Contains(t, c.Title, "Conversation ")
}

func TestGetOrCreateConversation_ForbiddenForNonOwner(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	c, err := svc.GetOrCreateConversation(context.Background(), "u1", nil)
	require.NoError(t, err)

	_, err = svc.GetOrCreateConversation(context.Background(), "u2", &c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResolveStreamedMessage_PlaceholderMintsFreshID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	c, err := svc.GetOrCreateConversation(context.Background(), "u1", nil)
	require.NoError(t, err)

	m, err := svc.ResolveStreamedMessage(context.Background(), "u1", c.ID, domain.PlaceholderItemID, domain.RoleAssistant, "hi", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, m.ExternalItemID)
}

func TestResolveStreamedMessage_IdempotentOnRepeatedExternalID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	c, err := svc.GetOrCreateConversation(context.Background(), "u1", nil)
	require.NoError(t, err)

	first, err := svc.ResolveStreamedMessage(context.Background(), "u1", c.ID, "stream-id-1", domain.RoleAssistant, "hi", nil)
	require.NoError(t, err)
	second, err := svc.ResolveStreamedMessage(context.Background(), "u1", c.ID, "stream-id-1", domain.RoleAssistant, "hi", nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.messages, 1)
}
