package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tasktrack/platform/internal/domain"
)

func (s *ConversationStore) CreateConversation(ctx context.Context, c domain.Conversation) (domain.Conversation, error) {
	const q = `
		INSERT INTO conversations (id, user_id, title, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := s.db.Exec(ctx, q, c.ID, c.UserID, c.Title, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("postgres: create conversation: %w", err)
	}
	return c, nil
}

func (s *ConversationStore) GetConversation(ctx context.Context, id string) (domain.Conversation, error) {
	const q = `SELECT id, user_id, title, is_active, created_at, updated_at FROM conversations WHERE id = $1`
	var c domain.Conversation
	err := s.db.QueryRow(ctx, q, id).Scan(&c.ID, &c.UserID, &c.Title, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Conversation{}, &domain.NotFoundError{Entity: "conversation", ID: id}
		}
		return domain.Conversation{}, fmt.Errorf("postgres: get conversation: %w", err)
	}
	return c, nil
}

func (s *ConversationStore) TouchConversation(ctx context.Context, id string, at time.Time) error {
	tag, err := s.db.Exec(ctx, `UPDATE conversations SET updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("postgres: touch conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "conversation", ID: id}
	}
	return nil
}

// ListConversationsForUser returns userID's conversations newest-updated
// first.
func (s *ConversationStore) ListConversationsForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Conversation, error) {
	const q = `
		SELECT id, user_id, title, is_active, created_at, updated_at
		FROM conversations WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := s.db.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: list conversations: %w", err)
	}
	defer rows.Close()

	var out []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan conversation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertMessage is idempotent on (conversation_id, external_item_id): a
// retried persist for an id already recorded returns the existing row
// instead of violating the unique index.
func (s *ConversationStore) InsertMessage(ctx context.Context, m domain.Message) (domain.Message, error) {
	const q = `
		INSERT INTO messages (id, external_item_id, conversation_id, user_id, role, content, tool_calls, created_at, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (conversation_id, external_item_id) DO NOTHING`
	tag, err := s.db.Exec(ctx, q, m.ID, m.ExternalItemID, m.ConversationID, m.UserID, m.Role, m.Content, m.ToolCalls, m.CreatedAt, m.ExpiresAt)
	if err != nil {
		return domain.Message{}, fmt.Errorf("postgres: insert message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, ok, err := s.GetMessageByExternalID(ctx, m.ConversationID, m.ExternalItemID)
		if err != nil {
			return domain.Message{}, err
		}
		if ok {
			return existing, nil
		}
	}
	return m, nil
}

func (s *ConversationStore) GetMessageByExternalID(ctx context.Context, conversationID, externalID string) (domain.Message, bool, error) {
	const q = `
		SELECT id, external_item_id, conversation_id, user_id, role, content, tool_calls, created_at, expires_at
		FROM messages WHERE conversation_id = $1 AND external_item_id = $2`
	var m domain.Message
	err := s.db.QueryRow(ctx, q, conversationID, externalID).Scan(
		&m.ID, &m.ExternalItemID, &m.ConversationID, &m.UserID, &m.Role, &m.Content, &m.ToolCalls, &m.CreatedAt, &m.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Message{}, false, nil
		}
		return domain.Message{}, false, fmt.Errorf("postgres: get message by external id: %w", err)
	}
	return m, true, nil
}

func (s *ConversationStore) ListHistory(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	const q = `
		SELECT id, external_item_id, conversation_id, user_id, role, content, tool_calls, created_at, expires_at
		FROM messages WHERE conversation_id = $1 ORDER BY created_at, id LIMIT $2`
	rows, err := s.db.Query(ctx, q, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list message history: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ExternalItemID, &m.ConversationID, &m.UserID, &m.Role, &m.Content, &m.ToolCalls, &m.CreatedAt, &m.ExpiresAt); err != nil {
			return nil, fmt.Errorf("postgres: scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListItems returns a cursor-paginated page ordered by (created_at, id),
// the same tiebreaker ListHistory uses so pagination is stable even when
// multiple messages share a timestamp.
func (s *ConversationStore) ListItems(ctx context.Context, conversationID string, after string, limit int, order domain.ItemOrder) (domain.MessagePage, error) {
	dir := "ASC"
	cmp := ">"
	if order == domain.OrderDesc {
		dir = "DESC"
		cmp = "<"
	}

	args := []any{conversationID}
	where := `conversation_id = $1`
	if after != "" {
		args = append(args, after)
		where += fmt.Sprintf(` AND id %s $%d`, cmp, len(args))
	}
	args = append(args, limit+1)

	q := fmt.Sprintf(`
		SELECT id, external_item_id, conversation_id, user_id, role, content, tool_calls, created_at, expires_at
		FROM messages WHERE %s ORDER BY created_at %s, id %s LIMIT $%d`, where, dir, dir, len(args))

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return domain.MessagePage{}, fmt.Errorf("postgres: list message items: %w", err)
	}
	defer rows.Close()

	var items []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ExternalItemID, &m.ConversationID, &m.UserID, &m.Role, &m.Content, &m.ToolCalls, &m.CreatedAt, &m.ExpiresAt); err != nil {
			return domain.MessagePage{}, fmt.Errorf("postgres: scan message: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return domain.MessagePage{}, err
	}

	page := domain.MessagePage{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
		page.NextCursor = page.Items[len(page.Items)-1].ID
	}
	return page, nil
}

func (s *ConversationStore) DeleteExpiredMessages(ctx context.Context) (int, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM messages WHERE expires_at <= $1`, timeNowUTC())
	if err != nil {
		return 0, fmt.Errorf("postgres: delete expired messages: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
