package domain

import "time"

// ConversationMessageRetention is how long a Message survives before the
// daily cleanup job reclaims it.
const ConversationMessageRetention = 2 * 24 * time.Hour

// MessageRole restricts Message.Role to the three roles the chat surface
// understands.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

func (r MessageRole) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// Conversation is a user-owned chat thread.
type Conversation struct {
	ID        string
	UserID    string
	Title     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is one turn of a Conversation. ExternalItemID is the stable
// identity the streaming surface observes; it survives across the
// placeholder-id-at-stream-start / real-id-at-persist-time transition
// ("stable message identity").
type Message struct {
	ID             string
	ExternalItemID string
	ConversationID string
	UserID         string
	Role           MessageRole
	Content        string
	ToolCalls      []byte // structured, opaque to this layer
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// PlaceholderItemID is the sentinel the streaming surface may submit in
// place of a real id for a message whose final identity isn't known until
// the stream completes. The store must mint a fresh opaque id whenever it
// observes this sentinel.
const PlaceholderItemID = ""

// ItemOrder controls load_items pagination direction.
type ItemOrder string

const (
	OrderAsc  ItemOrder = "asc"
	OrderDesc ItemOrder = "desc"
)

// MessagePage is the paginated result of load_items, cursor-based on
// Message.ID (opaque to the caller).
type MessagePage struct {
	Items      []Message
	NextCursor string
	HasMore    bool
}
