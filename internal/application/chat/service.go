// Package chat implements the Task API orchestrator's conversational
// surface (§4.I): a tool-calling agent, grounded against the Anthropic
// Messages API, that forwards task-store operations as agent-invoked tools
// with user_id pre-bound, streamed back over the chat endpoint and
// persisted through the Conversation Store's stable-identity rule.
package chat

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/tasktrack/platform/internal/domain"
)

// historyLimit bounds how many prior turns are replayed into the model's
// context window on every new message.
const historyLimit = 20

// Conversations is the subset of conversation.Service the chat surface
// depends on.
type Conversations interface {
	GetOrCreateConversation(ctx context.Context, userID string, conversationID *string) (domain.Conversation, error)
	AddMessage(ctx context.Context, userID, conversationID string, role domain.MessageRole, content string, toolCalls []byte) (domain.Message, error)
	ResolveStreamedMessage(ctx context.Context, userID, conversationID, streamedID string, role domain.MessageRole, content string, toolCalls []byte) (domain.Message, error)
	LoadHistory(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)
}

// Service orchestrates one chat turn: resolve/create the conversation,
// persist the user's message, stream the assistant's tool-calling reply,
// and persist the assistant's final turn under its stable identity.
type Service struct {
	conversations Conversations
	agent         *Agent
}

// NewService wires a Service against the Conversation Store and the agent.
func NewService(conversations Conversations, agent *Agent) *Service {
	return &Service{conversations: conversations, agent: agent}
}

// Delta is one chunk of the assistant's streamed reply surfaced to the SSE
// handler.
type Delta struct {
	ConversationID string
	Text           string
}

// Send runs one full chat turn for userID: it resolves conversationID (or
// creates a new conversation), appends the user's message, streams the
// assistant's reply through onDelta as it arrives, and persists the
// completed assistant message before returning.
func (s *Service) Send(ctx context.Context, userID string, conversationID *string, message string, onDelta func(Delta)) (domain.Conversation, domain.Message, error) {
	conv, err := s.conversations.GetOrCreateConversation(ctx, userID, conversationID)
	if err != nil {
		return domain.Conversation{}, domain.Message{}, err
	}

	if _, err := s.conversations.AddMessage(ctx, userID, conv.ID, domain.RoleUser, message, nil); err != nil {
		return domain.Conversation{}, domain.Message{}, err
	}

	history, err := s.conversations.LoadHistory(ctx, conv.ID, historyLimit)
	if err != nil {
		return domain.Conversation{}, domain.Message{}, err
	}

	reply, err := s.agent.Run(ctx, userID, toAgentHistory(history), message, func(d TextDelta) {
		onDelta(Delta{ConversationID: conv.ID, Text: d.Text})
	})
	if err != nil {
		return domain.Conversation{}, domain.Message{}, err
	}

	assistantMsg, err := s.conversations.ResolveStreamedMessage(ctx, userID, conv.ID, domain.PlaceholderItemID, domain.RoleAssistant, reply, nil)
	if err != nil {
		return domain.Conversation{}, domain.Message{}, err
	}
	return conv, assistantMsg, nil
}

// toAgentHistory converts persisted conversation turns into the message
// params the streaming API expects, dropping the system role (the agent's
// own system prompt is supplied separately on every request) and the
// just-appended user message (Run appends it itself).
func toAgentHistory(history []domain.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(history))
	for i, m := range history {
		if i == len(history)-1 && m.Role == domain.RoleUser {
			continue
		}
		switch m.Role {
		case domain.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case domain.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out
}
