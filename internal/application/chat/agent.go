package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sethvargo/go-retry"
)

const (
	agentBackoffBase = time.Second
	agentMaxAttempts = 3
	agentMaxTokens   = 1024
	agentSystemPrompt = `You are a task management assistant. Use the available tools to add, ` +
		`list, complete, delete, update, and prioritize the user's tasks. Always act on the user's ` +
		`own tasks only, and confirm what you changed in one short sentence.`
)

// Agent drives one turn of the tool-calling conversation against the
// Anthropic Messages API: a streamed assistant reply, with tool calls
// forwarded to a Dispatcher and their results fed back until the model
// produces a final text-only turn.
type Agent struct {
	client *anthropic.Client
	model  anthropic.Model
	tools  *Dispatcher
}

// NewAgent wires an Agent against an API key and the tool dispatcher. An
// empty model falls back to the latest Claude 3.5 Sonnet snapshot.
func NewAgent(apiKey string, model string, tools *Dispatcher) *Agent {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaude3_5SonnetLatest
	}
	return &Agent{client: &client, model: m, tools: tools}
}

// TextDelta is one chunk of the assistant's streamed reply, forwarded to
// the SSE surface as it arrives.
type TextDelta struct {
	Text string
}

// Run streams one full assistant turn for userID given the prior
// conversation history and the newest user message, resolving any tool
// calls against the Dispatcher before the turn is considered complete.
// Each text delta is sent to onDelta as it streams off the wire; Run
// returns once the model stops calling tools and the final reply has been
// fully received.
func (a *Agent) Run(ctx context.Context, userID string, history []anthropic.MessageParam, userMessage string, onDelta func(TextDelta)) (string, error) {
	messages := append(append([]anthropic.MessageParam{}, history...),
		anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)))

	var finalText string
	for {
		message, err := a.streamTurn(ctx, messages, onDelta)
		if err != nil {
			return "", err
		}

		toolResults, text, hasToolUse := a.resolveToolCalls(ctx, userID, message)
		finalText += text
		if !hasToolUse {
			return finalText, nil
		}

		messages = append(messages, message.ToParam(), anthropic.NewUserMessage(toolResults...))
	}
}

// streamTurn sends one request and accumulates its streamed response,
// retrying transient transport failures (rate limits, timeouts, connection
// resets) with capped exponential backoff; a non-transient API error (bad
// request, auth failure) fails immediately.
func (a *Agent) streamTurn(ctx context.Context, messages []anthropic.MessageParam, onDelta func(TextDelta)) (*anthropic.Message, error) {
	b, err := retry.NewExponential(agentBackoffBase)
	if err != nil {
		return nil, err
	}
	b = retry.WithMaxRetries(agentMaxAttempts, b)

	var message anthropic.Message
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		message = anthropic.Message{}
		stream := a.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
			Model:     anthropic.F(a.model),
			MaxTokens: anthropic.F(int64(agentMaxTokens)),
			System:    anthropic.F([]anthropic.TextBlockParam{{Text: anthropic.F(agentSystemPrompt)}}),
			Messages:  anthropic.F(messages),
			Tools:     anthropic.F(toolDefinitions()),
		})

		for stream.Next() {
			event := stream.Current()
			if err := message.Accumulate(event); err != nil {
				return err
			}
			if delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
				if text, ok := delta.Delta.AsAny().(anthropic.TextDelta); ok {
					onDelta(TextDelta{Text: text.Text})
				}
			}
		}

		if err := stream.Err(); err != nil {
			if isRetryableAPIError(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("chat: streaming turn failed: %w", err)
	}
	return &message, nil
}

// resolveToolCalls runs every tool_use block in message against the
// Dispatcher, building the tool_result content blocks the next turn needs,
// and concatenates any plain text the model produced alongside them.
func (a *Agent) resolveToolCalls(ctx context.Context, userID string, message *anthropic.Message) ([]anthropic.ContentBlockParamUnion, string, bool) {
	var (
		results    []anthropic.ContentBlockParamUnion
		text       string
		hasToolUse bool
	)
	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text += variant.Text
		case anthropic.ToolUseBlock:
			hasToolUse = true
			output, err := a.tools.Dispatch(ctx, userID, variant.Name, json.RawMessage(variant.Input))
			isError := err != nil
			if err != nil {
				output = err.Error()
			}
			results = append(results, anthropic.NewToolResultBlock(variant.ID, output, isError))
		}
	}
	return results, text, hasToolUse
}

// isRetryableAPIError distinguishes transient transport/rate-limit errors
// (worth a retry) from a well-formed 4xx API rejection (never worth one).
func isRetryableAPIError(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		default:
			return false
		}
	}
	// Anything that isn't a well-formed API error (timeouts, connection
	// resets) is assumed transient.
	return true
}
