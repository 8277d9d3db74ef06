package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tasktrack/platform/internal/application/chat"
	"github.com/tasktrack/platform/internal/infrastructure/http/response"
)

type chatRequest struct {
	ConversationID *string `json:"conversation_id"`
	Message        string  `json:"message"`
}

type chatChunk struct {
	ConversationID string `json:"conversation_id"`
	Delta          string `json:"delta"`
}

// Chat handles POST /chat, streaming the assistant's reply as
// text/event-stream chunks terminated by a literal "data: [DONE]" frame.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.Fail(w, http.StatusInternalServerError, "TRANSIENT", "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	_, _, err := h.Chat.Send(r.Context(), userID(r), req.ConversationID, req.Message, func(d chat.Delta) {
		chunk, err := json.Marshal(chatChunk{ConversationID: d.ConversationID, Delta: d.Text})
		if err != nil {
			slog.ErrorContext(r.Context(), "chat: failed to marshal delta", "error", err)
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", chunk)
		flusher.Flush()
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "chat: turn failed mid-stream", "error", err)
		fmt.Fprintf(w, "data: {\"error\":%q}\n\n", err.Error())
		flusher.Flush()
	}

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}
