package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/websocket"

	"github.com/wolfman30/swasthyasathi/internal/assistant"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

const defaultMaxBodyBytes = 1 << 20

// Responder answers one free-text query.
type Responder interface {
	Respond(ctx context.Context, query string) string
}

// ChatHandler exposes the assistant over REST and websocket.
type ChatHandler struct {
	assistant    Responder
	logger       *logging.Logger
	maxBodyBytes int64
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// NewChatHandler creates a chat handler. A non-positive maxBodyBytes falls
// back to 1 MiB.
func NewChatHandler(a Responder, maxBodyBytes int64, logger *logging.Logger) *ChatHandler {
	if a == nil {
		panic("handlers: assistant cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &ChatHandler{assistant: a, logger: logger, maxBodyBytes: maxBodyBytes}
}

// Chat handles POST {"query": "..."} and replies {"reply": "..."}.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	var req chatRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			jsonError(w, "request body required", http.StatusBadRequest)
		default:
			jsonError(w, "invalid JSON body", http.StatusBadRequest)
		}
		return
	}

	reply := h.assistant.Respond(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// ChatWebSocket answers each inbound text frame with one reply frame.
func (h *ChatHandler) ChatWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(r.Context(), conn)
	}).ServeHTTP(w, r)
}

func (h *ChatHandler) serveWS(ctx context.Context, conn *websocket.Conn) {
	conn.MaxPayloadBytes = int(h.maxBodyBytes)
	h.logger.Debug("chat: websocket opened", "remote_ip", conn.Request().RemoteAddr)
	for {
		var text string
		if err := websocket.Message.Receive(conn, &text); err != nil {
			h.logger.Debug("chat: websocket closed", "error", err)
			return
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if err := websocket.Message.Send(conn, h.assistant.Respond(ctx, text)); err != nil {
			h.logger.Warn("chat: websocket send failed", "error", err)
			return
		}
	}
}

// Welcome returns the greeting and example queries.
func (h *ChatHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"welcome":  assistant.Welcome(),
		"examples": assistant.ExampleQueries,
	})
}

// HealthCheck returns a simple health check response.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
