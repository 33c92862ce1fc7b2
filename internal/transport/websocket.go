// Package transport exposes the dialogue over a WebSocket chat gateway.
// The gateway is a thin adapter: it maps wire frames to controller events
// and controller prompts back to wire frames, and owns no dialogue state.
package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/ashureev/wattwise/internal/flow"
	"github.com/ashureev/wattwise/internal/identity"
)

// handleTimeout bounds one controller step, persistence included.
const handleTimeout = 10 * time.Second

// clientFrame is one inbound chat message.
type clientFrame struct {
	Type    string `json:"type"` // "command" | "button" | "text" | "ping"
	Command string `json:"command,omitempty"`
	Data    string `json:"data,omitempty"`
	Text    string `json:"text,omitempty"`
}

// serverFrame is one outbound chat message.
type serverFrame struct {
	Type   string       `json:"type"` // "prompt" | "pong" | "error"
	Prompt *flow.Prompt `json:"prompt,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// ChatGateway upgrades /ws/chat requests and pumps events through the
// flow controller.
type ChatGateway struct {
	ctrl          *flow.Controller
	allowedOrigin string
	isDev         bool
}

// NewChatGateway creates a gateway over the given controller.
func NewChatGateway(ctrl *flow.Controller, allowedOrigin string, isDev bool) *ChatGateway {
	return &ChatGateway{
		ctrl:          ctrl,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (g *ChatGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := clientUserID(r)
	if !ok {
		http.Error(w, "missing or invalid user id", http.StatusBadRequest)
		return
	}

	if !g.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_hash", identity.UserHash(userID))
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "chat ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	slog.Info("Chat connected", "user_hash", identity.UserHash(userID), "ip", r.RemoteAddr)
	g.readLoop(r.Context(), ws, userID)
	slog.Info("Chat ended", "user_hash", identity.UserHash(userID))
}

func (g *ChatGateway) readLoop(ctx context.Context, ws *websocket.Conn, userID string) {
	chatRef := identity.UserHash(userID)

	for {
		_, message, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "user_hash", chatRef)
			} else {
				slog.Warn("WebSocket read error", "error", err, "user_hash", chatRef)
			}
			return
		}

		var frame clientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			// Bare text without a JSON envelope is treated as a text event.
			frame = clientFrame{Type: "text", Text: string(message)}
		}

		if frame.Type == "ping" {
			if err := g.writeJSON(ws, serverFrame{Type: "pong"}); err != nil {
				slog.Debug("Failed to send pong", "error", err)
			}
			continue
		}

		ev, ok := frameToEvent(frame)
		if !ok {
			continue
		}
		ev.ChatRef = chatRef

		stepCtx, cancel := context.WithTimeout(ctx, handleTimeout)
		prompt, handled, err := g.ctrl.Handle(stepCtx, userID, ev)
		cancel()
		if err != nil {
			// The step committed nothing; tell the client to retry the input.
			slog.Error("Dialogue step failed", "error", err, "user_hash", chatRef)
			if werr := g.writeJSON(ws, serverFrame{Type: "error", Error: "temporary failure, please retry"}); werr != nil {
				slog.Debug("Failed to send error frame", "error", werr)
			}
			continue
		}
		if !handled {
			continue
		}

		if err := g.writeJSON(ws, serverFrame{Type: "prompt", Prompt: &prompt}); err != nil {
			slog.Warn("Failed to send prompt", "error", err, "user_hash", chatRef)
			return
		}
	}
}

// frameToEvent maps a wire frame onto a controller event. Commands arrive
// either via the command frame type or as text starting with "/".
func frameToEvent(frame clientFrame) (flow.Event, bool) {
	switch frame.Type {
	case "command":
		cmd := strings.TrimSpace(frame.Command)
		if cmd == "" {
			return flow.Event{}, false
		}
		return flow.CommandEvent(cmd), true
	case "button":
		if frame.Data == "" {
			return flow.Event{}, false
		}
		return flow.ButtonEvent(frame.Data), true
	case "text":
		text := strings.TrimSpace(frame.Text)
		if text == "" {
			return flow.Event{}, false
		}
		if strings.HasPrefix(text, "/") {
			return flow.CommandEvent(text), true
		}
		return flow.TextEvent(text), true
	}
	return flow.Event{}, false
}

func clientUserID(r *http.Request) (string, bool) {
	raw := r.Header.Get("X-Wattwise-User-ID")
	if raw == "" {
		raw = r.URL.Query().Get("user_id")
	}
	return identity.SanitizeUserID(raw)
}

func (g *ChatGateway) checkOrigin(r *http.Request) bool {
	if g.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || g.allowedOrigin == "*" {
		return true
	}
	if origin == g.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", g.allowedOrigin)
	return false
}

func (g *ChatGateway) writeJSON(ws *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(context.Background(), websocket.MessageText, data)
}
