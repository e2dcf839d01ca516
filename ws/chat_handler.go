package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fcode/course-platform-backend/services"
	"github.com/fcode/course-platform-backend/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 16 << 10
	sendTimeout    = 5 * time.Second
	EventSend      = "send_message"
	EventError     = "error"
	EventConnected = "connected"
)

type inboundFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ChatHandler struct {
	hub      *Hub
	chat     *services.ChatService
	tokens   *utils.JWTManager
	upgrader websocket.Upgrader
}

// NewChatHandler accepts upgrades from the given origins; an empty list or
// "*" allows any origin.
func NewChatHandler(hub *Hub, chat *services.ChatService, tokens *utils.JWTManager, origins []string) *ChatHandler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &ChatHandler{
		hub:    hub,
		chat:   chat,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// identify reads an optional token from ?token= or the Authorization header.
// No token means an anonymous listener; a bad token is rejected.
func (h *ChatHandler) identify(c *gin.Context) (uuid.UUID, error) {
	token := c.Query("token")
	if token == "" {
		if parts := strings.Split(c.GetHeader("Authorization"), " "); len(parts) > 1 {
			token = parts[1]
		}
	}
	if token == "" {
		return uuid.Nil, nil
	}
	claims, err := h.tokens.VerifyToken(token)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID()
}

// Serve upgrades GET /ws/chat. Anonymous sockets receive broadcasts but
// cannot send.
func (h *ChatHandler) Serve(c *gin.Context) {
	userID, err := h.identify(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token!"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("chat upgrade failed", "err", err)
		return
	}
	client := h.hub.Register(conn, userID)
	if client == nil {
		_ = conn.Close()
		return
	}
	slog.Info("chat connected", "conn_id", client.ID, "user_id", userID, "online", h.hub.Count())

	h.hub.SendTo(client.ID, mustJSON(gin.H{
		"type":          EventConnected,
		"message":       "Connected to chat",
		"authenticated": userID != uuid.Nil,
	}))

	go h.writePump(client)
	h.readPump(client)

	slog.Info("chat disconnected", "conn_id", client.ID, "user_id", userID)
}

func (h *ChatHandler) readPump(client *Client) {
	defer func() {
		h.hub.Unregister(client.ID)
		_ = client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxFrameSize)
	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			return
		}
		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			h.sendError(client, "Malformed message")
			continue
		}
		if frame.Type != EventSend {
			h.sendError(client, "Unknown event type")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		_, err = h.chat.Send(ctx, client.UserID, frame.Message)
		cancel()
		if err != nil {
			var se *services.Error
			if errors.As(err, &se) {
				h.sendError(client, se.Message)
				continue
			}
			slog.Error("chat send failed", "user_id", client.UserID, "err", err)
			h.sendError(client, "Could not send message")
		}
	}
}

func (h *ChatHandler) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *ChatHandler) sendError(client *Client, msg string) {
	h.hub.SendTo(client.ID, mustJSON(gin.H{"type": EventError, "message": msg}))
}

func mustJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("marshal chat frame", "err", err)
		return []byte(`{"type":"error"}`)
	}
	return data
}
