package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/ratelimit"
	"github.com/fcode/course-platform-backend/repository"
)

const (
	ChatHistoryLimit   = 50
	MaxChatMessageRune = 2000

	EventReceiveMessage = "receive_message"
)

// Broadcaster delivers a frame to every connected chat client.
type Broadcaster interface {
	Broadcast(data []byte)
}

type ChatService struct {
	store       repository.Store
	broadcaster Broadcaster
	limiter     ratelimit.Limiter
}

// NewChatService wires the relay. limiter may be nil to disable flood control.
func NewChatService(store repository.Store, broadcaster Broadcaster, limiter ratelimit.Limiter) *ChatService {
	return &ChatService{store: store, broadcaster: broadcaster, limiter: limiter}
}

// GetHistory returns the newest messages, oldest first, with sender names.
func (s *ChatService) GetHistory(ctx context.Context) ([]ChatHistoryItem, error) {
	msgs, err := s.store.ListRecentMessages(ctx, ChatHistoryLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(msgs))
	for i, m := range msgs {
		ids[i] = m.SenderID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ChatHistoryItem, len(msgs))
	for i, m := range msgs {
		out[i] = ChatHistoryItem{ChatMessage: m}
		if u, ok := users[m.SenderID]; ok {
			out[i].Sender = &SenderInfo{ID: u.ID, FullName: u.FullName, AvatarURL: u.AvatarURL}
		}
	}
	return out, nil
}

// Send persists a message and then broadcasts it to every connected client,
// the sender included. Delivery is best effort.
func (s *ChatService) Send(ctx context.Context, userID uuid.UUID, text string) (*ChatEvent, error) {
	if userID == uuid.Nil {
		return nil, ErrChatLoginRequired
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationf("Message must not be empty")
	}
	if utf8.RuneCountInString(text) > MaxChatMessageRune {
		return nil, validationf("Message must be at most %d characters", MaxChatMessageRune)
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, userID.String()) {
		return nil, ErrChatTooFast
	}

	sender, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrChatLoginRequired
	}
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{SenderID: userID, Content: text}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	event := &ChatEvent{
		Type:      EventReceiveMessage,
		MessageID: msg.ID,
		UserID:    userID,
		Author:    sender.FullName,
		Message:   msg.Content,
		Time:      msg.CreatedAt.Format("15:04"),
		CreatedAt: msg.CreatedAt,
	}
	if s.broadcaster != nil {
		data, err := json.Marshal(event)
		if err != nil {
			return nil, err
		}
		s.broadcaster.Broadcast(data)
	}
	return event, nil
}
