// Package chat is the realtime messaging layer: a websocket hub tracking one
// connection per user, plus the conversation queries backing the REST chat
// endpoints. State is in-process; a second instance would need shared fanout.
package chat

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yarachoice/clinic-api/internal/model"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

// Event types pushed over the socket.
const (
	EventReceiveMessage   = "receive_message"
	EventMessageSent      = "message_sent"
	EventMessageRead      = "message_read"
	EventUserConnected    = "user_connected"
	EventUserDisconnected = "user_disconnected"
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Conn is the connection surface the hub needs; *websocket.Conn satisfies it
// and tests substitute fakes.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

type messageStore interface {
	FindOne(ctx context.Context, filter bson.M) (*model.Message, error)
	FindAll(ctx context.Context, filter bson.M, sort bson.D) ([]model.Message, error)
	InsertOne(ctx context.Context, doc *model.Message) error
	SetFields(ctx context.Context, filter bson.M, fields bson.M) (bool, error)
}

type userStore interface {
	FindOne(ctx context.Context, filter bson.M) (*model.User, error)
	SetFields(ctx context.Context, filter bson.M, fields bson.M) (bool, error)
}

// Hub owns the live connections, keyed by user id hex. At most one connection
// per user: a new registration displaces the old one.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]Conn
	messages messageStore
	users    userStore
	logger   zerolog.Logger
	now      func() time.Time
}

func NewHub(messages messageStore, users userStore, logger zerolog.Logger) *Hub {
	return &Hub{
		conns:    make(map[string]Conn),
		messages: messages,
		users:    users,
		logger:   logger.With().Str("component", "chat_hub").Logger(),
		now:      time.Now,
	}
}

// Register attaches a user's connection, marks them online and tells everyone
// else.
func (h *Hub) Register(ctx context.Context, userID string, conn Conn) {
	h.mu.Lock()
	if old, ok := h.conns[userID]; ok {
		old.Close()
	}
	h.conns[userID] = conn
	h.mu.Unlock()

	h.setPresence(ctx, userID, model.PresenceOnline)
	h.broadcastOthers(userID, Event{Type: EventUserConnected, Payload: map[string]any{
		"user_id": userID,
		"status":  model.PresenceOnline,
	}})
	h.logger.Info().Str("user_id", userID).Msg("user connected")
}

// Unregister detaches the connection, marks the user offline and tells
// everyone else. A stale conn (already displaced by Register) is ignored.
func (h *Hub) Unregister(ctx context.Context, userID string, conn Conn) {
	h.mu.Lock()
	current, ok := h.conns[userID]
	if !ok || current != conn {
		h.mu.Unlock()
		return
	}
	delete(h.conns, userID)
	h.mu.Unlock()

	h.setPresence(ctx, userID, model.PresenceOffline)
	h.broadcastOthers(userID, Event{Type: EventUserDisconnected, Payload: map[string]any{
		"user_id": userID,
		"status":  model.PresenceOffline,
	}})
	h.logger.Info().Str("user_id", userID).Msg("user disconnected")
}

// Online reports whether the user currently holds a connection.
func (h *Hub) Online(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[userID]
	return ok
}

// SendMessage persists the message, then pushes it to the receiver when they
// are online and acks the sender. Persistence failure aborts; push failure
// does not, the receiver catches up from history.
func (h *Hub) SendMessage(ctx context.Context, senderID, receiverID, content string) (*model.Message, error) {
	sender, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"sender_id": "invalid id"})
	}
	receiver, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"receiver_id": "invalid id"})
	}
	if content == "" {
		return nil, apperrors.Validation(map[string]string{"content": "content is required"})
	}

	msg := &model.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		Timestamp:  h.now().UTC(),
	}
	if err := h.messages.InsertOne(ctx, msg); err != nil {
		h.logger.Error().Err(err).Msg("failed to persist message")
		return nil, apperrors.Internal(err)
	}

	h.push(receiverID, Event{Type: EventReceiveMessage, Payload: msg})
	h.push(senderID, Event{Type: EventMessageSent, Payload: msg})
	return msg, nil
}

// MarkRead flags a message read. Only the receiver may mark it; the sender
// gets a read receipt when they are online.
func (h *Hub) MarkRead(ctx context.Context, readerID, messageID string) error {
	oid, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return apperrors.NotFound("message")
	}

	msg, err := h.messages.FindOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperrors.Internal(err)
	}
	if msg == nil {
		return apperrors.NotFound("message")
	}
	if msg.ReceiverID.Hex() != readerID {
		return apperrors.Forbidden("only the receiver can mark a message read")
	}
	if msg.IsRead {
		return nil
	}

	if _, err := h.messages.SetFields(ctx, bson.M{"_id": oid}, bson.M{"isRead": true}); err != nil {
		return apperrors.Internal(err)
	}

	h.push(msg.SenderID.Hex(), Event{Type: EventMessageRead, Payload: map[string]any{
		"message_id": messageID,
		"reader_id":  readerID,
	}})
	return nil
}

func (h *Hub) setPresence(ctx context.Context, userID string, status model.PresenceStatus) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return
	}
	_, err = h.users.SetFields(ctx, bson.M{"_id": oid},
		bson.M{"status": status, "lastSeen": h.now().UTC()})
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to update presence")
	}
}

// push writes to one user; a write failure drops their connection.
func (h *Hub) push(userID string, ev Event) {
	h.mu.RLock()
	conn, ok := h.conns[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := conn.WriteJSON(ev); err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("dropping broken connection")
		h.mu.Lock()
		if h.conns[userID] == conn {
			delete(h.conns, userID)
		}
		h.mu.Unlock()
		conn.Close()
	}
}

func (h *Hub) broadcastOthers(exceptUserID string, ev Event) {
	h.mu.RLock()
	targets := make([]string, 0, len(h.conns))
	for id := range h.conns {
		if id != exceptUserID {
			targets = append(targets, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range targets {
		h.push(id, ev)
	}
}
