package chat

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yarachoice/clinic-api/internal/model"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

// Service answers the chat history queries behind the REST endpoints.
type Service struct {
	messages messageStore
	users    userStore
	logger   zerolog.Logger
}

func NewService(messages messageStore, users userStore, logger zerolog.Logger) *Service {
	return &Service{
		messages: messages,
		users:    users,
		logger:   logger.With().Str("service", "chat").Logger(),
	}
}

// Messages returns the full history between two users, both directions,
// oldest first.
func (s *Service) Messages(ctx context.Context, userID, peerID string) ([]model.Message, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []model.Message{}, nil
	}
	pid, err := primitive.ObjectIDFromHex(peerID)
	if err != nil {
		return []model.Message{}, nil
	}

	filter := bson.M{"$or": []bson.M{
		{"senderId": uid, "receiverId": pid},
		{"senderId": pid, "receiverId": uid},
	}}
	msgs, err := s.messages.FindAll(ctx, filter, bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load messages")
		return nil, apperrors.Internal(err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return msgs, nil
}

// Conversations returns one entry per peer the user has exchanged messages
// with: the latest message of the pair and the count still unread by the
// user, newest conversation first. Identical timestamps are broken by message
// id, so the later insertion wins.
func (s *Service) Conversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []model.Conversation{}, nil
	}

	filter := bson.M{"$or": []bson.M{{"senderId": uid}, {"receiverId": uid}}}
	msgs, err := s.messages.FindAll(ctx, filter, bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load conversations")
		return nil, apperrors.Internal(err)
	}

	type group struct {
		latest model.Message
		unread int
	}
	groups := make(map[primitive.ObjectID]*group)
	for _, m := range msgs {
		peer := m.SenderID
		if peer == uid {
			peer = m.ReceiverID
		}
		g, ok := groups[peer]
		if !ok {
			g = &group{}
			groups[peer] = g
		}
		if laterThan(m, g.latest) {
			g.latest = m
		}
		if m.ReceiverID == uid && !m.IsRead {
			g.unread++
		}
	}

	convs := make([]model.Conversation, 0, len(groups))
	for peer, g := range groups {
		u, err := s.users.FindOne(ctx, bson.M{"_id": peer})
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to load conversation peer")
			return nil, apperrors.Internal(err)
		}
		if u == nil {
			// Peer account hard-deleted; the history stays but the
			// conversation entry is dropped.
			continue
		}
		convs = append(convs, model.Conversation{
			User:            u,
			LastMessage:     g.latest.Content,
			LastMessageTime: g.latest.Timestamp,
			UnreadMessages:  g.unread,
		})
	}

	sort.Slice(convs, func(i, j int) bool {
		return convs[i].LastMessageTime.After(convs[j].LastMessageTime)
	})
	return convs, nil
}

// UnreadCount returns how many messages addressed to the user are unread.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}
	msgs, err := s.messages.FindAll(ctx, bson.M{"receiverId": uid, "isRead": false}, nil)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return len(msgs), nil
}

// laterThan orders messages by timestamp, falling back to id so two messages
// stamped in the same instant keep insertion order.
func laterThan(a, b model.Message) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return b.ID.Hex() < a.ID.Hex()
}
