package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yarachoice/clinic-api/internal/model"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

type fakeMessages struct {
	msgs []model.Message
}

func msgMatches(m model.Message, filter bson.M) bool {
	for k, v := range filter {
		switch k {
		case "_id":
			if m.ID != v.(primitive.ObjectID) {
				return false
			}
		case "senderId":
			if m.SenderID != v.(primitive.ObjectID) {
				return false
			}
		case "receiverId":
			if m.ReceiverID != v.(primitive.ObjectID) {
				return false
			}
		case "isRead":
			if m.IsRead != v.(bool) {
				return false
			}
		case "$or":
			matched := false
			for _, sub := range v.([]bson.M) {
				if msgMatches(m, sub) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (f *fakeMessages) FindOne(_ context.Context, filter bson.M) (*model.Message, error) {
	for _, m := range f.msgs {
		if msgMatches(m, filter) {
			msg := m
			return &msg, nil
		}
	}
	return nil, nil
}

func (f *fakeMessages) FindAll(_ context.Context, filter bson.M, _ bson.D) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.msgs {
		if msgMatches(m, filter) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessages) InsertOne(_ context.Context, doc *model.Message) error {
	f.msgs = append(f.msgs, *doc)
	return nil
}

func (f *fakeMessages) SetFields(_ context.Context, filter bson.M, fields bson.M) (bool, error) {
	for i := range f.msgs {
		if msgMatches(f.msgs[i], filter) {
			if v, ok := fields["isRead"]; ok {
				f.msgs[i].IsRead = v.(bool)
			}
			return true, nil
		}
	}
	return false, nil
}

type fakeHubUsers struct {
	presence map[string]model.PresenceStatus
	users    []model.User
}

func (f *fakeHubUsers) FindOne(_ context.Context, filter bson.M) (*model.User, error) {
	id, ok := filter["_id"].(primitive.ObjectID)
	if !ok {
		return nil, nil
	}
	for _, u := range f.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (f *fakeHubUsers) SetFields(_ context.Context, filter bson.M, fields bson.M) (bool, error) {
	id, ok := filter["_id"].(primitive.ObjectID)
	if !ok {
		return false, nil
	}
	if f.presence == nil {
		f.presence = make(map[string]model.PresenceStatus)
	}
	if v, ok := fields["status"]; ok {
		f.presence[id.Hex()] = v.(model.PresenceStatus)
	}
	return true, nil
}

type fakeConn struct {
	events []Event
	failed bool
	closed bool
}

func (c *fakeConn) WriteJSON(v any) error {
	if c.failed {
		return errors.New("broken pipe")
	}
	c.events = append(c.events, v.(Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) eventsOf(typ string) []Event {
	var out []Event
	for _, e := range c.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func newHubFixture() (*Hub, *fakeMessages, *fakeHubUsers) {
	msgs := &fakeMessages{}
	users := &fakeHubUsers{}
	return NewHub(msgs, users, zerolog.Nop()), msgs, users
}

func TestRegisterTracksPresence(t *testing.T) {
	hub, _, users := newHubFixture()
	alice := primitive.NewObjectID().Hex()
	bob := primitive.NewObjectID().Hex()

	aliceConn := &fakeConn{}
	hub.Register(context.Background(), alice, aliceConn)
	assert.True(t, hub.Online(alice))
	assert.Equal(t, model.PresenceOnline, users.presence[alice])

	// Bob's arrival is announced to Alice but not to Bob.
	bobConn := &fakeConn{}
	hub.Register(context.Background(), bob, bobConn)
	require.Len(t, aliceConn.eventsOf(EventUserConnected), 1)
	assert.Empty(t, bobConn.eventsOf(EventUserConnected))

	hub.Unregister(context.Background(), bob, bobConn)
	assert.False(t, hub.Online(bob))
	assert.Equal(t, model.PresenceOffline, users.presence[bob])
	require.Len(t, aliceConn.eventsOf(EventUserDisconnected), 1)
}

func TestRegisterDisplacesOldConnection(t *testing.T) {
	hub, _, _ := newHubFixture()
	alice := primitive.NewObjectID().Hex()

	old := &fakeConn{}
	hub.Register(context.Background(), alice, old)
	fresh := &fakeConn{}
	hub.Register(context.Background(), alice, fresh)
	assert.True(t, old.closed)
	assert.True(t, hub.Online(alice))

	// Unregistering the stale conn must not evict the fresh one.
	hub.Unregister(context.Background(), alice, old)
	assert.True(t, hub.Online(alice))
}

func TestSendMessagePersistsThenPushes(t *testing.T) {
	hub, msgs, _ := newHubFixture()
	alice := primitive.NewObjectID().Hex()
	bob := primitive.NewObjectID().Hex()

	aliceConn := &fakeConn{}
	bobConn := &fakeConn{}
	hub.Register(context.Background(), alice, aliceConn)
	hub.Register(context.Background(), bob, bobConn)

	sent, err := hub.SendMessage(context.Background(), alice, bob, "hello")
	require.NoError(t, err)
	assert.False(t, sent.ID.IsZero())
	assert.False(t, sent.IsRead)
	require.Len(t, msgs.msgs, 1)

	received := bobConn.eventsOf(EventReceiveMessage)
	require.Len(t, received, 1)
	assert.Equal(t, sent, received[0].Payload)
	require.Len(t, aliceConn.eventsOf(EventMessageSent), 1)
}

func TestSendMessageToOfflineReceiver(t *testing.T) {
	hub, msgs, _ := newHubFixture()
	alice := primitive.NewObjectID().Hex()
	bob := primitive.NewObjectID().Hex()

	sent, err := hub.SendMessage(context.Background(), alice, bob, "are you there?")
	require.NoError(t, err)
	require.Len(t, msgs.msgs, 1)
	assert.Equal(t, "are you there?", sent.Content)
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	hub, msgs, _ := newHubFixture()
	alice := primitive.NewObjectID().Hex()
	bob := primitive.NewObjectID().Hex()

	_, err := hub.SendMessage(context.Background(), alice, bob, "")
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, msgs.msgs)
}

func TestMarkReadReceiverOnly(t *testing.T) {
	hub, msgs, _ := newHubFixture()
	alice := primitive.NewObjectID().Hex()
	bob := primitive.NewObjectID().Hex()

	aliceConn := &fakeConn{}
	hub.Register(context.Background(), alice, aliceConn)

	sent, err := hub.SendMessage(context.Background(), alice, bob, "read me")
	require.NoError(t, err)

	// The sender cannot mark their own message read.
	err = hub.MarkRead(context.Background(), alice, sent.ID.Hex())
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrForbidden, appErr.Code)
	assert.False(t, msgs.msgs[0].IsRead)

	require.NoError(t, hub.MarkRead(context.Background(), bob, sent.ID.Hex()))
	assert.True(t, msgs.msgs[0].IsRead)

	// Sender got a read receipt.
	require.Len(t, aliceConn.eventsOf(EventMessageRead), 1)

	// Marking twice is a no-op.
	require.NoError(t, hub.MarkRead(context.Background(), bob, sent.ID.Hex()))
	require.Len(t, aliceConn.eventsOf(EventMessageRead), 1)

	err = hub.MarkRead(context.Background(), bob, primitive.NewObjectID().Hex())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBrokenConnectionIsDropped(t *testing.T) {
	hub, _, _ := newHubFixture()
	alice := primitive.NewObjectID().Hex()
	bob := primitive.NewObjectID().Hex()

	bobConn := &fakeConn{failed: true}
	hub.Register(context.Background(), bob, bobConn)

	_, err := hub.SendMessage(context.Background(), alice, bob, "hello?")
	require.NoError(t, err)
	assert.False(t, hub.Online(bob))
	assert.True(t, bobConn.closed)
}

func TestHubTimestampsMessages(t *testing.T) {
	hub, msgs, _ := newHubFixture()
	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return fixed }

	sent, err := hub.SendMessage(context.Background(),
		primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex(), "hi")
	require.NoError(t, err)
	assert.Equal(t, fixed, sent.Timestamp)
	assert.Equal(t, fixed, msgs.msgs[0].Timestamp)
}
