package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a chat message between two users. Messages are append-only and
// carry no soft-delete flag.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiver_id"`
	Content    string             `bson:"content" json:"content"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	IsRead     bool               `bson:"isRead" json:"is_read"`
}

// Conversation is one entry of a user's conversation list: the peer, the most
// recent message in the pair, and how many messages are still unread.
type Conversation struct {
	User            *User     `json:"user"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadMessages  int       `json:"unread_messages"`
}
