package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Message struct {
	SenderID  primitive.ObjectID `json:"sender_id" bson:"sender" db:"sender_id"`
	Content   string             `json:"content" bson:"content" db:"content"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp" db:"sent_at"`

	// Denormalized for responses
	Sender *UserRef `json:"sender,omitempty" bson:"-"`
}

// Chat is a two-party conversation. At most one chat exists per
// unordered pair of participants.
type Chat struct {
	ID             primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	ParticipantIDs []primitive.ObjectID `json:"participant_ids" bson:"participants"`
	Messages       []Message            `json:"messages" bson:"messages"`
	LastMessageAt  *time.Time           `json:"last_message_at,omitempty" bson:"last_message_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`

	// Denormalized for responses
	Participants []UserRef `json:"participants,omitempty" bson:"-"`
}

func (c *Chat) HasParticipant(id primitive.ObjectID) bool {
	for _, p := range c.ParticipantIDs {
		if p == id {
			return true
		}
	}
	return false
}
