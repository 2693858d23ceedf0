package repository

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"medicare/models"
)

// ChatRepository defines the interface for chat storage. Chats returned
// by Get*/Find* carry expanded participant refs; GetChatByID also
// expands message senders. Find and Get return (nil, nil) on no match.
type ChatRepository interface {
	GetChatsForUser(userID primitive.ObjectID) ([]*models.Chat, error)
	FindChatByParticipants(a, b primitive.ObjectID) (*models.Chat, error)
	CreateChat(chat *models.Chat) error
	GetChatByID(id primitive.ObjectID) (*models.Chat, error)
	AppendMessage(chatID primitive.ObjectID, msg *models.Message) error
}
