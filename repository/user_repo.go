package repository

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"medicare/models"
)

// UserRepository defines the interface for user storage. Lookups return
// (nil, nil) when no user matches.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id primitive.ObjectID) (*models.User, error)
}
