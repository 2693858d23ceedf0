package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles accepted at registration.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty" db:"id"`
	Name      string             `json:"name" bson:"name" db:"name"`
	Email     string             `json:"email" bson:"email" db:"email"`
	Role      string             `json:"role" bson:"role" db:"role"`
	Password  string             `json:"-" bson:"password" db:"password_hash"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at" db:"created_at"`
}

// UserRef is the display subset embedded in expanded responses
// instead of a raw identifier.
type UserRef struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
	Role  string             `json:"role" bson:"role"`
}

func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}
