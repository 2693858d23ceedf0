package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// ValidStatus reports whether s is one of the documented status values.
// Any valid value may overwrite any other; there is no transition graph.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type Appointment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty" db:"id"`
	PatientID primitive.ObjectID `json:"patient_id" bson:"patient_id" db:"patient_id"`
	DoctorID  primitive.ObjectID `json:"doctor_id" bson:"doctor_id" db:"doctor_id"`
	Date      string             `json:"date" bson:"date" db:"visit_date"`
	Time      string             `json:"time" bson:"time" db:"visit_time"`
	Reason    string             `json:"reason" bson:"reason" db:"reason"`
	Status    AppointmentStatus  `json:"status" bson:"status" db:"status"`
	Notes     string             `json:"notes" bson:"notes" db:"notes"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt *time.Time         `json:"updated_at,omitempty" bson:"updated_at,omitempty" db:"updated_at"`

	// Nested objects for responses (denormalized)
	Patient *UserRef `json:"patient,omitempty" bson:"-"`
	Doctor  *UserRef `json:"doctor,omitempty" bson:"-"`
}

// AppointmentUpdate carries the mutable fields of an update request.
// A nil field was not supplied and keeps its prior value. Supplied
// status must be a valid AppointmentStatus; supplied empty notes clear
// the field.
type AppointmentUpdate struct {
	Status *AppointmentStatus `json:"status"`
	Notes  *string            `json:"notes"`
}
