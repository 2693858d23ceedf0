package repository

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"medicare/models"
)

// AppointmentRepository defines the interface for appointment storage.
// Records returned by Get* carry expanded patient/doctor refs;
// GetAppointmentByID returns (nil, nil) for an unknown id.
type AppointmentRepository interface {
	CreateAppointment(a *models.Appointment) error
	GetAppointmentsForUser(userID primitive.ObjectID) ([]*models.Appointment, error)
	GetAppointmentByID(id primitive.ObjectID) (*models.Appointment, error)
	UpdateAppointment(a *models.Appointment) error
	DeleteAppointment(id primitive.ObjectID) error
}
