package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"medicare/auth"
	"medicare/models"
	"medicare/repository"
)

type AppointmentHandler struct {
	Repo  repository.AppointmentRepository
	Users repository.UserRepository
}

// ListAppointments returns every appointment where the caller is the
// patient or the doctor, ascending by (date, time).
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request, caller *auth.Identity) {
	list, err := h.Repo.GetAppointmentsForUser(caller.ID)
	if err != nil {
		serverError(w, err)
		return
	}
	if list == nil {
		list = []*models.Appointment{}
	}

	writeJSON(w, http.StatusOK, list)
}

// CreateAppointment books the caller as the patient.
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request, caller *auth.Identity) {
	var req struct {
		Doctor string `json:"doctor"`
		Date   string `json:"date"`
		Time   string `json:"time"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if req.Doctor == "" || req.Date == "" || req.Time == "" || req.Reason == "" {
		writeError(w, http.StatusBadRequest, "Please provide doctor, date, time, and reason")
		return
	}

	doctorID, err := primitive.ObjectIDFromHex(req.Doctor)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}
	if doctorID == caller.ID {
		writeError(w, http.StatusBadRequest, "Doctor and patient must be different users")
		return
	}

	doctor, err := h.Users.GetUserByID(doctorID)
	if err != nil {
		serverError(w, err)
		return
	}
	if doctor == nil {
		writeError(w, http.StatusBadRequest, "Doctor not found")
		return
	}

	appointment := &models.Appointment{
		PatientID: caller.ID,
		DoctorID:  doctorID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Status:    models.StatusPending,
	}
	if err := h.Repo.CreateAppointment(appointment); err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, appointment)
}

// UpdateAppointment applies only the supplied fields; either party may
// update.
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request, caller *auth.Identity, id string) {
	appointmentID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var req models.AppointmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	appointment, err := h.Repo.GetAppointmentByID(appointmentID)
	if err != nil {
		serverError(w, err)
		return
	}
	if appointment == nil {
		writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}

	if appointment.PatientID != caller.ID && appointment.DoctorID != caller.ID {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			writeError(w, http.StatusBadRequest, "Invalid status value")
			return
		}
		appointment.Status = *req.Status
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if err := h.Repo.UpdateAppointment(appointment); err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, appointment)
}

// DeleteAppointment removes the record; only the patient may delete.
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request, caller *auth.Identity, id string) {
	appointmentID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	appointment, err := h.Repo.GetAppointmentByID(appointmentID)
	if err != nil {
		serverError(w, err)
		return
	}
	if appointment == nil {
		writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}

	if appointment.PatientID != caller.ID {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	if err := h.Repo.DeleteAppointment(appointmentID); err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Appointment removed"})
}
