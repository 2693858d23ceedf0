package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medicare/auth"
	"medicare/models"
)

type apptResp struct {
	ID      string   `json:"id"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Reason  string   `json:"reason"`
	Status  string   `json:"status"`
	Notes   string   `json:"notes"`
	Patient *refResp `json:"patient"`
	Doctor  *refResp `json:"doctor"`
}

func (e *env) createAppointment(t *testing.T, patient *auth.Identity, doctorID, date, tm string) apptResp {
	t.Helper()
	rec := httptest.NewRecorder()
	e.appointments.CreateAppointment(rec, jsonReq(t, http.MethodPost, "/api/appointments", map[string]string{
		"doctor": doctorID, "date": date, "time": tm, "reason": "checkup",
	}), patient)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[apptResp](t, rec)
}

func TestCreateAppointment(t *testing.T) {
	e := newEnv(t)
	patient, _ := e.register(t, "Alice", "alice@x.com", "pw1", "")
	doctor, _ := e.register(t, "Bob", "bob@x.com", "pw2", models.RoleDoctor)

	resp := e.createAppointment(t, patient, doctor.ID.Hex(), "2026-09-10", "10:30")

	assert.Equal(t, "pending", resp.Status)
	require.NotNil(t, resp.Patient)
	require.NotNil(t, resp.Doctor)
	assert.Equal(t, "Alice", resp.Patient.Name)
	assert.Equal(t, "alice@x.com", resp.Patient.Email)
	assert.Equal(t, "Bob", resp.Doctor.Name)
}

func TestCreateAppointmentValidation(t *testing.T) {
	e := newEnv(t)
	patient, _ := e.register(t, "Alice", "alice@x.com", "pw1", "")
	doctor, _ := e.register(t, "Bob", "bob@x.com", "pw2", models.RoleDoctor)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing doctor", map[string]string{"date": "2026-09-10", "time": "10:30", "reason": "r"}},
		{"missing reason", map[string]string{"doctor": doctor.ID.Hex(), "date": "2026-09-10", "time": "10:30"}},
		{"malformed doctor id", map[string]string{"doctor": "nope", "date": "2026-09-10", "time": "10:30", "reason": "r"}},
		{"doctor is caller", map[string]string{"doctor": patient.ID.Hex(), "date": "2026-09-10", "time": "10:30", "reason": "r"}},
		{"unknown doctor", map[string]string{"doctor": "64b7b0c0a1b2c3d4e5f60708", "date": "2026-09-10", "time": "10:30", "reason": "r"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.appointments.CreateAppointment(rec, jsonReq(t, http.MethodPost, "/api/appointments", tt.body), patient)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListAppointmentsOrdering(t *testing.T) {
	e := newEnv(t)
	patient, _ := e.register(t, "Alice", "alice@x.com", "pw1", "")
	doctor, _ := e.register(t, "Bob", "bob@x.com", "pw2", models.RoleDoctor)
	other, _ := e.register(t, "Carol", "carol@x.com", "pw3", "")

	e.createAppointment(t, patient, doctor.ID.Hex(), "2026-09-12", "09:00")
	e.createAppointment(t, patient, doctor.ID.Hex(), "2026-09-10", "14:00")
	e.createAppointment(t, patient, doctor.ID.Hex(), "2026-09-10", "08:15")
	e.createAppointment(t, other, doctor.ID.Hex(), "2026-09-01", "08:00")

	rec := httptest.NewRecorder()
	e.appointments.ListAppointments(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil), patient)
	require.Equal(t, http.StatusOK, rec.Code)

	list := decode[[]apptResp](t, rec)
	require.Len(t, list, 3, "only the caller's appointments")
	assert.Equal(t, "08:15", list[0].Time)
	assert.Equal(t, "14:00", list[1].Time)
	assert.Equal(t, "2026-09-12", list[2].Date)

	// the doctor sees all four
	rec = httptest.NewRecorder()
	e.appointments.ListAppointments(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil), doctor)
	assert.Len(t, decode[[]apptResp](t, rec), 4)
}

func TestUpdateAppointmentMerge(t *testing.T) {
	e := newEnv(t)
	patient, _ := e.register(t, "Alice", "alice@x.com", "pw1", "")
	doctor, _ := e.register(t, "Bob", "bob@x.com", "pw2", models.RoleDoctor)

	created := e.createAppointment(t, patient, doctor.ID.Hex(), "2026-09-10", "10:30")

	// doctor sets the notes
	rec := httptest.NewRecorder()
	e.appointments.UpdateAppointment(rec, jsonReq(t, http.MethodPut, "/x", map[string]string{
		"notes": "bring referral",
	}), doctor, created.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[apptResp](t, rec)
	assert.Equal(t, "bring referral", got.Notes)
	assert.Equal(t, "pending", got.Status, "omitted status keeps prior value")

	// patient confirms without touching notes
	rec = httptest.NewRecorder()
	e.appointments.UpdateAppointment(rec, jsonReq(t, http.MethodPut, "/x", map[string]string{
		"status": "confirmed",
	}), patient, created.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[apptResp](t, rec)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, "bring referral", got.Notes, "omitted notes keep prior value")

	// supplied empty notes clear the field
	rec = httptest.NewRecorder()
	e.appointments.UpdateAppointment(rec, jsonReq(t, http.MethodPut, "/x", map[string]string{
		"notes": "",
	}), patient, created.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[apptResp](t, rec)
	assert.Equal(t, "", got.Notes)
	assert.Equal(t, "confirmed", got.Status)
}

func TestUpdateAppointmentErrors(t *testing.T) {
	e := newEnv(t)
	patient, _ := e.register(t, "Alice", "alice@x.com", "pw1", "")
	doctor, _ := e.register(t, "Bob", "bob@x.com", "pw2", models.RoleDoctor)
	stranger, _ := e.register(t, "Eve", "eve@x.com", "pw3", "")

	created := e.createAppointment(t, patient, doctor.ID.Hex(), "2026-09-10", "10:30")

	// third party is neither patient nor doctor
	rec := httptest.NewRecorder()
	e.appointments.UpdateAppointment(rec, jsonReq(t, http.MethodPut, "/x", map[string]string{"status": "cancelled"}), stranger, created.ID)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// unknown id
	rec = httptest.NewRecorder()
	e.appointments.UpdateAppointment(rec, jsonReq(t, http.MethodPut, "/x", map[string]string{"status": "cancelled"}), patient, "64b7b0c0a1b2c3d4e5f60708")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// malformed id
	rec = httptest.NewRecorder()
	e.appointments.UpdateAppointment(rec, jsonReq(t, http.MethodPut, "/x", map[string]string{"status": "cancelled"}), patient, "not-an-id")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ID format", decode[map[string]string](t, rec)["message"])

	// status outside the documented set
	rec = httptest.NewRecorder()
	e.appointments.UpdateAppointment(rec, jsonReq(t, http.MethodPut, "/x", map[string]string{"status": "rescheduled"}), patient, created.ID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAppointment(t *testing.T) {
	e := newEnv(t)
	patient, _ := e.register(t, "Alice", "alice@x.com", "pw1", "")
	doctor, _ := e.register(t, "Bob", "bob@x.com", "pw2", models.RoleDoctor)

	created := e.createAppointment(t, patient, doctor.ID.Hex(), "2026-09-10", "10:30")

	// the doctor cannot delete
	rec := httptest.NewRecorder()
	e.appointments.DeleteAppointment(rec, httptest.NewRequest(http.MethodDelete, "/x", nil), doctor, created.ID)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// the patient can
	rec = httptest.NewRecorder()
	e.appointments.DeleteAppointment(rec, httptest.NewRequest(http.MethodDelete, "/x", nil), patient, created.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Appointment removed", decode[map[string]string](t, rec)["message"])

	// and it is gone from the list
	rec = httptest.NewRecorder()
	e.appointments.ListAppointments(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil), patient)
	assert.Empty(t, decode[[]apptResp](t, rec))

	// deleting again is a 404
	rec = httptest.NewRecorder()
	e.appointments.DeleteAppointment(rec, httptest.NewRequest(http.MethodDelete, "/x", nil), patient, created.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
