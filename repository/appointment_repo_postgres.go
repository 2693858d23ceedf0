package repository

import (
	"database/sql"
	"time"

	"medicare/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostgresAppointmentRepo struct {
	DB *sql.DB
}

func NewPostgresAppointmentRepo(db *sql.DB) *PostgresAppointmentRepo {
	return &PostgresAppointmentRepo{DB: db}
}

const appointmentSelect = `
	SELECT a.id, a.patient_id, a.doctor_id, a.visit_date, a.visit_time,
	       a.reason, a.status, a.notes, a.created_at, a.updated_at,
	       p.name, p.email, p.role,
	       d.name, d.email, d.role
	FROM appointments a
	JOIN users p ON p.id = a.patient_id
	JOIN users d ON d.id = a.doctor_id
`

func (r *PostgresAppointmentRepo) CreateAppointment(a *models.Appointment) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := r.DB.Exec(`
		INSERT INTO appointments (id, patient_id, doctor_id, visit_date, visit_time, reason, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID.Hex(), a.PatientID.Hex(), a.DoctorID.Hex(), a.Date, a.Time, a.Reason, a.Status, a.Notes, a.CreatedAt)
	if err != nil {
		return err
	}

	created, err := r.GetAppointmentByID(a.ID)
	if err != nil {
		return err
	}
	if created != nil {
		*a = *created
	}
	return nil
}

func (r *PostgresAppointmentRepo) GetAppointmentsForUser(userID primitive.ObjectID) ([]*models.Appointment, error) {
	rows, err := r.DB.Query(appointmentSelect+`
		WHERE a.patient_id = $1 OR a.doctor_id = $1
		ORDER BY a.visit_date, a.visit_time
	`, userID.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func (r *PostgresAppointmentRepo) GetAppointmentByID(id primitive.ObjectID) (*models.Appointment, error) {
	rows, err := r.DB.Query(appointmentSelect+`WHERE a.id = $1`, id.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanAppointment(rows)
}

func (r *PostgresAppointmentRepo) UpdateAppointment(a *models.Appointment) error {
	now := time.Now().UTC()
	a.UpdatedAt = &now

	_, err := r.DB.Exec(`
		UPDATE appointments SET status=$2, notes=$3, updated_at=$4 WHERE id=$1
	`, a.ID.Hex(), a.Status, a.Notes, a.UpdatedAt)
	return err
}

func (r *PostgresAppointmentRepo) DeleteAppointment(id primitive.ObjectID) error {
	_, err := r.DB.Exec(`DELETE FROM appointments WHERE id=$1`, id.Hex())
	return err
}

func scanAppointment(rows *sql.Rows) (*models.Appointment, error) {
	var (
		a               models.Appointment
		id, pid, did    string
		patient, doctor models.UserRef
	)

	err := rows.Scan(&id, &pid, &did, &a.Date, &a.Time,
		&a.Reason, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&patient.Name, &patient.Email, &patient.Role,
		&doctor.Name, &doctor.Email, &doctor.Role)
	if err != nil {
		return nil, err
	}

	if a.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, err
	}
	if a.PatientID, err = primitive.ObjectIDFromHex(pid); err != nil {
		return nil, err
	}
	if a.DoctorID, err = primitive.ObjectIDFromHex(did); err != nil {
		return nil, err
	}

	patient.ID = a.PatientID
	doctor.ID = a.DoctorID
	a.Patient = &patient
	a.Doctor = &doctor

	return &a, nil
}
