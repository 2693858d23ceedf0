package repository

import (
	"context"
	"errors"
	"time"

	"medicare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoAppointmentRepo struct {
	DB *mongo.Client
}

func NewMongoAppointmentRepo(db *mongo.Client) *MongoAppointmentRepo {
	return &MongoAppointmentRepo{DB: db}
}

func (r *MongoAppointmentRepo) CreateAppointment(a *models.Appointment) error {
	ctx := context.Background()
	db := r.DB.Database(dbName)

	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := db.Collection("appointments").InsertOne(ctx, a)
	if err != nil {
		return err
	}

	r.populateParties(ctx, db, a)
	return nil
}

func (r *MongoAppointmentRepo) GetAppointmentsForUser(userID primitive.ObjectID) ([]*models.Appointment, error) {
	ctx := context.Background()
	db := r.DB.Database(dbName)

	filter := bson.M{"$or": bson.A{
		bson.M{"patient_id": userID},
		bson.M{"doctor_id": userID},
	}}
	sort := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})

	cur, err := db.Collection("appointments").Find(ctx, filter, sort)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Appointment
	for cur.Next(ctx) {
		var a models.Appointment
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		r.populateParties(ctx, db, &a)
		out = append(out, &a)
	}

	return out, cur.Err()
}

func (r *MongoAppointmentRepo) GetAppointmentByID(id primitive.ObjectID) (*models.Appointment, error) {
	ctx := context.Background()
	db := r.DB.Database(dbName)

	var a models.Appointment
	err := db.Collection("appointments").FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	r.populateParties(ctx, db, &a)
	return &a, nil
}

func (r *MongoAppointmentRepo) UpdateAppointment(a *models.Appointment) error {
	ctx := context.Background()

	now := time.Now().UTC()
	a.UpdatedAt = &now

	_, err := r.DB.Database(dbName).Collection("appointments").UpdateOne(ctx,
		bson.M{"_id": a.ID},
		bson.M{"$set": bson.M{
			"status":     a.Status,
			"notes":      a.Notes,
			"updated_at": a.UpdatedAt,
		}},
	)
	return err
}

func (r *MongoAppointmentRepo) DeleteAppointment(id primitive.ObjectID) error {
	ctx := context.Background()
	_, err := r.DB.Database(dbName).Collection("appointments").DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// populateParties loads the patient and doctor display refs
func (r *MongoAppointmentRepo) populateParties(ctx context.Context, db *mongo.Database, a *models.Appointment) {
	var patient, doctor models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": a.PatientID}).Decode(&patient); err == nil {
		a.Patient = patient.Ref()
	}
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": a.DoctorID}).Decode(&doctor); err == nil {
		a.Doctor = doctor.Ref()
	}
}
