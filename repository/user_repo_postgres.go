package repository

import (
	"database/sql"
	"time"

	"medicare/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostgresUserRepo struct {
	DB *sql.DB
}

func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{DB: db}
}

func (r *PostgresUserRepo) CreateUser(user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.DB.Exec(`
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID.Hex(), user.Name, user.Email, user.Password, user.Role, user.CreatedAt)

	return err
}

func (r *PostgresUserRepo) GetUserByEmail(email string) (*models.User, error) {
	return r.getUser(`WHERE email=$1`, email)
}

func (r *PostgresUserRepo) GetUserByID(id primitive.ObjectID) (*models.User, error) {
	return r.getUser(`WHERE id=$1`, id.Hex())
}

func (r *PostgresUserRepo) getUser(where string, arg any) (*models.User, error) {
	user := &models.User{}
	var id string

	err := r.DB.QueryRow(`
		SELECT id, name, email, password_hash, role, created_at
		FROM users `+where,
		arg).Scan(&id, &user.Name, &user.Email, &user.Password, &user.Role, &user.CreatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	user.ID, err = primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	return user, nil
}
