package repository

import (
	"database/sql"
	"time"

	"medicare/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PostgresChatRepo struct {
	DB *sql.DB
}

func NewPostgresChatRepo(db *sql.DB) *PostgresChatRepo {
	return &PostgresChatRepo{DB: db}
}

const chatSelect = `
	SELECT c.id, c.participant_a, c.participant_b, c.last_message_at, c.created_at,
	       ua.name, ua.email, ua.role,
	       ub.name, ub.email, ub.role
	FROM chats c
	JOIN users ua ON ua.id = c.participant_a
	JOIN users ub ON ub.id = c.participant_b
`

func (r *PostgresChatRepo) GetChatsForUser(userID primitive.ObjectID) ([]*models.Chat, error) {
	rows, err := r.DB.Query(chatSelect+`
		WHERE c.participant_a = $1 OR c.participant_b = $1
		ORDER BY c.last_message_at DESC NULLS LAST
	`, userID.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *PostgresChatRepo) FindChatByParticipants(a, b primitive.ObjectID) (*models.Chat, error) {
	rows, err := r.DB.Query(chatSelect+`
		WHERE (c.participant_a = $1 AND c.participant_b = $2)
		   OR (c.participant_a = $2 AND c.participant_b = $1)
	`, a.Hex(), b.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	chat, err := scanChat(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.loadMessages(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *PostgresChatRepo) CreateChat(chat *models.Chat) error {
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}

	_, err := r.DB.Exec(`
		INSERT INTO chats (id, participant_a, participant_b, created_at)
		VALUES ($1, $2, $3, $4)
	`, chat.ID.Hex(), chat.ParticipantIDs[0].Hex(), chat.ParticipantIDs[1].Hex(), chat.CreatedAt)
	if err != nil {
		return err
	}

	created, err := r.GetChatByID(chat.ID)
	if err != nil {
		return err
	}
	if created != nil {
		*chat = *created
	}
	return nil
}

func (r *PostgresChatRepo) GetChatByID(id primitive.ObjectID) (*models.Chat, error) {
	rows, err := r.DB.Query(chatSelect+`WHERE c.id = $1`, id.Hex())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	chat, err := scanChat(rows)
	if err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.loadMessages(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *PostgresChatRepo) AppendMessage(chatID primitive.ObjectID, msg *models.Message) error {
	_, err := r.DB.Exec(`
		INSERT INTO messages (chat_id, sender_id, content, sent_at)
		VALUES ($1, $2, $3, $4)
	`, chatID.Hex(), msg.SenderID.Hex(), msg.Content, msg.Timestamp)
	if err != nil {
		return err
	}

	_, err = r.DB.Exec(`UPDATE chats SET last_message_at=$2 WHERE id=$1`, chatID.Hex(), msg.Timestamp)
	return err
}

// loadMessages fills the message log in insertion order with expanded
// sender refs.
func (r *PostgresChatRepo) loadMessages(chat *models.Chat) error {
	rows, err := r.DB.Query(`
		SELECT m.sender_id, m.content, m.sent_at, u.name, u.email, u.role
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.chat_id = $1
		ORDER BY m.id
	`, chat.ID.Hex())
	if err != nil {
		return err
	}
	defer rows.Close()

	chat.Messages = []models.Message{}
	for rows.Next() {
		var (
			m      models.Message
			sender models.UserRef
			sid    string
		)
		if err := rows.Scan(&sid, &m.Content, &m.Timestamp, &sender.Name, &sender.Email, &sender.Role); err != nil {
			return err
		}
		if m.SenderID, err = primitive.ObjectIDFromHex(sid); err != nil {
			return err
		}
		sender.ID = m.SenderID
		m.Sender = &sender
		chat.Messages = append(chat.Messages, m)
	}

	return rows.Err()
}

func scanChat(rows *sql.Rows) (*models.Chat, error) {
	var (
		c          models.Chat
		id, pa, pb string
		ra, rb     models.UserRef
	)

	err := rows.Scan(&id, &pa, &pb, &c.LastMessageAt, &c.CreatedAt,
		&ra.Name, &ra.Email, &ra.Role,
		&rb.Name, &rb.Email, &rb.Role)
	if err != nil {
		return nil, err
	}

	if c.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return nil, err
	}

	ida, err := primitive.ObjectIDFromHex(pa)
	if err != nil {
		return nil, err
	}
	idb, err := primitive.ObjectIDFromHex(pb)
	if err != nil {
		return nil, err
	}

	ra.ID, rb.ID = ida, idb
	c.ParticipantIDs = []primitive.ObjectID{ida, idb}
	c.Participants = []models.UserRef{ra, rb}
	c.Messages = []models.Message{}

	return &c, nil
}
