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

type MongoChatRepo struct {
	DB *mongo.Client
}

func NewMongoChatRepo(db *mongo.Client) *MongoChatRepo {
	return &MongoChatRepo{DB: db}
}

func (r *MongoChatRepo) GetChatsForUser(userID primitive.ObjectID) ([]*models.Chat, error) {
	ctx := context.Background()
	db := r.DB.Database(dbName)

	sort := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cur, err := db.Collection("chats").Find(ctx, bson.M{"participants": userID}, sort)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.Chat
	for cur.Next(ctx) {
		var c models.Chat
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		r.populateRefs(ctx, db, &c, false)
		out = append(out, &c)
	}

	return out, cur.Err()
}

// FindChatByParticipants matches the unordered pair exactly.
func (r *MongoChatRepo) FindChatByParticipants(a, b primitive.ObjectID) (*models.Chat, error) {
	ctx := context.Background()
	db := r.DB.Database(dbName)

	filter := bson.M{"participants": bson.M{
		"$all":  bson.A{a, b},
		"$size": 2,
	}}

	var c models.Chat
	err := db.Collection("chats").FindOne(ctx, filter).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	r.populateRefs(ctx, db, &c, true)
	return &c, nil
}

func (r *MongoChatRepo) CreateChat(chat *models.Chat) error {
	ctx := context.Background()
	db := r.DB.Database(dbName)

	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}

	_, err := db.Collection("chats").InsertOne(ctx, chat)
	if err != nil {
		return err
	}

	r.populateRefs(ctx, db, chat, false)
	return nil
}

func (r *MongoChatRepo) GetChatByID(id primitive.ObjectID) (*models.Chat, error) {
	ctx := context.Background()
	db := r.DB.Database(dbName)

	var c models.Chat
	err := db.Collection("chats").FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	r.populateRefs(ctx, db, &c, true)
	return &c, nil
}

// AppendMessage pushes onto the embedded message log; concurrent sends
// land in storage-assigned order.
func (r *MongoChatRepo) AppendMessage(chatID primitive.ObjectID, msg *models.Message) error {
	ctx := context.Background()

	_, err := r.DB.Database(dbName).Collection("chats").UpdateOne(ctx,
		bson.M{"_id": chatID},
		bson.M{
			"$push": bson.M{"messages": msg},
			"$set":  bson.M{"last_message_at": msg.Timestamp},
		},
	)
	return err
}

// populateRefs loads participant display refs and, when withMessages is
// set, the sender ref on every message. Users are fetched once per chat.
func (r *MongoChatRepo) populateRefs(ctx context.Context, db *mongo.Database, c *models.Chat, withMessages bool) {
	refs := make(map[primitive.ObjectID]*models.UserRef, len(c.ParticipantIDs))

	lookup := func(id primitive.ObjectID) *models.UserRef {
		if ref, ok := refs[id]; ok {
			return ref
		}
		var u models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
			refs[id] = nil
			return nil
		}
		refs[id] = u.Ref()
		return refs[id]
	}

	c.Participants = c.Participants[:0]
	for _, id := range c.ParticipantIDs {
		if ref := lookup(id); ref != nil {
			c.Participants = append(c.Participants, *ref)
		}
	}

	if withMessages {
		for i := range c.Messages {
			c.Messages[i].Sender = lookup(c.Messages[i].SenderID)
		}
	}
}
