package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"medicare/auth"
	"medicare/handlers"
	"medicare/models"
)

// In-memory repository fakes. They copy on read and write so handler
// mutations only become visible through an explicit update, like a real
// database.

type memStore struct {
	mu           sync.Mutex
	users        map[primitive.ObjectID]*models.User
	appointments map[primitive.ObjectID]*models.Appointment
	chats        map[primitive.ObjectID]*models.Chat
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[primitive.ObjectID]*models.User{},
		appointments: map[primitive.ObjectID]*models.Appointment{},
		chats:        map[primitive.ObjectID]*models.Chat{},
	}
}

func (s *memStore) ref(id primitive.ObjectID) *models.UserRef {
	if u, ok := s.users[id]; ok {
		return u.Ref()
	}
	return nil
}

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) CreateUser(user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetUserByEmail(email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetUserByID(id primitive.ObjectID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

type memAppointmentRepo struct{ s *memStore }

func (r *memAppointmentRepo) expand(a models.Appointment) *models.Appointment {
	a.Patient = r.s.ref(a.PatientID)
	a.Doctor = r.s.ref(a.DoctorID)
	return &a
}

func (r *memAppointmentRepo) CreateAppointment(a *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	cp.Patient, cp.Doctor = nil, nil
	r.s.appointments[a.ID] = &cp
	*a = *r.expand(cp)
	return nil
}

func (r *memAppointmentRepo) GetAppointmentsForUser(userID primitive.ObjectID) ([]*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Appointment
	for _, a := range r.s.appointments {
		if a.PatientID == userID || a.DoctorID == userID {
			out = append(out, r.expand(*a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (r *memAppointmentRepo) GetAppointmentByID(id primitive.ObjectID) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.appointments[id]; ok {
		return r.expand(*a), nil
	}
	return nil, nil
}

func (r *memAppointmentRepo) UpdateAppointment(a *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.appointments[a.ID]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	a.UpdatedAt = &now
	stored.Status = a.Status
	stored.Notes = a.Notes
	stored.UpdatedAt = a.UpdatedAt
	return nil
}

func (r *memAppointmentRepo) DeleteAppointment(id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.appointments, id)
	return nil
}

type memChatRepo struct{ s *memStore }

func (r *memChatRepo) expand(c models.Chat, withMessages bool) *models.Chat {
	c.Participants = nil
	for _, id := range c.ParticipantIDs {
		if ref := r.s.ref(id); ref != nil {
			c.Participants = append(c.Participants, *ref)
		}
	}
	msgs := make([]models.Message, len(c.Messages))
	copy(msgs, c.Messages)
	if withMessages {
		for i := range msgs {
			msgs[i].Sender = r.s.ref(msgs[i].SenderID)
		}
	}
	c.Messages = msgs
	return &c
}

func (r *memChatRepo) GetChatsForUser(userID primitive.ObjectID) ([]*models.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Chat
	for _, c := range r.s.chats {
		if c.HasParticipant(userID) {
			out = append(out, r.expand(*c, false))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].LastMessageAt, out[j].LastMessageAt
		switch {
		case ti == nil:
			return false
		case tj == nil:
			return true
		default:
			return ti.After(*tj)
		}
	})
	return out, nil
}

func (r *memChatRepo) FindChatByParticipants(a, b primitive.ObjectID) (*models.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.chats {
		if c.HasParticipant(a) && c.HasParticipant(b) {
			return r.expand(*c, true), nil
		}
	}
	return nil, nil
}

func (r *memChatRepo) CreateChat(chat *models.Chat) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if chat.ID.IsZero() {
		chat.ID = primitive.NewObjectID()
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now().UTC()
	}
	if chat.Messages == nil {
		chat.Messages = []models.Message{}
	}
	cp := *chat
	r.s.chats[chat.ID] = &cp
	*chat = *r.expand(cp, false)
	return nil
}

func (r *memChatRepo) GetChatByID(id primitive.ObjectID) (*models.Chat, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.chats[id]; ok {
		return r.expand(*c, true), nil
	}
	return nil, nil
}

func (r *memChatRepo) AppendMessage(chatID primitive.ObjectID, msg *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.chats[chatID]
	if !ok {
		return nil
	}
	c.Messages = append(c.Messages, *msg)
	ts := msg.Timestamp
	c.LastMessageAt = &ts
	return nil
}

// Test environment

type env struct {
	store        *memStore
	tokens       *auth.TokenService
	auth         *handlers.AuthHandler
	appointments *handlers.AppointmentHandler
	chats        *handlers.ChatHandler
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := newMemStore()
	users := &memUserRepo{s: store}
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return &env{
		store:        store,
		tokens:       tokens,
		auth:         &handlers.AuthHandler{Repo: users, Tokens: tokens},
		appointments: &handlers.AppointmentHandler{Repo: &memAppointmentRepo{s: store}, Users: users},
		chats:        &handlers.ChatHandler{Repo: &memChatRepo{s: store}, Users: users},
	}
}

type authResp struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// refResp mirrors the expanded display-ref shape in responses.
type refResp struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func jsonReq(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return httptest.NewRequest(method, target, bytes.NewReader(buf))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// register creates a user through the real register endpoint and returns
// the identity resolved from the issued token.
func (e *env) register(t *testing.T, name, email, password, role string) (*auth.Identity, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.auth.Register(rec, jsonReq(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password, "role": role,
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}
	resp := decode[authResp](t, rec)
	ident, err := e.tokens.Verify(resp.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	return ident, resp.Token
}
