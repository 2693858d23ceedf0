package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"medicare/auth"
	"medicare/models"
	"medicare/repository"
)

type ChatHandler struct {
	Repo  repository.ChatRepository
	Users repository.UserRepository
}

// ListChats returns the caller's chats, most recent activity first.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request, caller *auth.Identity) {
	list, err := h.Repo.GetChatsForUser(caller.ID)
	if err != nil {
		serverError(w, err)
		return
	}
	if list == nil {
		list = []*models.Chat{}
	}

	writeJSON(w, http.StatusOK, list)
}

// GetOrCreateChat returns the chat between the caller and the given
// participant, creating it on first contact. The lookup is order
// independent, so no duplicate chat is ever created for a pair.
func (h *ChatHandler) GetOrCreateChat(w http.ResponseWriter, r *http.Request, caller *auth.Identity) {
	var req struct {
		ParticipantID string `json:"participantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.ParticipantID == "" {
		writeError(w, http.StatusBadRequest, "Please provide participantId")
		return
	}

	otherID, err := primitive.ObjectIDFromHex(req.ParticipantID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}
	if otherID == caller.ID {
		writeError(w, http.StatusBadRequest, "Cannot start a chat with yourself")
		return
	}

	other, err := h.Users.GetUserByID(otherID)
	if err != nil {
		serverError(w, err)
		return
	}
	if other == nil {
		writeError(w, http.StatusBadRequest, "User not found")
		return
	}

	chat, err := h.Repo.FindChatByParticipants(caller.ID, otherID)
	if err != nil {
		serverError(w, err)
		return
	}
	if chat != nil {
		writeJSON(w, http.StatusOK, chat)
		return
	}

	chat = &models.Chat{
		ParticipantIDs: []primitive.ObjectID{caller.ID, otherID},
		Messages:       []models.Message{},
	}
	if err := h.Repo.CreateChat(chat); err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, chat)
}

// SendMessage appends to the chat's message log; participants only.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request, caller *auth.Identity, id string) {
	chatID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "Message content is required")
		return
	}

	chat, err := h.Repo.GetChatByID(chatID)
	if err != nil {
		serverError(w, err)
		return
	}
	if chat == nil {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if !chat.HasParticipant(caller.ID) {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	msg := &models.Message{
		SenderID:  caller.ID,
		Content:   req.Content,
		Timestamp: time.Now().UTC(),
	}
	if err := h.Repo.AppendMessage(chatID, msg); err != nil {
		serverError(w, err)
		return
	}

	updated, err := h.Repo.GetChatByID(chatID)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, updated)
}

// ListMessages returns the full message log in chronological order.
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request, caller *auth.Identity, id string) {
	chatID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	chat, err := h.Repo.GetChatByID(chatID)
	if err != nil {
		serverError(w, err)
		return
	}
	if chat == nil {
		writeError(w, http.StatusNotFound, "Chat not found")
		return
	}
	if !chat.HasParticipant(caller.ID) {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	messages := chat.Messages
	if messages == nil {
		messages = []models.Message{}
	}

	writeJSON(w, http.StatusOK, messages)
}
