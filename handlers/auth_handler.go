package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"medicare/auth"
	"medicare/models"
	"medicare/repository"
)

type AuthHandler struct {
	Repo   repository.UserRepository
	Tokens *auth.TokenService
}

type authResponse struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  string             `json:"role"`
	Token string             `json:"token"`
}

// Register handler
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	email := auth.NormalizeEmail(req.Email)
	password := auth.NormalizePassword(req.Password)
	if req.Name == "" || email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "Please provide name, email, and password")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePatient
	}
	if !models.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	existing, err := h.Repo.GetUserByEmail(email)
	if err != nil {
		serverError(w, err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		serverError(w, err)
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    email,
		Role:     role,
		Password: hash,
	}
	if err := h.Repo.CreateUser(user); err != nil {
		serverError(w, err)
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	})
}

// Login handler. Unknown email and wrong password are deliberately
// indistinguishable to the caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	email := auth.NormalizeEmail(req.Email)
	password := auth.NormalizePassword(req.Password)
	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := h.Repo.GetUserByEmail(email)
	if err != nil {
		serverError(w, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.Password, password) {
		writeError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		serverError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	})
}
