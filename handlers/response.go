package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

var env string

// SetEnv records the deployment mode, wired once at startup; it decides
// how much failure detail serverError exposes to clients.
func SetEnv(e string) {
	env = e
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// serverError logs the failure and hides its detail from clients when
// running in production.
func serverError(w http.ResponseWriter, err error) {
	log.Printf("server error: %v", err)

	message := "Something went wrong!"
	if env != "production" && err != nil {
		message = err.Error()
	}
	writeError(w, http.StatusInternalServerError, message)
}

// NotFound is the catch-all 404 body.
func NotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "Route not found")
}

func MethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
