package routes

import (
	"net/http"
	"strings"

	"medicare/auth"
	"medicare/handlers"
)

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*") // Replace * with your domain in production
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func SetupRoutes(
	tokens *auth.TokenService,
	authHandler *handlers.AuthHandler,
	appointmentHandler *handlers.AppointmentHandler,
	chatHandler *handlers.ChatHandler,
	pdfHandler *handlers.PDFHandler,
	healthHandler *handlers.HealthHandler,
) {
	handle := func(path string, h http.HandlerFunc) {
		http.Handle(path, withCORS(http.HandlerFunc(handlers.RecoverWrapper(h))))
	}

	// Auth routes
	handle("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			handlers.MethodNotAllowed(w)
			return
		}
		authHandler.Register(w, r)
	})
	handle("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			handlers.MethodNotAllowed(w)
			return
		}
		authHandler.Login(w, r)
	})

	// Appointment routes
	handle("/api/appointments", handlers.RequireAuth(tokens, func(w http.ResponseWriter, r *http.Request, caller *auth.Identity) {
		switch r.Method {
		case http.MethodGet:
			appointmentHandler.ListAppointments(w, r, caller)
		case http.MethodPost:
			appointmentHandler.CreateAppointment(w, r, caller)
		default:
			handlers.MethodNotAllowed(w)
		}
	}))

	// Appointment by ID, plus the confirmation PDF
	handle("/api/appointments/", handlers.RequireAuth(tokens, func(w http.ResponseWriter, r *http.Request, caller *auth.Identity) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/appointments/")
		if id, ok := strings.CutSuffix(rest, "/pdf"); ok {
			if r.Method != http.MethodGet {
				handlers.MethodNotAllowed(w)
				return
			}
			pdfHandler.AppointmentPDF(w, r, caller, id)
			return
		}
		if rest == "" || strings.Contains(rest, "/") {
			handlers.NotFound(w)
			return
		}
		switch r.Method {
		case http.MethodPut:
			appointmentHandler.UpdateAppointment(w, r, caller, rest)
		case http.MethodDelete:
			appointmentHandler.DeleteAppointment(w, r, caller, rest)
		default:
			handlers.MethodNotAllowed(w)
		}
	}))

	// Chat routes
	handle("/api/chats", handlers.RequireAuth(tokens, func(w http.ResponseWriter, r *http.Request, caller *auth.Identity) {
		switch r.Method {
		case http.MethodGet:
			chatHandler.ListChats(w, r, caller)
		case http.MethodPost:
			chatHandler.GetOrCreateChat(w, r, caller)
		default:
			handlers.MethodNotAllowed(w)
		}
	}))

	handle("/api/chats/", handlers.RequireAuth(tokens, func(w http.ResponseWriter, r *http.Request, caller *auth.Identity) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/chats/")
		id, ok := strings.CutSuffix(rest, "/messages")
		if !ok || id == "" || strings.Contains(id, "/") {
			handlers.NotFound(w)
			return
		}
		switch r.Method {
		case http.MethodPost:
			chatHandler.SendMessage(w, r, caller, id)
		case http.MethodGet:
			chatHandler.ListMessages(w, r, caller, id)
		default:
			handlers.MethodNotAllowed(w)
		}
	}))

	// Operational routes
	handle("/health", healthHandler.Health)
	handle("/metrics", healthHandler.Metrics)
	handle("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			handlers.NotFound(w)
			return
		}
		w.Write([]byte("Medicare backend is running..."))
	})
}
