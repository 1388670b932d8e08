package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getmelinks/getmelinks/internal/handler"
	"github.com/getmelinks/getmelinks/internal/logger"
	"github.com/getmelinks/getmelinks/internal/middleware"
)

// New creates and configures the HTTP router
func New(h *handler.Handler, mw *middleware.Middleware, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoints
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)

	// API root
	mux.HandleFunc("GET /api", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Welcome to GetMeLinks API"}`))
	})

	// Public submission route (rate limited per client IP)
	submitRateLimit := mw.RateLimit(middleware.IPKey)
	mux.Handle("POST /api/contact", submitRateLimit(http.HandlerFunc(h.SubmitContact)))

	// Admin routes. Unauthenticated: access control is expected to be
	// enforced by an upstream proxy, not by these handlers.
	mux.HandleFunc("GET /api/contact", h.ListContacts)
	mux.HandleFunc("GET /api/contact/{id}", h.GetContact)
	mux.HandleFunc("PATCH /api/contact/{id}/status", h.UpdateContactStatus)

	// Everything else is a JSON 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error":   "Not Found",
			"message": fmt.Sprintf("Cannot %s %s", r.Method, r.URL.Path),
		})
	})

	// Apply middleware stack
	var root http.Handler = mux

	// CORS (the contact form is embedded on the public site)
	root = mw.CORS([]string{"*"})(root)

	// Security headers
	root = mw.SecurityHeaders(root)

	// Request logging
	root = mw.Logger(root)

	// Timing
	root = mw.Timing(root)

	// Request ID
	root = mw.RequestID(root)

	// Panic recovery (outermost)
	root = mw.Recover(root)

	return root
}
