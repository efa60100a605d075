// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"journal/internal/app"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth    *app.AuthService
	entries *app.EntryService
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, entries *app.EntryService) *Server {
	return &Server{auth: auth, entries: entries}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("POST /users", s.handleUserCreate)
	api.HandleFunc("POST /login", s.handleLogin)

	api.HandleFunc("POST /sessions/{session_uuid}", s.withSession(s.handleSessionRefresh))
	api.HandleFunc("DELETE /sessions/{session_uuid}", s.withSession(s.handleSessionRevoke))

	api.HandleFunc("GET /users/{user_uuid}/entries", s.withSession(s.handleEntryList))
	api.HandleFunc("POST /users/{user_uuid}/entries", s.withSession(s.handleEntryCreate))
	api.HandleFunc("GET /users/{user_uuid}/entries/{entry_uuid}", s.withSession(s.handleEntryFetch))
	api.HandleFunc("PATCH /users/{user_uuid}/entries/{entry_uuid}", s.withSession(s.handleEntryUpdate))
	api.HandleFunc("DELETE /users/{user_uuid}/entries/{entry_uuid}", s.withSession(s.handleEntryDelete))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return s.loggingMiddleware(root)
}
