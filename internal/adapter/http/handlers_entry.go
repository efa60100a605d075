package adapthttp

import (
	"errors"
	"log"
	"net/http"
	"time"

	"journal/internal/app"
	"journal/internal/domain"
)

func (s *Server) handleEntryCreate(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	var req struct {
		TimezoneOffset int    `json:"timezone_offset"`
		Title          string `json:"title"`
		Body           string `json:"body"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	entry, err := s.entries.Create(r.Context(), sess.UserUUID, req.TimezoneOffset, req.Title, req.Body)
	if errors.Is(err, app.ErrValidation) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("http: creating entry: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Location", "/api/users/"+sess.UserUUID+"/entries/"+entry.UUID)
	writeJSON(w, http.StatusCreated, map[string]any{"uuid": entry.UUID})
}

func (s *Server) handleEntryFetch(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	entry, err := s.entries.Fetch(r.Context(), r.PathValue("entry_uuid"), sess.UserUUID)
	if errors.Is(err, app.ErrEntryNotFound) {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		log.Printf("http: fetching entry: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"created": entry.LocalCreated().Format(time.RFC3339),
		"title":   entry.Title,
		"body":    entry.Body,
	})
}

func (s *Server) handleEntryUpdate(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	var req struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	err := s.entries.Update(r.Context(), r.PathValue("entry_uuid"), sess.UserUUID, req.Title, req.Body)
	switch {
	case errors.Is(err, app.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, app.ErrEntryNotFound):
		writeError(w, http.StatusNotFound, "entry not found")
		return
	case err != nil:
		log.Printf("http: updating entry: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleEntryDelete(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	err := s.entries.Delete(r.Context(), r.PathValue("entry_uuid"), sess.UserUUID)
	if errors.Is(err, app.ErrEntryNotFound) {
		writeError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		log.Printf("http: deleting entry: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleEntryList(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	uuids, err := s.entries.ListUUIDs(r.Context(), sess.UserUUID)
	if err != nil {
		log.Printf("http: listing entries: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"uuids": uuids})
}
