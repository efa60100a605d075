package adapthttp

import (
	"errors"
	"log"
	"net/http"

	"journal/internal/app"
	"journal/internal/domain"
)

const (
	// authCookieName carries the HttpOnly bearer token.
	authCookieName = "auth"
	// sessionCookieName and userCookieName are readable cookies for
	// client-side display only. They are never consulted for authorization.
	sessionCookieName = "session_uuid"
	userCookieName    = "user_uuid"
)

func buildCookie(name, value string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: httpOnly,
		SameSite: http.SameSiteStrictMode,
	}
}

func clearCookie(name string, httpOnly bool) *http.Cookie {
	c := buildCookie(name, "", httpOnly)
	c.MaxAge = -1
	return c
}

func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, app.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, app.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username already taken")
		return
	case err != nil:
		log.Printf("http: registering user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Location", "/api/users/"+user.UUID)
	writeJSON(w, http.StatusCreated, map[string]any{"uuid": user.UUID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	session, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, app.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		log.Printf("http: login: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, buildCookie(authCookieName, session.Token, true))
	http.SetCookie(w, buildCookie(sessionCookieName, session.UUID, false))
	http.SetCookie(w, buildCookie(userCookieName, session.UserUUID, false))

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleSessionRefresh(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	if r.PathValue("session_uuid") != sess.UUID {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := s.auth.Refresh(r.Context(), sess.UUID, sess.UserUUID)
	if errors.Is(err, app.ErrSessionNotFound) {
		// Revoked between resolve and refresh.
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err != nil {
		log.Printf("http: refreshing session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleSessionRevoke(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	if r.PathValue("session_uuid") != sess.UUID {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := s.auth.Revoke(r.Context(), sess.UUID, sess.UserUUID)
	if errors.Is(err, app.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		log.Printf("http: revoking session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, clearCookie(authCookieName, true))
	http.SetCookie(w, clearCookie(sessionCookieName, false))
	http.SetCookie(w, clearCookie(userCookieName, false))

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
