package adapthttp

import (
	"errors"
	"log"
	"net/http"
	"time"

	"journal/internal/app"
	"journal/internal/domain"
)

// sessionHandler is a handler that structurally depends on an authenticated
// session: it cannot run without one, so authentication cannot be forgotten.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *domain.Session)

// withSession is the request gate. It extracts the bearer token from the
// auth cookie, resolves it to a live session, and, when the route carries a
// {user_uuid} segment, enforces that the path's user is the session's user.
// Path and body user identifiers are untrusted hints; the resolved session
// is the only identity handlers ever see.
func (s *Server) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		sess, err := s.auth.Resolve(r.Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, app.ErrSessionNotFound) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			log.Printf("http: resolving session: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if pathUser := r.PathValue("user_uuid"); pathUser != "" && pathUser != sess.UserUUID {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next(w, r, sess)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs method, path, status and duration for every request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
