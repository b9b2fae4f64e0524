package api

import (
	"context"
	"net/http"

	"github.com/pollenhq/pollen/internal/auth"
	"github.com/pollenhq/pollen/internal/store"
)

const sessionCookie = "pollen_session"

type contextKey string

const userKey contextKey = "user"

func currentUser(r *http.Request) *store.User {
	if u, ok := r.Context().Value(userKey).(*store.User); ok {
		return u
	}
	return nil
}

// sessionMiddleware resolves the session cookie and injects the user into
// the request context. Unauthenticated requests are rejected before any
// data access happens.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			token = cookie.Value
		}
		u, err := s.auth.UserForSession(token)
		if err != nil {
			clearSessionCookie(w)
			writeError(w, http.StatusUnauthorized, "not signed in")
			return
		}
		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
