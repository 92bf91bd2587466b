package server

import (
	"context"
	"net/http"
)

type contextKey struct{ name string }

var userIDKey = contextKey{"user_id"}

const sessionName = "finance_session"

// requireLogin redirects anonymous requests to /login and puts the
// authenticated user id into the request context for the handlers.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.sessions.Get(r, sessionName)
		if err != nil {
			// A tampered or stale cookie is treated as not logged in.
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		id, ok := session.Values["user_id"].(uint)
		if !ok || id == 0 {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the authenticated user id placed by requireLogin.
func userID(r *http.Request) uint {
	id, _ := r.Context().Value(userIDKey).(uint)
	return id
}

// noCache keeps account pages out of browser and proxy caches.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Expires", "0")
		w.Header().Set("Pragma", "no-cache")
		next.ServeHTTP(w, r)
	})
}
