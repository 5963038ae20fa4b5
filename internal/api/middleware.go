package api

import (
	"context"
	"net/http"
	"time"

	"arena-chess/internal/apierr"
)

type ctxKey int

const playerIDKey ctxKey = 0

// playerAuth is the minimal stand-in for the out-of-scope session/auth
// layer (section 1): it trusts an X-Player-Id header. A real deployment
// replaces this with whatever session mechanism issues that header; every
// handler below is written against the context value, not the header
// itself, so swapping the mechanism touches only this file.
func playerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Player-Id")
		if id != "" {
			r = r.WithContext(context.WithValue(r.Context(), playerIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

func playerFrom(r *http.Request) (string, error) {
	id, _ := r.Context().Value(playerIDKey).(string)
	if id == "" {
		return "", apierr.Authorization("no authenticated player")
	}
	return id, nil
}

// presenceTouch records the caller's presence on every authenticated
// request, per section 6's online-window tracking, without making any
// handler responsible for calling it explicitly.
func (s *Server) presenceTouch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := playerFrom(r); err == nil && s.Presence != nil {
			_ = s.Presence.Touch(r.Context(), id, time.Now())
		}
		next.ServeHTTP(w, r)
	})
}
