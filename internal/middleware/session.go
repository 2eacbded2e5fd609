package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/bryanwahyu/supplychain-insight/internal/application/dashboard"
)

// SessionCookie carries the dashboard session id.
const SessionCookie = "sci_session"

type sessionKey struct{}

// Session attaches the caller's dashboard session to the request context,
// starting a new one when needed.
func Session(store *dashboard.Sessions, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil {
				id = c.Value
			}
			sess, _ := store.GetOrCreate(id)
			// Re-issued on every hit so the browser's expiry slides with the server TTL.
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
		})
	}
}

// SessionFrom returns the session set by Session, or nil.
func SessionFrom(ctx context.Context) *dashboard.Session {
	s, _ := ctx.Value(sessionKey{}).(*dashboard.Session)
	return s
}

// SessionKey keys rate limits by session, falling back to the remote address.
func SessionKey(r *http.Request) string {
	if s := SessionFrom(r.Context()); s != nil {
		return s.ID
	}
	return r.RemoteAddr
}
