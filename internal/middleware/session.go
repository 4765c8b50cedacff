package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const SessionIDKey contextKey = "session_id"

// SessionMiddleware assigns each client an opaque session id carried in an
// HttpOnly cookie. The id keys the session's cart in the session store; a
// client without the cookie gets a fresh id on first contact.
func SessionMiddleware(cookieName string, maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string

			cookie, err := r.Cookie(cookieName)
			if err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			} else {
				sessionID = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   maxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID extracts the session id from request context
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok
}
