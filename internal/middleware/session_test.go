package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

const testCookieName = "storefront_session"

func sessionEchoHandler(t *testing.T, captured *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := GetSessionID(r.Context())
		if !ok {
			t.Error("Session id missing from request context")
		}
		*captured = sessionID
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionMiddlewareIssuesCookie(t *testing.T) {
	var captured string
	handler := SessionMiddleware(testCookieName, 3600)(sessionEchoHandler(t, &captured))

	req := httptest.NewRequest("GET", "/api/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if _, err := uuid.Parse(captured); err != nil {
		t.Errorf("Expected a uuid session id, got %q", captured)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("Session cookie was not set")
	}
	if cookie.Value != captured {
		t.Errorf("Cookie value %q differs from context id %q", cookie.Value, captured)
	}
	if !cookie.HttpOnly {
		t.Error("Session cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("Expected SameSite Lax, got %v", cookie.SameSite)
	}
	if cookie.MaxAge != 3600 {
		t.Errorf("Expected MaxAge 3600, got %d", cookie.MaxAge)
	}
}

func TestSessionMiddlewareReusesExistingCookie(t *testing.T) {
	var captured string
	handler := SessionMiddleware(testCookieName, 3600)(sessionEchoHandler(t, &captured))

	existing := uuid.NewString()
	req := httptest.NewRequest("GET", "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: existing})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if captured != existing {
		t.Errorf("Expected existing session id %q, got %q", existing, captured)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			t.Error("Middleware must not reissue the cookie for a known session")
		}
	}
}
