package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rent_tracker/internal/session"
	"rent_tracker/pkg/utils"
)

func TestJWTMiddleware(t *testing.T) {
	auth := session.NewWithEpoch("test-secret", 1000)
	mw := JWTMiddleware(auth)

	okHandler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/groups/list", nil)
		rec := httptest.NewRecorder()

		okHandler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid cookie puts claims on the context", func(t *testing.T) {
		token, err := auth.IssueToken(42, "alice@example.com")
		if err != nil {
			t.Fatalf("IssueToken failed: %v", err)
		}

		var gotUserID int
		var gotEmail string
		handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserID, _ = r.Context().Value(utils.ContextKey("userId")).(int)
			gotEmail, _ = r.Context().Value(utils.ContextKey("email")).(string)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/groups/list", nil)
		req.AddCookie(&http.Cookie{Name: "Bearer", Value: token})
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
		}
		if gotUserID != 42 {
			t.Errorf("userId from context = %d, want 42", gotUserID)
		}
		if gotEmail != "alice@example.com" {
			t.Errorf("email from context = %q, want alice@example.com", gotEmail)
		}
	})

	t.Run("authorization header also works", func(t *testing.T) {
		token, err := auth.IssueToken(7, "bob@example.com")
		if err != nil {
			t.Fatalf("IssueToken failed: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/groups/list", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		okHandler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("stale token after restart", func(t *testing.T) {
		oldAuth := session.NewWithEpoch("test-secret", 999)
		token, err := oldAuth.IssueToken(42, "alice@example.com")
		if err != nil {
			t.Fatalf("IssueToken failed: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/groups/list", nil)
		req.AddCookie(&http.Cookie{Name: "Bearer", Value: token})
		rec := httptest.NewRecorder()

		okHandler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "server restart") {
			t.Errorf("body %q does not mention server restart", rec.Body.String())
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/groups/list", nil)
		req.AddCookie(&http.Cookie{Name: "Bearer", Value: "garbage"})
		rec := httptest.NewRecorder()

		okHandler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestMiddlewaresExcludePaths(t *testing.T) {
	auth := session.NewWithEpoch("test-secret", 1000)
	mw := MiddlewaresExcludePaths(JWTMiddleware(auth), "/users/signup", "/users/login")

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("excluded path skips auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("other paths still require a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/groups/list", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}
