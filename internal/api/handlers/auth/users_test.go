package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"rent_tracker/internal/session"
)

func newTestHandler(t *testing.T) (*Handler, *sql.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "auth_test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL,
		password TEXT,
		created_at TEXT
	)`); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return NewHandler(db, session.NewWithEpoch("test-secret", 1)), db
}

func TestUsersHandler(t *testing.T) {
	t.Run("lists every account", func(t *testing.T) {
		h, db := newTestHandler(t)
		for _, name := range []string{"alice", "bob"} {
			if _, err := db.Exec("INSERT INTO users (name, email, phone) VALUES (?, ?, '0000000000')",
				name, name+"@example.com"); err != nil {
				t.Fatalf("failed to seed user: %v", err)
			}
		}

		req := httptest.NewRequest(http.MethodGet, "/users/", nil)
		rec := httptest.NewRecorder()
		h.UsersHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
		}

		var resp struct {
			Status string `json:"status"`
			Count  int    `json:"count"`
			Users  []struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"users"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Count != 2 || len(resp.Users) != 2 {
			t.Errorf("count = %d with %d users, want 2", resp.Count, len(resp.Users))
		}
	})

	t.Run("creates a passwordless account", func(t *testing.T) {
		h, db := newTestHandler(t)

		body := strings.NewReader(`{"name":"dave","email":"Dave@Example.com","phone":"0712345678"}`)
		req := httptest.NewRequest(http.MethodPost, "/users/", body)
		rec := httptest.NewRecorder()
		h.UsersHandler(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
		}

		var pwd sql.NullString
		if err := db.QueryRow("SELECT password FROM users WHERE email = 'dave@example.com'").Scan(&pwd); err != nil {
			t.Fatalf("created user not found under lowercased email: %v", err)
		}
		if pwd.Valid {
			t.Errorf("password = %q, want NULL", pwd.String)
		}
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		h, _ := newTestHandler(t)

		for i, want := range []int{http.StatusCreated, http.StatusConflict} {
			body := strings.NewReader(`{"name":"dave","email":"dave@example.com","phone":"0712345678"}`)
			req := httptest.NewRequest(http.MethodPost, "/users/", body)
			rec := httptest.NewRecorder()
			h.UsersHandler(rec, req)
			if rec.Code != want {
				t.Errorf("request %d: status = %d, want %d", i+1, rec.Code, want)
			}
		}
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		h, _ := newTestHandler(t)

		body := strings.NewReader(`{"name":"dave","email":"","phone":"0712345678"}`)
		req := httptest.NewRequest(http.MethodPost, "/users/", body)
		rec := httptest.NewRecorder()
		h.UsersHandler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unsupported method", func(t *testing.T) {
		h, _ := newTestHandler(t)

		req := httptest.NewRequest(http.MethodDelete, "/users/", nil)
		rec := httptest.NewRecorder()
		h.UsersHandler(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})
}

func TestPasswordlessAccountCannotLogIn(t *testing.T) {
	h, _ := newTestHandler(t)

	body := strings.NewReader(`{"name":"dave","email":"dave@example.com","phone":"0712345678"}`)
	req := httptest.NewRequest(http.MethodPost, "/users/", body)
	rec := httptest.NewRecorder()
	h.UsersHandler(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rec.Code)
	}

	loginBody := strings.NewReader(`{"email":"dave@example.com","password":"anything"}`)
	loginReq := httptest.NewRequest(http.MethodPost, "/users/login", loginBody)
	loginRec := httptest.NewRecorder()
	h.LoginHandler(loginRec, loginReq)

	if loginRec.Code != http.StatusUnauthorized {
		t.Fatalf("login status = %d, want 401, body: %s", loginRec.Code, loginRec.Body.String())
	}
	if !strings.Contains(loginRec.Body.String(), "set a password") {
		t.Errorf("login body %q does not point at the missing password", loginRec.Body.String())
	}
}
