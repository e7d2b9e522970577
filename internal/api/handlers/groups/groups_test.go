package groups

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"rent_tracker/internal/ledger"
	"rent_tracker/pkg/utils"
)

func newTestHandler(t *testing.T) (*Handler, *sql.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "groups_test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL
		)`,
		"CREATE TABLE `groups` (" +
			`id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			admin_id INTEGER NOT NULL
		)`,
		`CREATE TABLE group_members (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			group_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			role TEXT NOT NULL DEFAULT 'member',
			joined_at TEXT,
			UNIQUE (group_id, user_id)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to create schema: %v", err)
		}
	}

	return NewHandler(db, ledger.New(db)), db
}

func asUser(r *http.Request, userID int) *http.Request {
	ctx := context.WithValue(r.Context(), utils.ContextKey("userId"), userID)
	return r.WithContext(ctx)
}

func TestAddMemberHandler(t *testing.T) {
	seed := func(t *testing.T, db *sql.DB) (adminID, bobID, groupID int) {
		t.Helper()
		for _, name := range []string{"admin", "bob"} {
			if _, err := db.Exec("INSERT INTO users (name, email, phone) VALUES (?, ?, '0000000000')",
				name, name+"@example.com"); err != nil {
				t.Fatalf("failed to seed user: %v", err)
			}
		}
		if _, err := db.Exec("INSERT INTO `groups` (name, admin_id) VALUES ('flat', 1)"); err != nil {
			t.Fatalf("failed to seed group: %v", err)
		}
		if _, err := db.Exec("INSERT INTO group_members (group_id, user_id, role) VALUES (1, 1, 'admin')"); err != nil {
			t.Fatalf("failed to seed admin member: %v", err)
		}
		return 1, 2, 1
	}

	t.Run("admin adds a new member", func(t *testing.T) {
		h, db := newTestHandler(t)
		adminID, _, _ := seed(t, db)

		body := strings.NewReader(`{"group_id":1,"user_id":2}`)
		req := asUser(httptest.NewRequest(http.MethodPost, "/groups/member/add", body), adminID)
		rec := httptest.NewRecorder()
		h.AddMemberHandler(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
		}

		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM group_members WHERE group_id = 1 AND user_id = 2").Scan(&n); err != nil {
			t.Fatalf("count query failed: %v", err)
		}
		if n != 1 {
			t.Errorf("member rows = %d, want 1", n)
		}
	})

	t.Run("re-adding an existing member is a conflict", func(t *testing.T) {
		h, db := newTestHandler(t)
		adminID, _, _ := seed(t, db)

		for i, want := range []int{http.StatusCreated, http.StatusConflict} {
			body := strings.NewReader(`{"group_id":1,"user_id":2}`)
			req := asUser(httptest.NewRequest(http.MethodPost, "/groups/member/add", body), adminID)
			rec := httptest.NewRecorder()
			h.AddMemberHandler(rec, req)
			if rec.Code != want {
				t.Errorf("request %d: status = %d, want %d", i+1, rec.Code, want)
			}
		}

		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM group_members WHERE group_id = 1 AND user_id = 2").Scan(&n); err != nil {
			t.Fatalf("count query failed: %v", err)
		}
		if n != 1 {
			t.Errorf("member rows = %d, want 1", n)
		}
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		h, db := newTestHandler(t)
		_, bobID, _ := seed(t, db)

		body := strings.NewReader(`{"group_id":1,"user_id":2}`)
		req := asUser(httptest.NewRequest(http.MethodPost, "/groups/member/add", body), bobID)
		rec := httptest.NewRecorder()
		h.AddMemberHandler(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		h, db := newTestHandler(t)
		adminID, _, _ := seed(t, db)

		body := strings.NewReader(`{"group_id":99,"user_id":2}`)
		req := asUser(httptest.NewRequest(http.MethodPost, "/groups/member/add", body), adminID)
		rec := httptest.NewRecorder()
		h.AddMemberHandler(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
