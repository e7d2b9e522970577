package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"rent_tracker/internal/api/handlers"
	"rent_tracker/internal/models"
	"rent_tracker/internal/session"
	"rent_tracker/pkg/utils"
)

type Handler struct {
	db   *sql.DB
	auth *session.Authority
}

func NewHandler(db *sql.DB, auth *session.Authority) *Handler {
	return &Handler{db: db, auth: auth}
}

// FUNC TO REGISTER USERS
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(req.Email)

	if err := handlers.CheckBlankFields(req); err != nil {
		utils.WriteError(w, "name, email, phone and password are required", http.StatusBadRequest)
		return
	}

	var exists bool
	err := h.db.QueryRowContext(r.Context(), "SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", req.Email).Scan(&exists)
	if err != nil {
		utils.Logger.Errorf("failed to check existing user: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if exists {
		utils.WriteError(w, "user with this email already exists", http.StatusConflict)
		return
	}

	hashedPwd, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.WriteError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"INSERT INTO users (name, email, phone, password, created_at) VALUES (?, ?, ?, ?, ?)",
		req.Name, req.Email, req.Phone, hashedPwd, time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "user with this email already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to insert user: %v", err)
		utils.WriteError(w, "error signing up", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to get last insert ID: %v", err)
		utils.WriteError(w, "error signing up", http.StatusInternalServerError)
		return
	}

	token, err := h.auth.IssueToken(int(id), req.Email)
	if err != nil {
		utils.Logger.Errorf("failed to sign token: %v", err)
		utils.WriteError(w, "error signing up", http.StatusInternalServerError)
		return
	}

	go func(email, name string) {
		if err := utils.SendWelcomeEmail(email, name); err != nil {
			utils.Logger.Errorf("failed to send welcome email to %s: %v", email, err)
		}
	}(req.Email, req.Name)

	setSessionCookie(w, token)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "user registered successfully",
		"token":   token,
		"user": map[string]interface{}{
			"id":    id,
			"name":  req.Name,
			"email": req.Email,
			"phone": req.Phone,
		},
	})
}

// FUNC TO LOGIN
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(req.Email)
	if req.Email == "" || req.Password == "" {
		utils.WriteError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	var user models.User
	err := h.db.QueryRowContext(r.Context(),
		"SELECT id, name, email, phone, password FROM users WHERE email = ?", req.Email).
		Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.Password)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		utils.Logger.Errorf("login query failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Legacy accounts created before password support have a NULL hash.
	if !user.Password.Valid || user.Password.String == "" {
		utils.WriteError(w, "please set a password for your account", http.StatusUnauthorized)
		return
	}

	if err := utils.VerifyPassword(req.Password, user.Password.String); err != nil {
		utils.WriteError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := h.auth.IssueToken(user.ID, user.Email)
	if err != nil {
		utils.Logger.Errorf("could not create login token: %v", err)
		utils.WriteError(w, "error signing in", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, token)

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "login successful",
		"token":   token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
		},
	})
}

// FUNC FOR LOGOUT
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// A single-user logout is client-side: drop the cookie, keep no server state.
	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Unix(0, 0),
		SameSite: http.SameSiteStrictMode,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "success", "message": "logged out successfully"}`))
}

// FUNC TO GET CURRENT USER PROFILE
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(utils.ContextKey("userId")).(int)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var user models.User
	err := h.db.QueryRowContext(r.Context(),
		"SELECT id, name, email, phone FROM users WHERE id = ?", userID).
		Scan(&user.ID, &user.Name, &user.Email, &user.Phone)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "user not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("profile query failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"user":   user,
	})
}

// FUNC TO UPDATE PASSWORD
func (h *Handler) UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(utils.ContextKey("userId")).(int)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.CurrentPassword == "" || req.NewPassword == "" {
		utils.WriteError(w, "current and new password are required", http.StatusBadRequest)
		return
	}

	var stored sql.NullString
	err := h.db.QueryRowContext(r.Context(), "SELECT password FROM users WHERE id = ?", userID).Scan(&stored)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "user not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("password query failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if stored.Valid && stored.String != "" {
		if err := utils.VerifyPassword(req.CurrentPassword, stored.String); err != nil {
			utils.WriteError(w, "current password is incorrect", http.StatusUnauthorized)
			return
		}
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.WriteError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	if _, err := h.db.ExecContext(r.Context(), "UPDATE users SET password = ? WHERE id = ?", hashed, userID); err != nil {
		utils.Logger.Errorf("failed to update password: %v", err)
		utils.WriteError(w, "could not update password", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "password updated successfully",
	})
}

// FUNC FOR THE USERS COLLECTION
// GET lists every account so clients can offer existing users in the
// add-member flow; POST pre-creates an account with no password. Such
// accounts cannot log in until a password is set.
func (h *Handler) UsersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listUsers(w, r)
	case http.MethodPost:
		h.createUser(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.QueryContext(r.Context(), "SELECT id, name, email, phone FROM users ORDER BY name")
	if err != nil {
		utils.Logger.Errorf("failed to fetch users: %v", err)
		utils.WriteError(w, "failed to fetch users", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	userList := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone); err != nil {
			utils.Logger.Errorf("error scanning user: %v", err)
			utils.WriteError(w, "error reading users", http.StatusInternalServerError)
			return
		}
		userList = append(userList, u)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing users read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"count":  len(userList),
		"users":  userList,
	})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	type request struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(req.Email)

	if err := handlers.CheckBlankFields(req); err != nil {
		utils.WriteError(w, "name, email and phone are required", http.StatusBadRequest)
		return
	}

	var exists bool
	err := h.db.QueryRowContext(r.Context(), "SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", req.Email).Scan(&exists)
	if err != nil {
		utils.Logger.Errorf("failed to check existing user: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if exists {
		utils.WriteError(w, "user with this email already exists", http.StatusConflict)
		return
	}

	res, err := h.db.ExecContext(r.Context(),
		"INSERT INTO users (name, email, phone, password, created_at) VALUES (?, ?, ?, NULL, ?)",
		req.Name, req.Email, req.Phone, time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "user with this email already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to insert user: %v", err)
		utils.WriteError(w, "error creating user", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to get last insert ID: %v", err)
		utils.WriteError(w, "error creating user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "user created successfully",
		"user": map[string]interface{}{
			"id":    id,
			"name":  req.Name,
			"email": req.Email,
			"phone": req.Phone,
		},
	})
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Now().Add(session.DefaultTTL),
		SameSite: http.SameSiteStrictMode,
	})
}
