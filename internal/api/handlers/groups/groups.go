package groups

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rent_tracker/internal/api/handlers"
	"rent_tracker/internal/ledger"
	"rent_tracker/internal/models"
	"rent_tracker/pkg/utils"
)

type Handler struct {
	db     *sql.DB
	ledger *ledger.Engine
}

func NewHandler(db *sql.DB, engine *ledger.Engine) *Handler {
	return &Handler{db: db, ledger: engine}
}

// FUNC TO CREATE GROUP
// Creating a group also inserts the admin's member row, in one transaction.
func (h *Handler) CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(utils.ContextKey("userId")).(int)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		Name string `json:"name"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Name == "" {
		utils.WriteError(w, "group name is required", http.StatusBadRequest)
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	res, err := tx.ExecContext(r.Context(), "INSERT INTO `groups` (name, admin_id) VALUES (?, ?)", req.Name, userID)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create group: %v", err)
		utils.WriteError(w, "failed to create group", http.StatusInternalServerError)
		return
	}

	groupID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to get group id: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = tx.ExecContext(r.Context(),
		"INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, 'admin', ?)",
		groupID, userID, time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to add admin member: %v", err)
		utils.WriteError(w, "failed to create group", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(); err != nil {
		utils.Logger.Errorf("failed to commit transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "success",
		"message":  "group created successfully",
		"group_id": groupID,
	})
}

// FUNC TO LIST ALL GROUPS
func (h *Handler) GetGroupsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := `
		SELECT g.id, g.name, g.admin_id, u.name AS admin_name
		FROM ` + "`groups`" + ` g
		JOIN users u ON g.admin_id = u.id
	`
	rows, err := h.db.QueryContext(r.Context(), query)
	if err != nil {
		utils.Logger.Errorf("failed to fetch groups: %v", err)
		utils.WriteError(w, "failed to fetch groups", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type groupRow struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		AdminID   int    `json:"admin_id"`
		AdminName string `json:"admin_name"`
	}

	groupList := []groupRow{}
	for rows.Next() {
		var g groupRow
		if err := rows.Scan(&g.ID, &g.Name, &g.AdminID, &g.AdminName); err != nil {
			utils.Logger.Errorf("error scanning group: %v", err)
			utils.WriteError(w, "error reading groups", http.StatusInternalServerError)
			return
		}
		groupList = append(groupList, g)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing groups read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"groups": groupList,
	})
}

// FUNC TO LIST GROUPS THE CURRENT USER BELONGS TO
func (h *Handler) GetMyGroupsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(utils.ContextKey("userId")).(int)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	query := `
		SELECT DISTINCT g.id, g.name, g.admin_id, u.name AS admin_name, gm.role
		FROM ` + "`groups`" + ` g
		JOIN users u ON g.admin_id = u.id
		JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = ?
	`
	rows, err := h.db.QueryContext(r.Context(), query, userID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch user groups: %v", err)
		utils.WriteError(w, "failed to fetch groups", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type groupRow struct {
		ID        int    `json:"id"`
		Name      string `json:"name"`
		AdminID   int    `json:"admin_id"`
		AdminName string `json:"admin_name"`
		Role      string `json:"role"`
	}

	groupList := []groupRow{}
	for rows.Next() {
		var g groupRow
		if err := rows.Scan(&g.ID, &g.Name, &g.AdminID, &g.AdminName, &g.Role); err != nil {
			utils.Logger.Errorf("error scanning group: %v", err)
			utils.WriteError(w, "error reading groups", http.StatusInternalServerError)
			return
		}
		groupList = append(groupList, g)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing groups read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"groups": groupList,
	})
}

// FUNC TO GET GROUP DETAILS WITH MEMBERS
func (h *Handler) GetGroupDetailsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	var group models.Group
	var adminName string
	err = h.db.QueryRowContext(r.Context(), `
		SELECT g.id, g.name, g.admin_id, u.name
		FROM `+"`groups`"+` g
		JOIN users u ON g.admin_id = u.id
		WHERE g.id = ?
	`, groupID).Scan(&group.ID, &group.Name, &group.AdminID, &adminName)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch group: %v", err)
		utils.WriteError(w, "failed to fetch group", http.StatusInternalServerError)
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT u.id, u.name, u.email, u.phone, gm.role, gm.joined_at
		FROM group_members gm
		JOIN users u ON gm.user_id = u.id
		WHERE gm.group_id = ?
	`, groupID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch group members: %v", err)
		utils.WriteError(w, "failed to fetch group members", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type memberRow struct {
		UserID   int            `json:"user_id"`
		Name     string         `json:"name"`
		Email    string         `json:"email"`
		Phone    string         `json:"phone"`
		Role     string         `json:"role"`
		JoinedAt sql.NullString `json:"joined_at"`
	}

	members := []memberRow{}
	for rows.Next() {
		var m memberRow
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.JoinedAt); err != nil {
			utils.Logger.Errorf("error scanning member: %v", err)
			utils.WriteError(w, "error reading members", http.StatusInternalServerError)
			return
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		utils.WriteError(w, "error finalizing members read", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status": "success",
		"group": map[string]interface{}{
			"id":         group.ID,
			"name":       group.Name,
			"admin_id":   group.AdminID,
			"admin_name": adminName,
			"members":    members,
		},
	})
}

// FUNC TO ADD A MEMBER
func (h *Handler) AddMemberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requesterID, ok := r.Context().Value(utils.ContextKey("userId")).(int)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		GroupID int `json:"group_id"`
		UserID  int `json:"user_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.GroupID <= 0 || req.UserID <= 0 {
		utils.WriteError(w, "group ID and user ID are required", http.StatusBadRequest)
		return
	}

	var adminID int
	err := h.db.QueryRowContext(r.Context(), "SELECT admin_id FROM `groups` WHERE id = ?", req.GroupID).Scan(&adminID)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "group not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch group: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if adminID != requesterID {
		utils.WriteError(w, "forbidden: not group admin", http.StatusForbidden)
		return
	}

	var isMember bool
	err = h.db.QueryRowContext(r.Context(), "SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?)", req.GroupID, req.UserID).Scan(&isMember)
	if err != nil {
		utils.Logger.Errorf("failed to check membership: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if isMember {
		utils.WriteError(w, "user is already a member of this group", http.StatusConflict)
		return
	}

	_, err = h.db.ExecContext(r.Context(),
		"INSERT INTO group_members (group_id, user_id, role, joined_at) VALUES (?, ?, 'member', ?)",
		req.GroupID, req.UserID, time.Now().Format("2006-01-02 15:04:05"))
	if err != nil {
		// Concurrent adds can still trip the unique key after the check above.
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "user is already a member of this group", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to add member: %v", err)
		utils.WriteError(w, "failed to add member", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "member added successfully",
	})
}

// FUNC TO REMOVE A MEMBER WITH EXPENSE CASCADE
func (h *Handler) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("id")
	groupID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid group ID", http.StatusBadRequest)
		return
	}

	requesterID, ok := r.Context().Value(utils.ContextKey("userId")).(int)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	type request struct {
		UserID int `json:"user_id"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.UserID == requesterID {
		utils.WriteError(w, "group admins cannot remove themselves; delete the group instead", http.StatusBadRequest)
		return
	}

	if err := h.ledger.RemoveMemberCascade(r.Context(), groupID, req.UserID, requesterID); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "member removed and their expenses cleaned up",
	})
}
