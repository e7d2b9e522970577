package expenses

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"rent_tracker/internal/api/handlers"
	"rent_tracker/internal/ledger"
	"rent_tracker/pkg/utils"
)

type Handler struct {
	ledger *ledger.Engine
}

func NewHandler(engine *ledger.Engine) *Handler {
	return &Handler{ledger: engine}
}

// FUNC TO CREATE AN EXPENSE AND SPLIT IT
func (h *Handler) CreateExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type request struct {
		GroupID     int             `json:"group_id"`
		Title       string          `json:"title"`
		TotalAmount decimal.Decimal `json:"total_amount"`
		Category    string          `json:"category"`
		PaidBy      *int            `json:"paid_by"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	result, err := h.ledger.CreateExpense(r.Context(), ledger.CreateExpenseParams{
		GroupID:     req.GroupID,
		Title:       req.Title,
		TotalAmount: req.TotalAmount,
		Category:    req.Category,
		PaidBy:      req.PaidBy,
	})
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "expense added and split successfully",
		"data":    result,
	})
}

// FUNC TO LIST GROUP EXPENSES WITH SHARES
func (h *Handler) ListExpensesHandler(w http.ResponseWriter, r *http.Request) {
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

	expenseList, err := h.ledger.ListExpenses(r.Context(), groupID)
	if err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":   "success",
		"group_id": groupID,
		"count":    len(expenseList),
		"expenses": expenseList,
	})
}

// FUNC TO MARK A SHARE AS PAID
func (h *Handler) MarkSharePaidHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("expense_id")
	expenseID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
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

	if req.UserID <= 0 {
		utils.WriteError(w, "user ID is required", http.StatusBadRequest)
		return
	}

	if err := h.ledger.MarkSharePaid(r.Context(), expenseID, req.UserID); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "marked as paid",
	})
}

// FUNC TO DELETE AN EXPENSE AND ITS SHARES
func (h *Handler) DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.PathValue("expense_id")
	expenseID, err := strconv.Atoi(idStr)
	if err != nil {
		utils.WriteError(w, "invalid expense ID", http.StatusBadRequest)
		return
	}

	if err := h.ledger.DeleteExpense(r.Context(), expenseID); err != nil {
		handlers.WriteLedgerError(w, err)
		return
	}

	utils.WriteJSON(w, map[string]interface{}{
		"status":  "success",
		"message": "expense and related shares deleted successfully",
	})
}
