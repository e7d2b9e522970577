package routers

import (
	"net/http"

	"rent_tracker/internal/api/handlers/expenses"
)

func expensesRouter(h *expenses.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/expenses/create", h.CreateExpenseHandler)

	mux.HandleFunc("/expenses/{id}/list", h.ListExpensesHandler)

	mux.HandleFunc("/expenses/{expense_id}/pay", h.MarkSharePaidHandler)

	mux.HandleFunc("/expenses/delete/{expense_id}", h.DeleteExpenseHandler)

	return mux
}
