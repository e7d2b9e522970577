package routers

import (
	"database/sql"
	"net/http"

	"rent_tracker/internal/api/handlers/auth"
	"rent_tracker/internal/api/handlers/expenses"
	"rent_tracker/internal/api/handlers/groups"
	"rent_tracker/internal/ledger"
	"rent_tracker/internal/session"
)

func MainRouter(db *sql.DB, engine *ledger.Engine, authority *session.Authority) *http.ServeMux {

	mux := http.NewServeMux()

	uRouter := usersRouter(auth.NewHandler(db, authority))
	mux.Handle("/users/", uRouter)

	gRouter := groupsRouter(groups.NewHandler(db, engine))
	mux.Handle("/groups/", gRouter)

	eRouter := expensesRouter(expenses.NewHandler(engine))
	mux.Handle("/expenses/", eRouter)

	return mux
}
