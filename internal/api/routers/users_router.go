package routers

import (
	"net/http"

	"rent_tracker/internal/api/handlers/auth"
)

func usersRouter(h *auth.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/users/{$}", h.UsersHandler)
	mux.HandleFunc("/users/signup", h.RegisterHandler)
	mux.HandleFunc("/users/login", h.LoginHandler)
	mux.HandleFunc("/users/logout", h.LogoutHandler)
	mux.HandleFunc("/users/profile", h.ProfileHandler)
	mux.HandleFunc("/users/updatepassword", h.UpdatePasswordHandler)

	return mux
}
