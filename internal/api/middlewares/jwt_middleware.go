package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"rent_tracker/internal/session"
	"rent_tracker/pkg/utils"
)

// JWTMiddleware authenticates requests with the session authority. The token
// is read from the Bearer cookie or the Authorization header.
func JWTMiddleware(auth *session.Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie("Bearer"); err == nil {
				token = strings.TrimPrefix(cookie.Value, "Bearer ")
			} else if header := r.Header.Get("Authorization"); header != "" {
				token = strings.TrimPrefix(header, "Bearer ")
			}

			if token == "" {
				utils.WriteError(w, "Unauthorized: Missing Bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				switch {
				case errors.Is(err, session.ErrStaleSession):
					utils.WriteError(w, "session expired due to server restart, please log in again", http.StatusUnauthorized)
				case errors.Is(err, session.ErrTokenExpired):
					utils.WriteError(w, "token expired", http.StatusUnauthorized)
				default:
					utils.WriteError(w, "invalid login token", http.StatusUnauthorized)
				}
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextKey("userId"), claims.UserID)
			ctx = context.WithValue(ctx, utils.ContextKey("email"), claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MiddlewaresExcludePaths applies mw to every request except those whose path
// starts with one of the excluded prefixes.
func MiddlewaresExcludePaths(mw func(http.Handler) http.Handler, excluded ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range excluded {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}
			wrapped.ServeHTTP(w, r)
		})
	}
}
