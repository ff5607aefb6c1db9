package handler

import (
	"net/http"

	"github.com/abdougarali/Perfume-Order-Store/internal/admin"
)

// RequireAdmin rejects requests without a live admin session. Order creation
// stays public; everything else that reads or mutates orders goes through
// this middleware.
func RequireAdmin(auth *admin.Auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if c, err := r.Cookie(adminCookieName); err == nil {
				token = c.Value
			}

			if err := auth.Require(r.Context(), token); err != nil {
				respondWithError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
