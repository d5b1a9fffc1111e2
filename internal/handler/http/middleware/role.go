package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/ess-hr/ess-backend-go/internal/domain/user"
	"github.com/ess-hr/ess-backend-go/internal/handler/http/response"
)

// RequireRole restricts a route to the given roles. Admins pass every
// check.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, user.ErrNotAuthorized)
				return
			}

			roleStr, ok := claims["role"].(string)
			if !ok {
				response.HandleError(w, user.ErrNotAuthorized)
				return
			}

			role := user.Role(roleStr)
			if role == user.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.HandleError(w, user.ErrNotAuthorized)
		})
	}
}
