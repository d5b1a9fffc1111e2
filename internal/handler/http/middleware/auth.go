package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/ess-hr/ess-backend-go/internal/domain/user"
	"github.com/ess-hr/ess-backend-go/internal/handler/http/response"
)

func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.Unauthorized(w, "Invalid token")
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}

// PrincipalFromRequest resolves the authenticated caller from token
// claims. Everything below the handlers receives this struct instead of
// reading the context.
func PrincipalFromRequest(r *http.Request) (user.Principal, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return user.Principal{}, user.ErrNotAuthorized
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Principal{}, user.ErrNotAuthorized
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return user.Principal{}, user.ErrNotAuthorized
	}

	role := user.ParseRole(roleStr)
	if !role.IsValid() {
		return user.Principal{}, user.ErrNotAuthorized
	}

	return user.Principal{UserID: userID, Role: role}, nil
}
