package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/auth"
	"github.com/nominahr/payroll-backend-go/internal/domain/user"
	"github.com/nominahr/payroll-backend-go/internal/handler/http/response"
)

// RequireRole allows the request through when the token's role claim is one
// of the listed roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			role, ok := claims["role"].(string)
			if !ok {
				response.HandleError(w, user.ErrAdminPrivilegeRequired)
				return
			}
			for _, allowed := range roles {
				if user.Role(role) == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.HandleError(w, user.ErrAdminPrivilegeRequired)
		})
	}
}

func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(user.RoleAdmin)(next)
}
