package middleware

import (
	"net/http"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// ManagerOnly guards the oversight endpoints: team-wide listing, stats and
// export.
func ManagerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, employee.ErrManagerAccessRequired)
			return
		}

		role, ok := claims["role"].(string)
		if !ok || employee.Role(role) != employee.RoleManager {
			response.HandleError(w, employee.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
