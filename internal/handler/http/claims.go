package http

import (
	"fmt"
	"net/http"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
)

// actorFromRequest extracts the authenticated employee id and role from the
// verified token claims.
func actorFromRequest(r *http.Request) (string, employee.Role, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	role, _ := claims["role"].(string)
	return employeeID, employee.Role(role), nil
}

// employeeIDFromRequest extracts only the authenticated employee id.
func employeeIDFromRequest(r *http.Request) (string, error) {
	employeeID, _, err := actorFromRequest(r)
	return employeeID, err
}
