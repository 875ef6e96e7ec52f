package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/attendly-hq/attendance-backend-go/internal/config"
	"github.com/attendly-hq/attendance-backend-go/internal/domain/employee"
	"github.com/attendly-hq/attendance-backend-go/internal/pkg/jwt"
)

// tokengen mints an access token for local development and operational
// testing. Authentication itself is handled by the upstream identity
// provider in deployed environments.
func main() {
	employeeID := flag.String("employee", "", "employee id to embed in the token")
	role := flag.String("role", string(employee.RoleEmployee), "role claim (employee or manager)")
	flag.Parse()

	if *employeeID == "" {
		log.Fatal("-employee is required")
	}
	if *role != string(employee.RoleEmployee) && *role != string(employee.RoleManager) {
		log.Fatalf("invalid role %q: must be %s or %s", *role, employee.RoleEmployee, employee.RoleManager)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, expiresAt, err := JWTService.GenerateAccessToken(*employeeID, employee.Role(*role))
	if err != nil {
		log.Fatal("Failed to generate token:", err)
	}

	fmt.Println(token)
	fmt.Printf("expires at %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
