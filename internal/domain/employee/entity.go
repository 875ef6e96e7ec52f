package employee

import "time"

// Employee is identity metadata owned by the external directory; this
// module reads it only as a join target for display and export.
type Employee struct {
	ID         string
	FullName   string
	Email      string
	Role       Role
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)
