package employee

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrManagerAccessRequired = errors.New("manager role required")
)
