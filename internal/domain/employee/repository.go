package employee

import "context"

// Repository is read-only: the directory is an external collaborator.
type Repository interface {
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
}
