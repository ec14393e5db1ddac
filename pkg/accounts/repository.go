package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound           = errors.New("account not found")
	ErrDuplicateMatricule = errors.New("matricule already in use")
	ErrDuplicateEmail     = errors.New("email already in use")
)

// ValidationError reports a rejected input value for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Repository abstracts persistence concerns from the domain layer.
// Uniqueness of matricule and email is enforced by the storage engine,
// not by in-process locking.
type Repository interface {
	Create(ctx context.Context, a Account) error
	GetByMatricule(ctx context.Context, matricule string) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	List(ctx context.Context, limit, offset int) ([]Account, error)
	Update(ctx context.Context, a Account) error
}
