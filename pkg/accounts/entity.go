package accounts

import (
	"time"

	"github.com/google/uuid"
)

// Role enumerates the account roles recognised by the test manager.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleQALead Role = "QA_LEAD"
	RoleTester Role = "TESTER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleQALead, RoleTester:
		return true
	}
	return false
}

// Account is a domain entity representing an employee account.
// Email is always derived from the name fields, never user-supplied.
type Account struct {
	ID           uuid.UUID
	Matricule    string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string // empty when the account has no usable password
	Role         Role
	Department   string
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
