package accounts

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// The matricule is the 4-digit employee badge number used as login username.
var matriculeRe = regexp.MustCompile(`^\d{4}$`)

// CreateInput carries caller-supplied fields for a new account.
// Password is optional; an account created without one cannot log in.
type CreateInput struct {
	Matricule   string
	FirstName   string
	LastName    string
	Password    string
	Role        Role
	Department  string
	IsStaff     bool
	IsSuperuser bool
}

// UpdateInput lists mutable profile fields. A nil pointer leaves the
// corresponding field unchanged.
type UpdateInput struct {
	FirstName  *string
	LastName   *string
	Role       *Role
	Department *string
}

// UseCase describes account management behavior.
type UseCase interface {
	Create(ctx context.Context, in CreateInput) (Account, error)
	CreateSuperuser(ctx context.Context, in CreateInput) (Account, error)
	GetByMatricule(ctx context.Context, matricule string) (Account, error)
	List(ctx context.Context, limit, offset int) ([]Account, error)
	Update(ctx context.Context, matricule string, in UpdateInput) (Account, error)
}

type service struct {
	repo Repository
}

// NewService returns the default implementation of UseCase.
func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) Create(ctx context.Context, in CreateInput) (Account, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if in.Matricule == "" {
		return Account{}, &ValidationError{Field: "matricule", Message: "matricule is required"}
	}
	if !matriculeRe.MatchString(in.Matricule) {
		return Account{}, &ValidationError{Field: "matricule", Message: "matricule must be exactly 4 digits (e.g., 0123)"}
	}
	if in.FirstName == "" {
		return Account{}, &ValidationError{Field: "first_name", Message: "first name is required"}
	}
	if in.LastName == "" {
		return Account{}, &ValidationError{Field: "last_name", Message: "last name is required"}
	}
	if in.Role == "" {
		in.Role = RoleTester
	}
	if !in.Role.Valid() {
		return Account{}, &ValidationError{Field: "role", Message: "role must be one of ADMIN, QA_LEAD, TESTER"}
	}

	var passwordHash string
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return Account{}, err
		}
		passwordHash = string(hash)
	}

	now := time.Now().UTC()
	a := Account{
		ID:           uuid.New(),
		Matricule:    in.Matricule,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        DeriveEmail(in.FirstName, in.LastName),
		PasswordHash: passwordHash,
		Role:         in.Role,
		Department:   strings.TrimSpace(in.Department),
		IsStaff:      in.IsStaff,
		IsSuperuser:  in.IsSuperuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *service) CreateSuperuser(ctx context.Context, in CreateInput) (Account, error) {
	in.Role = RoleAdmin
	in.IsStaff = true
	in.IsSuperuser = true
	return s.Create(ctx, in)
}

func (s *service) GetByMatricule(ctx context.Context, matricule string) (Account, error) {
	return s.repo.GetByMatricule(ctx, matricule)
}

func (s *service) List(ctx context.Context, limit, offset int) ([]Account, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *service) Update(ctx context.Context, matricule string, in UpdateInput) (Account, error) {
	a, err := s.repo.GetByMatricule(ctx, matricule)
	if err != nil {
		return Account{}, err
	}

	if in.FirstName != nil {
		a.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		a.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Role != nil {
		a.Role = *in.Role
	}
	if in.Department != nil {
		a.Department = strings.TrimSpace(*in.Department)
	}

	if a.FirstName == "" {
		return Account{}, &ValidationError{Field: "first_name", Message: "first name is required"}
	}
	if a.LastName == "" {
		return Account{}, &ValidationError{Field: "last_name", Message: "last name is required"}
	}
	if !a.Role.Valid() {
		return Account{}, &ValidationError{Field: "role", Message: "role must be one of ADMIN, QA_LEAD, TESTER"}
	}

	// Email is a function of the current name, recomputed on every save.
	a.Email = DeriveEmail(a.FirstName, a.LastName)
	a.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Validate checks the account invariants: matricule shape and the stored
// email against the address derived from the current name fields.
func Validate(a Account) error {
	if !matriculeRe.MatchString(a.Matricule) {
		return &ValidationError{Field: "matricule", Message: "matricule must be exactly 4 digits (e.g., 0123)"}
	}
	expected := DeriveEmail(a.FirstName, a.LastName)
	if !strings.EqualFold(a.Email, expected) {
		return &ValidationError{Field: "email", Message: fmt.Sprintf("email must be exactly: %s", expected)}
	}
	return nil
}
