package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memRepo is an in-memory Repository enforcing the same uniqueness
// constraints the database does.
type memRepo struct {
	byMatricule map[string]Account
}

func newMemRepo() *memRepo {
	return &memRepo{byMatricule: make(map[string]Account)}
}

func (r *memRepo) Create(_ context.Context, a Account) error {
	if _, ok := r.byMatricule[a.Matricule]; ok {
		return ErrDuplicateMatricule
	}
	for _, existing := range r.byMatricule {
		if existing.Email == a.Email {
			return ErrDuplicateEmail
		}
	}
	r.byMatricule[a.Matricule] = a
	return nil
}

func (r *memRepo) GetByMatricule(_ context.Context, matricule string) (Account, error) {
	a, ok := r.byMatricule[matricule]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (Account, error) {
	for _, a := range r.byMatricule {
		if a.ID == id {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]Account, error) {
	out := make([]Account, 0, len(r.byMatricule))
	for _, a := range r.byMatricule {
		out = append(out, a)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, a Account) error {
	if _, ok := r.byMatricule[a.Matricule]; !ok {
		return ErrNotFound
	}
	for _, existing := range r.byMatricule {
		if existing.Matricule != a.Matricule && existing.Email == a.Email {
			return ErrDuplicateEmail
		}
	}
	r.byMatricule[a.Matricule] = a
	return nil
}

func TestCreate_DerivesEmailAndHashesPassword(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemRepo())
	a, err := svc.Create(context.Background(), CreateInput{
		Matricule: "0123",
		FirstName: " Ali ",
		LastName:  "Trabelsi",
		Password:  "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, "ali.trabelsi@biat-it.tn", a.Email)
	assert.Equal(t, "Ali", a.FirstName)
	assert.Equal(t, RoleTester, a.Role)
	assert.False(t, a.IsStaff)
	assert.False(t, a.IsSuperuser)
	assert.NotEqual(t, "s3cret", a.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("s3cret")))
}

func TestCreate_WithoutPassword(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemRepo())
	a, err := svc.Create(context.Background(), CreateInput{
		Matricule: "0456",
		FirstName: "Jane",
		LastName:  "O'Doe",
	})
	require.NoError(t, err)
	assert.Empty(t, a.PasswordHash)
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    CreateInput
		field string
	}{
		{"missing matricule", CreateInput{FirstName: "A", LastName: "B"}, "matricule"},
		{"matricule too short", CreateInput{Matricule: "12", FirstName: "A", LastName: "B"}, "matricule"},
		{"matricule non-digit", CreateInput{Matricule: "12a4", FirstName: "A", LastName: "B"}, "matricule"},
		{"missing first name", CreateInput{Matricule: "1234", FirstName: "  ", LastName: "B"}, "first_name"},
		{"missing last name", CreateInput{Matricule: "1234", FirstName: "A"}, "last_name"},
		{"unknown role", CreateInput{Matricule: "1234", FirstName: "A", LastName: "B", Role: "MANAGER"}, "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMemRepo())
			_, err := svc.Create(context.Background(), tt.in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreate_DuplicateMatricule(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemRepo())
	_, err := svc.Create(context.Background(), CreateInput{Matricule: "0123", FirstName: "Ali", LastName: "Trabelsi"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateInput{Matricule: "0123", FirstName: "Sami", LastName: "Gharbi"})
	assert.ErrorIs(t, err, ErrDuplicateMatricule)
}

func TestCreate_DuplicateDerivedEmail(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemRepo())
	_, err := svc.Create(context.Background(), CreateInput{Matricule: "0123", FirstName: "Ali", LastName: "Trabelsi"})
	require.NoError(t, err)

	// Different matricule, names normalizing to the same address.
	_, err = svc.Create(context.Background(), CreateInput{Matricule: "0124", FirstName: " ALI ", LastName: "Tra-Belsi"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestCreateSuperuser_ForcesAdminFlags(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemRepo())
	a, err := svc.CreateSuperuser(context.Background(), CreateInput{
		Matricule: "0001",
		FirstName: "Root",
		LastName:  "Admin",
		Password:  "changeme",
		Role:      RoleTester, // overridden
	})
	require.NoError(t, err)

	assert.Equal(t, RoleAdmin, a.Role)
	assert.True(t, a.IsStaff)
	assert.True(t, a.IsSuperuser)
}

func TestUpdate_RenameRederivesEmail(t *testing.T) {
	t.Parallel()

	repo := newMemRepo()
	svc := NewService(repo)
	_, err := svc.Create(context.Background(), CreateInput{Matricule: "0123", FirstName: "Ali", LastName: "Trabelsi"})
	require.NoError(t, err)

	last := "Ben-Amor"
	updated, err := svc.Update(context.Background(), "0123", UpdateInput{LastName: &last})
	require.NoError(t, err)

	assert.Equal(t, "ali.benamor@biat-it.tn", updated.Email)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	stored, err := repo.GetByMatricule(context.Background(), "0123")
	require.NoError(t, err)
	assert.Equal(t, "ali.benamor@biat-it.tn", stored.Email)
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemRepo())
	dep := "QA"
	_, err := svc.Update(context.Background(), "9999", UpdateInput{Department: &dep})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidate_EmailMismatch(t *testing.T) {
	t.Parallel()

	a := Account{
		Matricule: "0123",
		FirstName: "Ali",
		LastName:  "Trabelsi",
		Email:     "stale.address@biat-it.tn",
	}
	err := Validate(a)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Contains(t, verr.Message, "ali.trabelsi@biat-it.tn")

	a.Email = "ali.trabelsi@biat-it.tn"
	assert.NoError(t, Validate(a))
}

func TestValidate_BadMatricule(t *testing.T) {
	t.Parallel()

	err := Validate(Account{Matricule: "12345", FirstName: "A", LastName: "B", Email: "a.b@biat-it.tn"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "matricule", verr.Field)
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Field: "matricule", Message: "required"}
	assert.Equal(t, "matricule: required", err.Error())
	assert.False(t, errors.Is(err, ErrNotFound))
}
