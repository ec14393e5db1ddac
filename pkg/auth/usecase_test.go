package auth

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/biat-it/testmanager/pkg/accounts"
)

type stubRepo struct {
	accounts map[string]accounts.Account
}

func (r *stubRepo) Create(_ context.Context, a accounts.Account) error {
	r.accounts[a.Matricule] = a
	return nil
}

func (r *stubRepo) GetByMatricule(_ context.Context, matricule string) (accounts.Account, error) {
	a, ok := r.accounts[matricule]
	if !ok {
		return accounts.Account{}, accounts.ErrNotFound
	}
	return a, nil
}

func (r *stubRepo) GetByID(_ context.Context, id uuid.UUID) (accounts.Account, error) {
	for _, a := range r.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return accounts.Account{}, accounts.ErrNotFound
}

func (r *stubRepo) List(_ context.Context, _, _ int) ([]accounts.Account, error) {
	return nil, nil
}

func (r *stubRepo) Update(_ context.Context, a accounts.Account) error {
	r.accounts[a.Matricule] = a
	return nil
}

type stubIssuer struct {
	refreshErr error
}

func (s *stubIssuer) IssuePair(_ context.Context, a accounts.Account) (TokenPair, error) {
	return TokenPair{Access: "access-" + a.Matricule, Refresh: "refresh-" + a.Matricule}, nil
}

func (s *stubIssuer) RefreshAccess(_ context.Context, refreshToken string) (string, error) {
	if s.refreshErr != nil {
		return "", s.refreshErr
	}
	return "new-access", nil
}

func seedAccount(t *testing.T, repo *stubRepo, matricule, password string) accounts.Account {
	t.Helper()

	a := accounts.Account{
		ID:         uuid.New(),
		Matricule:  matricule,
		FirstName:  "Ali",
		LastName:   "Trabelsi",
		Email:      accounts.DeriveEmail("Ali", "Trabelsi"),
		Role:       accounts.RoleTester,
		Department: "QA",
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		a.PasswordHash = string(hash)
	}
	repo.accounts[matricule] = a
	return a
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{accounts: map[string]accounts.Account{}}
	seedAccount(t, repo, "0123", "s3cret")
	svc := NewService(repo, &stubIssuer{})

	res, err := svc.Login(context.Background(), "0123", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "access-0123", res.Tokens.Access)
	assert.Equal(t, "refresh-0123", res.Tokens.Refresh)
	assert.Equal(t, "0123", res.Profile.Matricule)
	assert.Equal(t, "ali.trabelsi@biat-it.tn", res.Profile.Email)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{accounts: map[string]accounts.Account{}}
	seedAccount(t, repo, "0123", "s3cret")
	seedAccount(t, repo, "0777", "") // no usable password
	svc := NewService(repo, &stubIssuer{})

	_, wrongPass := svc.Login(context.Background(), "0123", "wrongpass")
	_, unknown := svc.Login(context.Background(), "9999", "anything")
	_, noHash := svc.Login(context.Background(), "0777", "anything")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.ErrorIs(t, noHash, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
	assert.Equal(t, wrongPass.Error(), noHash.Error())
}

func TestLogin_ProfileNeverExposesHash(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{accounts: map[string]accounts.Account{}}
	seedAccount(t, repo, "0123", "s3cret")
	svc := NewService(repo, &stubIssuer{})

	res, err := svc.Login(context.Background(), "0123", "s3cret")
	require.NoError(t, err)

	raw, err := json.Marshal(res.Profile)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "password")
	assert.NotContains(t, fields, "password_hash")
	assert.ElementsMatch(t,
		[]string{"matricule", "email", "first_name", "last_name", "role", "department"},
		keys(fields))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{accounts: map[string]accounts.Account{}}

	svc := NewService(repo, &stubIssuer{})
	access, err := svc.Refresh(context.Background(), "some-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", access)

	svc = NewService(repo, &stubIssuer{refreshErr: assert.AnError})
	_, err = svc.Refresh(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{accounts: map[string]accounts.Account{}}
	a := seedAccount(t, repo, "0123", "s3cret")
	svc := NewService(repo, &stubIssuer{})

	p, err := svc.CurrentUser(context.Background(), a.ID.String())
	require.NoError(t, err)
	assert.Equal(t, NewProfile(a), p)

	_, err = svc.CurrentUser(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, accounts.ErrNotFound)

	_, err = svc.CurrentUser(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, accounts.ErrNotFound)
}
