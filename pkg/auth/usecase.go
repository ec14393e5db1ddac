package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/biat-it/testmanager/pkg/accounts"
)

// Common errors used by the authentication use cases.
var (
	// ErrInvalidCredentials covers unknown matricule, wrong password and
	// accounts without a usable password. The causes are deliberately not
	// distinguishable from the outside.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// UseCase describes login, token refresh and current-user behavior.
type UseCase interface {
	Login(ctx context.Context, matricule, password string) (LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	CurrentUser(ctx context.Context, userID string) (Profile, error)
}

type authService struct {
	repo   accounts.Repository
	tokens TokenIssuer
}

// NewService returns the default implementation of UseCase.
func NewService(repo accounts.Repository, tokens TokenIssuer) UseCase {
	return &authService{repo: repo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, matricule, password string) (LoginResult, error) {
	a, err := s.repo.GetByMatricule(ctx, matricule)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if a.PasswordHash == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(ctx, a)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Tokens: pair, Profile: NewProfile(a)}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	access, err := s.tokens.RefreshAccess(ctx, refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}
	return access, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (Profile, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return Profile{}, accounts.ErrNotFound
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	return NewProfile(a), nil
}
