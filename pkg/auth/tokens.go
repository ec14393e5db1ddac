package auth

import (
	"context"

	"github.com/biat-it/testmanager/pkg/accounts"
)

// TokenPair holds the signed access and refresh credentials for a session.
// Both are self-contained; nothing is stored server-side.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenIssuer abstracts token creation and refresh exchange (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type TokenIssuer interface {
	IssuePair(ctx context.Context, a accounts.Account) (TokenPair, error)
	RefreshAccess(ctx context.Context, refreshToken string) (string, error)
}
