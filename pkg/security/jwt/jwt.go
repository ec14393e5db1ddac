package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/biat-it/testmanager/pkg/accounts"
	"github.com/biat-it/testmanager/pkg/auth"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrWrongTokenUse = errors.New("token used for the wrong purpose")
)

// Claims includes the standard claims plus the account identity fields the
// service needs without a database lookup.
type Claims struct {
	jwt.RegisteredClaims
	Matricule string `json:"matricule"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
}

// Generator issues and verifies HS256 access/refresh token pairs.
type Generator struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewGenerator(secret, issuer string, accessTTL, refreshTTL time.Duration) *Generator {
	return &Generator{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair signs a short-lived access token and a longer-lived refresh
// token bound to the account's identity and role.
func (g *Generator) IssuePair(ctx context.Context, a accounts.Account) (auth.TokenPair, error) {
	access, err := g.sign(a.ID.String(), a.Matricule, string(a.Role), TokenTypeAccess, g.accessTTL)
	if err != nil {
		return auth.TokenPair{}, err
	}
	refresh, err := g.sign(a.ID.String(), a.Matricule, string(a.Role), TokenTypeRefresh, g.refreshTTL)
	if err != nil {
		return auth.TokenPair{}, err
	}
	return auth.TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshAccess validates a refresh token and mints a fresh access token
// from its identity claims. No server-side state is consulted.
func (g *Generator) RefreshAccess(ctx context.Context, refreshToken string) (string, error) {
	claims, err := g.Parse(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != TokenTypeRefresh {
		return "", ErrWrongTokenUse
	}
	return g.sign(claims.Subject, claims.Matricule, claims.Role, TokenTypeAccess, g.accessTTL)
}

// Parse verifies signature, expiry and issuer and returns the claims.
func (g *Generator) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if g.issuer != "" && claims.Issuer != g.issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (g *Generator) sign(subject, matricule, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Matricule: matricule,
		Role:      role,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}
