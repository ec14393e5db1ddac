package auth

import "github.com/biat-it/testmanager/pkg/accounts"

// Profile is the public projection of an account returned to clients.
// It never carries the password hash.
type Profile struct {
	Matricule  string        `json:"matricule"`
	Email      string        `json:"email"`
	FirstName  string        `json:"first_name"`
	LastName   string        `json:"last_name"`
	Role       accounts.Role `json:"role"`
	Department string        `json:"department"`
}

// NewProfile projects an account onto its public shape.
func NewProfile(a accounts.Account) Profile {
	return Profile{
		Matricule:  a.Matricule,
		Email:      a.Email,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Role:       a.Role,
		Department: a.Department,
	}
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Tokens  TokenPair
	Profile Profile
}
