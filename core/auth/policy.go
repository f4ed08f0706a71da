// Package auth decides who may study and for how long.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/revisioncam/core"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Principal struct {
	Username string `json:"username"`
}

// Policy checks a username/password pair.
type Policy interface {
	Authenticate(username, password string) (Principal, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(username, password string) (Principal, error)

func (f PolicyFunc) Authenticate(username, password string) (Principal, error) {
	return f(username, password)
}

// CredentialPolicy accepts a single configured account.
// The username is compared case-insensitively; the password against a bcrypt hash.
type CredentialPolicy struct {
	username string
	hash     []byte
}

var _ Policy = (*CredentialPolicy)(nil)

// NewCredentialPolicy returns a policy that refuses everybody while passwordHash is empty.
func NewCredentialPolicy(username, passwordHash string) *CredentialPolicy {
	return &CredentialPolicy{
		username: core.CleanString(username, true /* lower */),
		hash:     []byte(core.CleanString(passwordHash)),
	}
}

func (p *CredentialPolicy) Enabled() bool { return p.username != "" && len(p.hash) > 0 }

func (p *CredentialPolicy) Authenticate(username, password string) (Principal, error) {
	if !p.Enabled() {
		return Principal{}, ErrInvalidCredentials
	}
	if core.CleanString(username, true /* lower */) != p.username {
		return Principal{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(password)); err != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return Principal{Username: p.username}, nil
}

// HashPassword returns the bcrypt hash to configure as the account password.
func HashPassword(pwd string) (string, error) {
	if pwd == "" {
		return "", errors.New("password may not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
