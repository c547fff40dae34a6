package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password schemes accepted by NewPasswordComparer.
const (
	SchemePlain  = "plain"
	SchemeBcrypt = "bcrypt"
)

// PasswordComparer checks a presented password against the stored value.
type PasswordComparer interface {
	Compare(stored, presented string) bool
}

// PlainComparer matches stored plaintext passwords exactly.
type PlainComparer struct{}

func (PlainComparer) Compare(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// BcryptComparer treats stored passwords as bcrypt hashes.
type BcryptComparer struct{}

func (BcryptComparer) Compare(stored, presented string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
}

// NewPasswordComparer returns the comparer for scheme.
func NewPasswordComparer(scheme string) (PasswordComparer, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case "", SchemePlain:
		return PlainComparer{}, nil
	case SchemeBcrypt:
		return BcryptComparer{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// HashPassword hashes a plaintext password with the given cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
