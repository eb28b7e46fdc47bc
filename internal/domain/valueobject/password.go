package valueobject

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"

	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 255

	// symbol set accepted by IsStrong
	passwordSymbols = "@$!%*?&"
)

// Password wraps a credential string. The same type carries either a
// plaintext value pending hashing or an already-hashed value loaded from
// storage; Hash is idempotent across the two.
type Password struct {
	value string
}

// NewPassword validates length bounds only; strength is a separate predicate
// so reconstructed hashes (which are always long and random) pass through.
func NewPassword(raw string) (Password, error) {
	if len(raw) < passwordMinLength {
		return Password{}, domainerr.NewValidation("password", "must be at least 8 characters")
	}
	if len(raw) > passwordMaxLength {
		return Password{}, domainerr.NewValidation("password", "must not exceed 255 characters")
	}
	return Password{value: raw}, nil
}

// PasswordFromPlainText wraps a plaintext credential.
func PasswordFromPlainText(plain string) (Password, error) {
	return NewPassword(plain)
}

// PasswordFromHash wraps a bcrypt hash loaded from storage.
func PasswordFromHash(hash string) (Password, error) {
	return NewPassword(hash)
}

// digest pre-hashes the plaintext so bcrypt's 72-byte input limit never
// rejects a long password. Base64 keeps the digest ASCII and NUL-free.
func digest(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// Hash returns a Password holding the bcrypt hash of the digested value.
// Calling it on an already-hashed value returns the value unchanged, so a
// hash never gets hashed twice.
func (p Password) Hash() (Password, error) {
	if p.IsHashed() {
		return p, nil
	}
	b, err := bcrypt.GenerateFromPassword(digest(p.value), bcrypt.DefaultCost)
	if err != nil {
		return Password{}, err
	}
	return Password{value: string(b)}, nil
}

// IsHashed inspects the stored value's hash metadata (the bcrypt version
// prefix) to tell hashes apart from plaintext.
func (p Password) IsHashed() bool {
	if _, err := bcrypt.Cost([]byte(p.value)); err == nil {
		return true
	}
	return false
}

// Verify checks a plaintext candidate against the stored hash. The
// candidate goes through the same digest as Hash; bcrypt's comparison is
// constant-time.
func (p Password) Verify(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.value), digest(plain)) == nil
}

// IsStrong requires at least one lowercase letter, one uppercase letter,
// one digit, and one symbol from the fixed set.
func (p Password) IsStrong() bool {
	var lower, upper, digit, symbol bool
	for _, r := range p.value {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

func (p Password) Value() string { return p.value }
