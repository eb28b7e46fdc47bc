package valueobject

import (
	"regexp"
	"strings"

	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
)

// Vietnamese mobile numbers: +84 or leading 0, a mobile prefix 3-9,
// then eight digits.
var phonePattern = regexp.MustCompile(`^(\+84[3-9]\d{8}|0[3-9]\d{8})$`)

// Phone is an immutable, validated mobile number. The raw input is kept as
// given; validation runs against a cleaned copy with separators stripped.
type Phone struct {
	value string
}

// NewPhone validates raw after stripping every character except digits and a
// leading plus sign.
func NewPhone(raw string) (Phone, error) {
	if !phonePattern.MatchString(cleanPhone(raw)) {
		return Phone{}, domainerr.NewValidation("phone", "invalid phone number format")
	}
	return Phone{value: raw}, nil
}

func cleanPhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
		if r == '+' && b.Len() == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (p Phone) Value() string { return p.value }

func (p Phone) Equals(other Phone) bool { return p.value == other.value }

func (p Phone) String() string { return p.value }
