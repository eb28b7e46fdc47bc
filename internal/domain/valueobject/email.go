package valueobject

import (
	"regexp"
	"strings"

	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
)

// local-part@domain with at least one dot in the domain
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// Email is an immutable, validated email address.
type Email struct {
	value string
}

// NewEmail validates raw against the address grammar. Leading or trailing
// whitespace is rejected rather than trimmed.
func NewEmail(raw string) (Email, error) {
	if raw == "" {
		return Email{}, domainerr.NewValidation("email", "must not be empty")
	}
	if raw != strings.TrimSpace(raw) {
		return Email{}, domainerr.NewValidation("email", "must not contain surrounding whitespace")
	}
	if !emailPattern.MatchString(raw) {
		return Email{}, domainerr.NewValidation("email", "invalid email format")
	}
	return Email{value: raw}, nil
}

func (e Email) Value() string { return e.value }

func (e Email) Equals(other Email) bool { return e.value == other.value }

func (e Email) String() string { return e.value }
