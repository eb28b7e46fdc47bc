package valueobject

import (
	"github.com/google/uuid"

	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
)

// ID is a non-empty opaque identifier.
type ID struct {
	value string
}

// NewID rejects empty identifiers.
func NewID(raw string) (ID, error) {
	if raw == "" {
		return ID{}, domainerr.NewValidation("id", "must not be empty")
	}
	return ID{value: raw}, nil
}

// GenerateID mints a random identifier.
func GenerateID() ID {
	return ID{value: uuid.NewString()}
}

func (i ID) Value() string { return i.value }

func (i ID) Equals(other ID) bool { return i.value == other.value }

func (i ID) String() string { return i.value }
