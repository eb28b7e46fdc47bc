package valueobject

import (
	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
)

// Status is the closed set of account lifecycle states.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusPending   Status = "pending"
	StatusSuspended Status = "suspended"
)

// StatusFromString parses a status name; anything outside the enumeration
// fails.
func StatusFromString(raw string) (Status, error) {
	switch Status(raw) {
	case StatusActive, StatusInactive, StatusPending, StatusSuspended:
		return Status(raw), nil
	default:
		return "", domainerr.NewValidation("status", "invalid status: "+raw)
	}
}

func (s Status) IsActive() bool    { return s == StatusActive }
func (s Status) IsInactive() bool  { return s == StatusInactive }
func (s Status) IsPending() bool   { return s == StatusPending }
func (s Status) IsSuspended() bool { return s == StatusSuspended }

func (s Status) String() string { return string(s) }
