// Package event holds the immutable facts the User aggregate records.
// Events are pure data: the aggregate accumulates them, the application
// layer drains and publishes them after a successful save.
package event

import "time"

// DomainEvent is implemented by every user event.
type DomainEvent interface {
	// Name is a stable identifier, e.g. "user.registered".
	Name() string
	// AggregateID is the numeric user id the event belongs to.
	AggregateID() int64
	// OccurredOn is stamped by the factory at creation time.
	OccurredOn() time.Time
}

type base struct {
	userID     int64
	occurredOn time.Time
}

func (b base) AggregateID() int64    { return b.userID }
func (b base) OccurredOn() time.Time { return b.occurredOn }

func newBase(userID int64) base {
	return base{userID: userID, occurredOn: time.Now().UTC()}
}

// UserRegistered records a completed registration.
type UserRegistered struct {
	base
	Email    string
	Username string
}

func NewUserRegistered(userID int64, email, username string) UserRegistered {
	return UserRegistered{base: newBase(userID), Email: email, Username: username}
}

func (UserRegistered) Name() string { return "user.registered" }

// ProfileChanges enumerates the fields a profile update may touch. Only
// fields that actually changed carry non-nil values.
type ProfileChanges struct {
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	Timezone        *string `json:"timezone,omitempty"`
	Language        *string `json:"language,omitempty"`
}

// IsEmpty reports whether no field changed.
func (c ProfileChanges) IsEmpty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Phone == nil &&
		c.ProfileImageURL == nil && c.Timezone == nil && c.Language == nil
}

// FieldNames lists the changed fields in a fixed order.
func (c ProfileChanges) FieldNames() []string {
	var names []string
	if c.FirstName != nil {
		names = append(names, "first_name")
	}
	if c.LastName != nil {
		names = append(names, "last_name")
	}
	if c.Phone != nil {
		names = append(names, "phone")
	}
	if c.ProfileImageURL != nil {
		names = append(names, "profile_image_url")
	}
	if c.Timezone != nil {
		names = append(names, "timezone")
	}
	if c.Language != nil {
		names = append(names, "language")
	}
	return names
}

// ProfileUpdated records which profile fields changed.
type ProfileUpdated struct {
	base
	Changes ProfileChanges
}

func NewProfileUpdated(userID int64, changes ProfileChanges) ProfileUpdated {
	return ProfileUpdated{base: newBase(userID), Changes: changes}
}

func (ProfileUpdated) Name() string { return "user.profile_updated" }

// PasswordChanged records a credential rotation. It carries no secret
// material.
type PasswordChanged struct {
	base
}

func NewPasswordChanged(userID int64) PasswordChanged {
	return PasswordChanged{base: newBase(userID)}
}

func (PasswordChanged) Name() string { return "user.password_changed" }

// EmailVerified records the first successful email verification.
type EmailVerified struct {
	base
}

func NewEmailVerified(userID int64) EmailVerified {
	return EmailVerified{base: newBase(userID)}
}

func (EmailVerified) Name() string { return "user.email_verified" }

// UserLoggedIn records a successful authentication.
type UserLoggedIn struct {
	base
	Email string
}

func NewUserLoggedIn(userID int64, email string) UserLoggedIn {
	return UserLoggedIn{base: newBase(userID), Email: email}
}

func (UserLoggedIn) Name() string { return "user.logged_in" }

// UserDeactivated records a soft delete with its reason.
type UserDeactivated struct {
	base
	Reason string
}

func NewUserDeactivated(userID int64, reason string) UserDeactivated {
	return UserDeactivated{base: newBase(userID), Reason: reason}
}

func (UserDeactivated) Name() string { return "user.deactivated" }

// UserActivated records a reactivation.
type UserActivated struct {
	base
}

func NewUserActivated(userID int64) UserActivated {
	return UserActivated{base: newBase(userID)}
}

func (UserActivated) Name() string { return "user.activated" }

// RoleChanged records a role transition.
type RoleChanged struct {
	base
	Role string
}

func NewRoleChanged(userID int64, role string) RoleChanged {
	return RoleChanged{base: newBase(userID), Role: role}
}

func (RoleChanged) Name() string { return "user.role_changed" }
