// Package entity holds the User aggregate root. All mutations go through
// its methods; every real state change appends exactly one domain event to
// the pending list, no-op transitions append nothing.
package entity

import (
	"time"

	"github.com/oksasatya/go-user-identity/internal/domain/event"
	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

const (
	DefaultTimezone = "Asia/Ho_Chi_Minh"
	DefaultLanguage = "vi"
)

// User is the aggregate root for the identity domain. The numeric id is
// zero until the repository assigns one on first save.
type User struct {
	id              int64
	username        string
	email           valueobject.Email
	password        valueobject.Password
	firstName       string
	lastName        string
	phone           *valueobject.Phone
	isActive        bool
	isVerified      bool
	emailVerifiedAt *time.Time
	role            valueobject.Role
	createdAt       time.Time
	updatedAt       time.Time
	lastLoginAt     *time.Time
	profileImageURL string
	timezone        string
	language        string
	passwordSalt    string

	events []event.DomainEvent
}

// Register builds a fresh User: active, unverified, role defaulting to
// user, createdAt == updatedAt == now. It does not check uniqueness (the
// domain service does) and records no event; RecordRegistration is called
// once the identity exists after the first save.
func Register(username string, email valueobject.Email, password valueobject.Password, firstName, lastName string, phone *valueobject.Phone, role valueobject.Role) *User {
	if role == "" {
		role = valueobject.RoleUser
	}
	now := time.Now().UTC()
	return &User{
		username:   username,
		email:      email,
		password:   password,
		firstName:  firstName,
		lastName:   lastName,
		phone:      phone,
		isActive:   true,
		isVerified: false,
		role:       role,
		createdAt:  now,
		updatedAt:  now,
		timezone:   DefaultTimezone,
		language:   DefaultLanguage,
	}
}

// Snapshot is the persisted state of a User as the repository stores it.
type Snapshot struct {
	ID              int64
	Username        string
	Email           valueobject.Email
	Password        valueobject.Password
	FirstName       string
	LastName        string
	Phone           *valueobject.Phone
	IsActive        bool
	IsVerified      bool
	EmailVerifiedAt *time.Time
	Role            valueobject.Role
	CreatedAt       time.Time
	UpdatedAt       time.Time
	LastLoginAt     *time.Time
	ProfileImageURL string
	Timezone        string
	Language        string
	PasswordSalt    string
}

// Reconstitute rebuilds a User from its stored snapshot without touching
// timestamps or recording events.
func Reconstitute(s Snapshot) *User {
	tz := s.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	lang := s.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	return &User{
		id:              s.ID,
		username:        s.Username,
		email:           s.Email,
		password:        s.Password,
		firstName:       s.FirstName,
		lastName:        s.LastName,
		phone:           s.Phone,
		isActive:        s.IsActive,
		isVerified:      s.IsVerified,
		emailVerifiedAt: s.EmailVerifiedAt,
		role:            s.Role,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
		lastLoginAt:     s.LastLoginAt,
		profileImageURL: s.ProfileImageURL,
		timezone:        tz,
		language:        lang,
		passwordSalt:    s.PasswordSalt,
	}
}

// ToSnapshot exports current state for persistence.
func (u *User) ToSnapshot() Snapshot {
	return Snapshot{
		ID:              u.id,
		Username:        u.username,
		Email:           u.email,
		Password:        u.password,
		FirstName:       u.firstName,
		LastName:        u.lastName,
		Phone:           u.phone,
		IsActive:        u.isActive,
		IsVerified:      u.isVerified,
		EmailVerifiedAt: u.emailVerifiedAt,
		Role:            u.role,
		CreatedAt:       u.createdAt,
		UpdatedAt:       u.updatedAt,
		LastLoginAt:     u.lastLoginAt,
		ProfileImageURL: u.profileImageURL,
		Timezone:        u.timezone,
		Language:        u.language,
		PasswordSalt:    u.passwordSalt,
	}
}

// AssignID sets the persisted identity after the first insert.
func (u *User) AssignID(id int64) { u.id = id }

// RecordRegistration appends the registration event. Call it only after
// a successful persistence round-trip so the event carries a real id.
func (u *User) RecordRegistration() {
	u.addEvent(event.NewUserRegistered(u.id, u.email.Value(), u.username))
}

// UpdateProfileInput carries optional profile fields; nil means "leave as
// is". Empty strings are valid new values for clearable fields.
type UpdateProfileInput struct {
	FirstName       *string
	LastName        *string
	Phone           *valueobject.Phone
	ProfileImageURL *string
	Timezone        *string
	Language        *string
}

// UpdateProfile applies each provided field only when it differs from the
// current value. When nothing differs the call is a true no-op: no event,
// no updatedAt change.
func (u *User) UpdateProfile(in UpdateProfileInput) {
	var changes event.ProfileChanges

	if in.FirstName != nil && *in.FirstName != u.firstName {
		u.firstName = *in.FirstName
		changes.FirstName = in.FirstName
	}
	if in.LastName != nil && *in.LastName != u.lastName {
		u.lastName = *in.LastName
		changes.LastName = in.LastName
	}
	if in.Phone != nil && (u.phone == nil || !in.Phone.Equals(*u.phone)) {
		u.phone = in.Phone
		v := in.Phone.Value()
		changes.Phone = &v
	}
	if in.ProfileImageURL != nil && *in.ProfileImageURL != u.profileImageURL {
		u.profileImageURL = *in.ProfileImageURL
		changes.ProfileImageURL = in.ProfileImageURL
	}
	if in.Timezone != nil && *in.Timezone != u.timezone {
		u.timezone = *in.Timezone
		changes.Timezone = in.Timezone
	}
	if in.Language != nil && *in.Language != u.language {
		u.language = *in.Language
		changes.Language = in.Language
	}

	if !changes.IsEmpty() {
		u.touch()
		u.addEvent(event.NewProfileUpdated(u.id, changes))
	}
}

// ChangePassword always updates: a hashed password never compares equal to
// a previous hash, so there is no meaningful no-op check.
func (u *User) ChangePassword(newPassword valueobject.Password) {
	u.password = newPassword
	u.touch()
	u.addEvent(event.NewPasswordChanged(u.id))
}

// VerifyEmail is idempotent; verifying twice changes nothing.
func (u *User) VerifyEmail() {
	if u.isVerified {
		return
	}
	now := time.Now().UTC()
	u.isVerified = true
	u.emailVerifiedAt = &now
	u.touch()
	u.addEvent(event.NewEmailVerified(u.id))
}

// RecordLogin stamps lastLoginAt unconditionally. Eligibility (CanLogin)
// is the authentication service's job before calling this.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.lastLoginAt = &now
	u.addEvent(event.NewUserLoggedIn(u.id, u.email.Value()))
}

// Deactivate soft-deletes the account. Calling it on an inactive user is a
// no-op: no event, no timestamp churn.
func (u *User) Deactivate(reason string) {
	if !u.isActive {
		return
	}
	if reason == "" {
		reason = "Manual deactivation"
	}
	u.isActive = false
	u.touch()
	u.addEvent(event.NewUserDeactivated(u.id, reason))
}

// Activate reverses a deactivation; idempotent.
func (u *User) Activate() {
	if u.isActive {
		return
	}
	u.isActive = true
	u.touch()
	u.addEvent(event.NewUserActivated(u.id))
}

// ChangeRole updates and emits only on an actual transition.
func (u *User) ChangeRole(newRole valueobject.Role) {
	if u.role == newRole {
		return
	}
	u.role = newRole
	u.touch()
	u.addEvent(event.NewRoleChanged(u.id, newRole.String()))
}

// CanLogin is a pure predicate: active and verified.
func (u *User) CanLogin() bool { return u.isActive && u.isVerified }

// HasPermission delegates to the role mapping.
func (u *User) HasPermission(permission string) bool { return u.role.HasPermission(permission) }

func (u *User) IsAdmin() bool { return u.role.IsAdmin() }

func (u *User) touch() { u.updatedAt = time.Now().UTC() }

func (u *User) addEvent(e event.DomainEvent) { u.events = append(u.events, e) }

// DrainEvents returns the pending events and clears the buffer. The
// application layer calls it only after a successful save, so events are
// never reported for state that was not persisted.
func (u *User) DrainEvents() []event.DomainEvent {
	out := u.events
	u.events = nil
	return out
}

// PendingEvents returns a copy of the undrained events.
func (u *User) PendingEvents() []event.DomainEvent {
	out := make([]event.DomainEvent, len(u.events))
	copy(out, u.events)
	return out
}

// Getters

func (u *User) ID() int64                     { return u.id }
func (u *User) HasID() bool                   { return u.id != 0 }
func (u *User) Username() string              { return u.username }
func (u *User) Email() valueobject.Email      { return u.email }
func (u *User) Password() valueobject.Password { return u.password }
func (u *User) FirstName() string             { return u.firstName }
func (u *User) LastName() string              { return u.lastName }
func (u *User) FullName() string              { return u.firstName + " " + u.lastName }
func (u *User) Phone() *valueobject.Phone     { return u.phone }
func (u *User) IsActive() bool                { return u.isActive }
func (u *User) IsVerified() bool              { return u.isVerified }
func (u *User) EmailVerifiedAt() *time.Time   { return u.emailVerifiedAt }
func (u *User) Role() valueobject.Role        { return u.role }
func (u *User) CreatedAt() time.Time          { return u.createdAt }
func (u *User) UpdatedAt() time.Time          { return u.updatedAt }
func (u *User) LastLoginAt() *time.Time       { return u.lastLoginAt }
func (u *User) ProfileImageURL() string       { return u.profileImageURL }
func (u *User) Timezone() string              { return u.timezone }
func (u *User) Language() string              { return u.language }
func (u *User) PasswordSalt() string          { return u.passwordSalt }
