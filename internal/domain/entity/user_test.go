package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-identity/internal/domain/entity"
	"github.com/oksasatya/go-user-identity/internal/domain/event"
	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

func newTestUser(t *testing.T) *entity.User {
	t.Helper()
	email, err := valueobject.NewEmail("linh@example.com")
	require.NoError(t, err)
	pwd, err := valueobject.PasswordFromPlainText("Sup3r@secret")
	require.NoError(t, err)
	hashed, err := pwd.Hash()
	require.NoError(t, err)
	u := entity.Register("linh", email, hashed, "Linh", "Nguyen", nil, valueobject.RoleUser)
	u.AssignID(42)
	return u
}

func TestRegisterDefaults(t *testing.T) {
	email, err := valueobject.NewEmail("linh@example.com")
	require.NoError(t, err)
	pwd, err := valueobject.PasswordFromPlainText("Sup3r@secret")
	require.NoError(t, err)

	u := entity.Register("linh", email, pwd, "Linh", "Nguyen", nil, "")

	assert.False(t, u.HasID())
	assert.True(t, u.IsActive())
	assert.False(t, u.IsVerified())
	assert.Equal(t, valueobject.RoleUser, u.Role())
	assert.Equal(t, entity.DefaultTimezone, u.Timezone())
	assert.Equal(t, entity.DefaultLanguage, u.Language())
	assert.Equal(t, u.CreatedAt(), u.UpdatedAt())
	assert.Equal(t, "Linh Nguyen", u.FullName())
	assert.Empty(t, u.PendingEvents(), "registration itself records nothing")
}

func TestRecordRegistrationAfterSave(t *testing.T) {
	u := newTestUser(t)
	u.RecordRegistration()

	events := u.DrainEvents()
	require.Len(t, events, 1)
	reg, ok := events[0].(event.UserRegistered)
	require.True(t, ok)
	assert.Equal(t, "user.registered", reg.Name())
	assert.Equal(t, int64(42), reg.AggregateID())
	assert.Equal(t, "linh@example.com", reg.Email)
	assert.Equal(t, "linh", reg.Username)
	assert.Empty(t, u.PendingEvents(), "drain clears the buffer")
}

func TestUpdateProfileAppliesOnlyChangedFields(t *testing.T) {
	u := newTestUser(t)
	first := "Mai"
	sameLast := "Nguyen"
	tz := "UTC"

	u.UpdateProfile(entity.UpdateProfileInput{FirstName: &first, LastName: &sameLast, Timezone: &tz})

	assert.Equal(t, "Mai", u.FirstName())
	assert.Equal(t, "UTC", u.Timezone())

	events := u.DrainEvents()
	require.Len(t, events, 1)
	upd, ok := events[0].(event.ProfileUpdated)
	require.True(t, ok)
	assert.Equal(t, []string{"first_name", "timezone"}, upd.Changes.FieldNames(),
		"unchanged last name must not appear in the change set")
}

func TestUpdateProfileNoOp(t *testing.T) {
	u := newTestUser(t)
	before := u.UpdatedAt()
	time.Sleep(5 * time.Millisecond)

	sameFirst := "Linh"
	u.UpdateProfile(entity.UpdateProfileInput{FirstName: &sameFirst})

	assert.Empty(t, u.PendingEvents())
	assert.Equal(t, before, u.UpdatedAt(), "a no-op must not touch updatedAt")

	u.UpdateProfile(entity.UpdateProfileInput{})
	assert.Empty(t, u.PendingEvents())
}

func TestUpdateProfilePhone(t *testing.T) {
	u := newTestUser(t)
	phone, err := valueobject.NewPhone("0912345678")
	require.NoError(t, err)

	u.UpdateProfile(entity.UpdateProfileInput{Phone: &phone})
	require.NotNil(t, u.Phone())
	assert.Equal(t, "0912345678", u.Phone().Value())
	require.Len(t, u.PendingEvents(), 1)
	u.DrainEvents()

	// same number again is a no-op
	samePhone, err := valueobject.NewPhone("0912345678")
	require.NoError(t, err)
	u.UpdateProfile(entity.UpdateProfileInput{Phone: &samePhone})
	assert.Empty(t, u.PendingEvents())
}

func TestDeactivateIsIdempotent(t *testing.T) {
	u := newTestUser(t)

	u.Deactivate("fraud review")
	assert.False(t, u.IsActive())
	firstUpdate := u.UpdatedAt()

	events := u.DrainEvents()
	require.Len(t, events, 1)
	deact, ok := events[0].(event.UserDeactivated)
	require.True(t, ok)
	assert.Equal(t, "fraud review", deact.Reason)

	time.Sleep(5 * time.Millisecond)
	u.Deactivate("again")
	assert.Empty(t, u.PendingEvents(), "second deactivation records nothing")
	assert.Equal(t, firstUpdate, u.UpdatedAt(), "second deactivation must not touch updatedAt")
}

func TestDeactivateDefaultReason(t *testing.T) {
	u := newTestUser(t)
	u.Deactivate("")

	events := u.DrainEvents()
	require.Len(t, events, 1)
	deact := events[0].(event.UserDeactivated)
	assert.Equal(t, "Manual deactivation", deact.Reason)
}

func TestActivateIsIdempotent(t *testing.T) {
	u := newTestUser(t)

	u.Activate() // already active
	assert.Empty(t, u.PendingEvents())

	u.Deactivate("")
	u.DrainEvents()

	u.Activate()
	assert.True(t, u.IsActive())
	events := u.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "user.activated", events[0].Name())
}

func TestVerifyEmailIsIdempotent(t *testing.T) {
	u := newTestUser(t)
	require.Nil(t, u.EmailVerifiedAt())

	u.VerifyEmail()
	assert.True(t, u.IsVerified())
	require.NotNil(t, u.EmailVerifiedAt())
	require.Len(t, u.DrainEvents(), 1)

	stamp := *u.EmailVerifiedAt()
	u.VerifyEmail()
	assert.Empty(t, u.PendingEvents())
	assert.Equal(t, stamp, *u.EmailVerifiedAt())
}

func TestChangeRole(t *testing.T) {
	u := newTestUser(t)

	u.ChangeRole(valueobject.RoleUser) // same role
	assert.Empty(t, u.PendingEvents())

	u.ChangeRole(valueobject.RoleAdmin)
	assert.True(t, u.IsAdmin())
	events := u.DrainEvents()
	require.Len(t, events, 1)
	rc := events[0].(event.RoleChanged)
	assert.Equal(t, "admin", rc.Role)
}

func TestChangePasswordAlwaysEmits(t *testing.T) {
	u := newTestUser(t)
	pwd, err := valueobject.PasswordFromPlainText("N3w@password")
	require.NoError(t, err)
	hashed, err := pwd.Hash()
	require.NoError(t, err)

	u.ChangePassword(hashed)
	events := u.DrainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "user.password_changed", events[0].Name())
	assert.True(t, u.Password().Verify("N3w@password"))
}

func TestCanLogin(t *testing.T) {
	u := newTestUser(t)
	assert.False(t, u.CanLogin(), "unverified accounts cannot log in")

	u.VerifyEmail()
	assert.True(t, u.CanLogin())

	u.Deactivate("")
	assert.False(t, u.CanLogin())
}

func TestRecordLogin(t *testing.T) {
	u := newTestUser(t)
	require.Nil(t, u.LastLoginAt())

	u.RecordLogin()
	require.NotNil(t, u.LastLoginAt())

	events := u.DrainEvents()
	require.Len(t, events, 1)
	li := events[0].(event.UserLoggedIn)
	assert.Equal(t, "user.logged_in", li.Name())
	assert.Equal(t, "linh@example.com", li.Email)
}

func TestSnapshotRoundTrip(t *testing.T) {
	u := newTestUser(t)
	u.VerifyEmail()
	u.DrainEvents()

	restored := entity.Reconstitute(u.ToSnapshot())

	assert.Equal(t, u.ID(), restored.ID())
	assert.Equal(t, u.Username(), restored.Username())
	assert.Equal(t, u.Email().Value(), restored.Email().Value())
	assert.Equal(t, u.IsVerified(), restored.IsVerified())
	assert.Equal(t, u.Role(), restored.Role())
	assert.Equal(t, u.Timezone(), restored.Timezone())
	assert.Empty(t, restored.PendingEvents(), "reconstitution records nothing")
}

func TestEventOrderingIsPreserved(t *testing.T) {
	u := newTestUser(t)
	first := "Mai"
	u.UpdateProfile(entity.UpdateProfileInput{FirstName: &first})
	u.VerifyEmail()
	u.ChangeRole(valueobject.RoleAdmin)

	events := u.DrainEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "user.profile_updated", events[0].Name())
	assert.Equal(t, "user.email_verified", events[1].Name())
	assert.Equal(t, "user.role_changed", events[2].Name())
}
