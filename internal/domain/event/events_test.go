package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-identity/internal/domain/event"
)

func TestEventMetadata(t *testing.T) {
	before := time.Now().UTC()
	e := event.NewUserRegistered(7, "linh@example.com", "linh")
	after := time.Now().UTC()

	assert.Equal(t, "user.registered", e.Name())
	assert.Equal(t, int64(7), e.AggregateID())
	assert.False(t, e.OccurredOn().Before(before))
	assert.False(t, e.OccurredOn().After(after))
}

func TestProfileChanges(t *testing.T) {
	var empty event.ProfileChanges
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.FieldNames())

	first := "Mai"
	lang := "en"
	changes := event.ProfileChanges{FirstName: &first, Language: &lang}
	assert.False(t, changes.IsEmpty())
	assert.Equal(t, []string{"first_name", "language"}, changes.FieldNames())
}

func TestProfileChangesJSONOmitsUnchanged(t *testing.T) {
	first := "Mai"
	b, err := json.Marshal(event.ProfileChanges{FirstName: &first})
	require.NoError(t, err)
	assert.JSONEq(t, `{"first_name":"Mai"}`, string(b))
}

func TestEventNames(t *testing.T) {
	cases := map[string]event.DomainEvent{
		"user.registered":      event.NewUserRegistered(1, "a@b.co", "a"),
		"user.profile_updated": event.NewProfileUpdated(1, event.ProfileChanges{}),
		"user.password_changed": event.NewPasswordChanged(1),
		"user.email_verified":  event.NewEmailVerified(1),
		"user.logged_in":       event.NewUserLoggedIn(1, "a@b.co"),
		"user.deactivated":     event.NewUserDeactivated(1, "r"),
		"user.activated":       event.NewUserActivated(1),
		"user.role_changed":    event.NewRoleChanged(1, "admin"),
	}
	for want, e := range cases {
		assert.Equal(t, want, e.Name())
	}
}
