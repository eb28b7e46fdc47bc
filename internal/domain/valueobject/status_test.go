package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

func TestStatusFromString(t *testing.T) {
	for _, raw := range []string{"active", "inactive", "pending", "suspended"} {
		s, err := valueobject.StatusFromString(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, s.String())
	}

	_, err := valueobject.StatusFromString("deleted")
	require.Error(t, err)
	_, err = valueobject.StatusFromString("Active")
	require.Error(t, err)
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, valueobject.StatusActive.IsActive())
	assert.True(t, valueobject.StatusInactive.IsInactive())
	assert.True(t, valueobject.StatusPending.IsPending())
	assert.True(t, valueobject.StatusSuspended.IsSuspended())
	assert.False(t, valueobject.StatusActive.IsSuspended())
}
