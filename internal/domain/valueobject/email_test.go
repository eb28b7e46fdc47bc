package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

func TestNewEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@example.com",
		"user+tag@sub.example.co",
		"u@example.io",
	}
	for _, raw := range valid {
		e, err := valueobject.NewEmail(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, e.Value())
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@localhost",
		"user@@example.com",
		"user example@example.com",
		" user@example.com",
		"user@example.com ",
	}
	for _, raw := range invalid {
		_, err := valueobject.NewEmail(raw)
		require.Error(t, err, "%q should be rejected", raw)
		assert.True(t, domainerr.IsValidation(err), raw)
	}
}

func TestEmailEquals(t *testing.T) {
	a, err := valueobject.NewEmail("user@example.com")
	require.NoError(t, err)
	b, err := valueobject.NewEmail("user@example.com")
	require.NoError(t, err)
	c, err := valueobject.NewEmail("other@example.com")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
