package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

func TestNewID(t *testing.T) {
	id, err := valueobject.NewID("abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id.Value())

	_, err = valueobject.NewID("")
	require.Error(t, err)
}

func TestGenerateID(t *testing.T) {
	a := valueobject.GenerateID()
	b := valueobject.GenerateID()

	assert.NotEmpty(t, a.Value())
	assert.False(t, a.Equals(b))
}
