package valueobject_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

func TestNewPasswordLengthBounds(t *testing.T) {
	_, err := valueobject.NewPassword("short")
	require.Error(t, err)

	_, err = valueobject.NewPassword(strings.Repeat("a", 256))
	require.Error(t, err)

	_, err = valueobject.NewPassword("longenough")
	require.NoError(t, err)
}

func TestPasswordHashAndVerify(t *testing.T) {
	p, err := valueobject.PasswordFromPlainText("Sup3r@secret")
	require.NoError(t, err)
	assert.False(t, p.IsHashed())

	hashed, err := p.Hash()
	require.NoError(t, err)
	assert.True(t, hashed.IsHashed())
	assert.NotEqual(t, p.Value(), hashed.Value())

	assert.True(t, hashed.Verify("Sup3r@secret"))
	assert.False(t, hashed.Verify("Sup3r@secret!"))
	assert.False(t, hashed.Verify(""))
}

func TestPasswordHashAcceptsLongInput(t *testing.T) {
	// bcrypt alone rejects anything past 72 bytes; the whole [8,255]
	// range must hash and verify
	long := strings.Repeat("Ab1@", 25) // 100 chars
	p, err := valueobject.NewPassword(long)
	require.NoError(t, err)

	hashed, err := p.Hash()
	require.NoError(t, err)
	assert.True(t, hashed.IsHashed())
	assert.True(t, hashed.Verify(long))
	assert.False(t, hashed.Verify(long[:99]))

	max := "Ab1@" + strings.Repeat("x", 251)
	p, err = valueobject.NewPassword(max)
	require.NoError(t, err)
	hashed, err = p.Hash()
	require.NoError(t, err)
	assert.True(t, hashed.Verify(max))
}

func TestPasswordHashIsIdempotent(t *testing.T) {
	p, err := valueobject.PasswordFromPlainText("Sup3r@secret")
	require.NoError(t, err)

	once, err := p.Hash()
	require.NoError(t, err)
	twice, err := once.Hash()
	require.NoError(t, err)

	// hashing a hash must not change it, otherwise the original
	// credential could never verify again
	assert.Equal(t, once.Value(), twice.Value())
	assert.True(t, twice.Verify("Sup3r@secret"))
}

func TestPasswordFromHashRoundTrip(t *testing.T) {
	p, err := valueobject.PasswordFromPlainText("Sup3r@secret")
	require.NoError(t, err)
	hashed, err := p.Hash()
	require.NoError(t, err)

	loaded, err := valueobject.PasswordFromHash(hashed.Value())
	require.NoError(t, err)
	assert.True(t, loaded.IsHashed())
	assert.True(t, loaded.Verify("Sup3r@secret"))
}

func TestPasswordIsStrong(t *testing.T) {
	cases := map[string]bool{
		"Abcdef1@":    true,
		"Str0ng&pass": true,
		"abcdef1@":    false, // no uppercase
		"ABCDEF1@":    false, // no lowercase
		"Abcdefg@":    false, // no digit
		"Abcdefg1":    false, // no symbol
		"Abcdef1#":    false, // symbol outside the accepted set
	}
	for raw, want := range cases {
		p, err := valueobject.NewPassword(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, p.IsStrong(), raw)
	}
}
