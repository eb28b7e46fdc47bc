package valueobject_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-identity/internal/domain/valueobject"
)

func TestTimestampFromString(t *testing.T) {
	ts, err := valueobject.TimestampFromString("2025-06-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2025, ts.Value().Year())
	assert.Equal(t, "2025-06-15T10:30:00Z", ts.ISOString())

	_, err = valueobject.TimestampFromString("2025-06-15")
	require.Error(t, err)
	_, err = valueobject.TimestampFromString("not a date")
	require.Error(t, err)
}

func TestTimestampComparisons(t *testing.T) {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	earlier := valueobject.TimestampFromTime(base)
	later := valueobject.TimestampFromTime(base.Add(time.Hour))

	assert.True(t, earlier.IsBefore(later))
	assert.True(t, later.IsAfter(earlier))
	assert.False(t, earlier.Equals(later))
	assert.True(t, earlier.Equals(valueobject.TimestampFromTime(base)))
}

func TestTimestampDayArithmetic(t *testing.T) {
	base := valueobject.TimestampFromTime(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))

	assert.Equal(t, 18, base.AddDays(3).Value().Day())
	assert.Equal(t, 10, base.SubDays(5).Value().Day())
	assert.True(t, base.AddDays(1).IsAfter(base))
	assert.Equal(t, "2025-06-15 10:00:00", base.String())
}
