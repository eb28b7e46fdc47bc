package valueobject

import (
	"time"

	domainerr "github.com/oksasatya/go-user-identity/internal/domain/errors"
)

// Timestamp wraps an instant with comparison and formatting helpers.
type Timestamp struct {
	value time.Time
}

// TimestampNow captures the current instant in UTC.
func TimestampNow() Timestamp {
	return Timestamp{value: time.Now().UTC()}
}

// TimestampFromTime wraps an existing instant.
func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp{value: t}
}

// TimestampFromString parses an RFC 3339 instant.
func TimestampFromString(raw string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return Timestamp{}, domainerr.NewValidation("timestamp", "invalid date format: "+raw)
	}
	return Timestamp{value: t}, nil
}

func (t Timestamp) Value() time.Time { return t.value }

func (t Timestamp) IsBefore(other Timestamp) bool { return t.value.Before(other.value) }
func (t Timestamp) IsAfter(other Timestamp) bool  { return t.value.After(other.value) }
func (t Timestamp) Equals(other Timestamp) bool   { return t.value.Equal(other.value) }

func (t Timestamp) AddDays(days int) Timestamp {
	return Timestamp{value: t.value.AddDate(0, 0, days)}
}

func (t Timestamp) SubDays(days int) Timestamp {
	return Timestamp{value: t.value.AddDate(0, 0, -days)}
}

// Format renders with a time layout; ISOString uses RFC 3339.
func (t Timestamp) Format(layout string) string { return t.value.Format(layout) }

func (t Timestamp) ISOString() string { return t.value.Format(time.RFC3339) }

func (t Timestamp) String() string { return t.value.Format("2006-01-02 15:04:05") }
