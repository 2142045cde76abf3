package models

import (
	"strings"
	"time"
)

// Timestamp unmarshals the backend's datetime strings, which may arrive
// with or without a timezone offset.
type Timestamp struct {
	time.Time
}

// The fraction digits are optional on input, matching datetimes emitted
// both with and without microseconds.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// UnmarshalJSON accepts RFC3339 values as well as naive datetimes.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(naiveLayout, raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON renders RFC3339, which the backend accepts on input.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Time.Format(time.RFC3339) + `"`), nil
}
