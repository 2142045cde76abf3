package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshalVariants(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2025-03-01T10:30:00Z"`, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"naive", `"2025-03-01T10:30:00"`, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"naive with microseconds", `"2025-03-01T10:30:00.123456"`, time.Date(2025, 3, 1, 10, 30, 0, 123456000, time.UTC)},
		{"null", `null`, time.Time{}},
		{"empty string", `""`, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tc.in), &ts))
			require.True(t, tc.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestTimestampUnmarshalRejectsGarbage(t *testing.T) {
	var ts Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestampMarshal(t *testing.T) {
	ts := Timestamp{Time: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)}
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	require.Equal(t, `"2025-03-01T10:30:00Z"`, string(data))

	data, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	require.Equal(t, "null", string(data))
}
