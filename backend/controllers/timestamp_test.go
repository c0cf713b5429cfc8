package controllers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshal(t *testing.T) {
	newYear := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339", `"2025-01-01T00:00:00Z"`, newYear},
		{"rfc3339 offset", `"2025-01-01T03:00:00+03:00"`, newYear},
		{"date only", `"2025-01-01"`, newYear},
		{"no zone", `"2025-01-01T10:30:00"`, newYear.Add(10*time.Hour + 30*time.Minute)},
		{"epoch millis", `1735689600000`, newYear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	for _, raw := range []string{`"yesterday"`, `true`, `"01/02/2025"`} {
		var ts timestamp
		assert.Error(t, json.Unmarshal([]byte(raw), &ts), raw)
	}
}

func TestCreateInputStartedAtForms(t *testing.T) {
	var in createAttemptInput
	require.NoError(t, json.Unmarshal([]byte(`{"score":1,"total":2,"startedAt":"2025-01-01","completedAt":null}`), &in))
	na := in.toNewAttempt()
	require.NotNil(t, na.StartedAt)
	assert.Equal(t, "2025-01-01T00:00:00Z", na.StartedAt.Format(time.RFC3339))

	in = createAttemptInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"score":1,"total":2}`), &in))
	assert.Nil(t, in.toNewAttempt().StartedAt)
}
