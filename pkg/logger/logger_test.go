package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeLogMessage(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"bearer token", "auth failed: bearer abc.def.ghi", "auth failed: bearer=[REDACTED]"},
		{"password", "dsn password=hunter2 host=db", "dsn password=[REDACTED] host=db"},
		{"secret", "JWT_SECRET: s3cr3t", "JWT_SECRET=[REDACTED]"},
		{"nothing sensitive", "role VIEWER lacks drone:create", "role VIEWER lacks drone:create"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeLogMessage(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := New("debug", FormatConsole, "compliance-service")
	require.NoError(t, err)
	require.NotNil(t, log)

	log, err = New("bogus", FormatJSON, "")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1), "unknown level falls back to info")
}
