package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSeverity(t *testing.T) {
	tests := map[string]string{
		"CRITICAL": SeverityCritical,
		" High ":   SeverityHigh,
		"":         SeverityUnknown,
		"   ":      SeverityUnknown,
		"info":     "info",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeSeverity(in), "input %q", in)
	}
}

func TestIsValidSeverity(t *testing.T) {
	for _, s := range Severities {
		assert.True(t, IsValidSeverity(s))
	}
	assert.False(t, IsValidSeverity("Critical"))
	assert.False(t, IsValidSeverity("unknown"))
}

func TestFailedResultOmitsData(t *testing.T) {
	res := Failed("Alert not found: %s", "10.0.0.1")
	assert.False(t, res.Success)
	assert.Nil(t, res.Data)
	assert.Equal(t, "Alert not found: 10.0.0.1", res.Message)

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"Alert not found: 10.0.0.1"}`, string(raw))
}

func TestFailedResultNeverEmptyMessage(t *testing.T) {
	res := Failed("")
	assert.NotEmpty(t, res.Message)
}
