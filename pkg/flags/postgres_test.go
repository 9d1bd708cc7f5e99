package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLogLevelFlag(t *testing.T) {
	tests := []struct {
		value    string
		expected logLevel
	}{
		{value: LogLevelInfo, expected: logLevel(logger.Info)},
		{value: LogLevelWarn, expected: logLevel(logger.Warn)},
		{value: LogLevelError, expected: logLevel(logger.Error)},
		{value: LogLevelSilent, expected: logLevel(logger.Silent)},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			var l logLevel
			require.NoError(t, l.Set(tc.value))
			assert.Equal(t, tc.expected, l)
			assert.Equal(t, tc.value, l.String())
		})
	}
}

func TestLogLevelFlagRejectsUnknownLevel(t *testing.T) {
	var l logLevel
	assert.Error(t, l.Set("verbose"))
}
