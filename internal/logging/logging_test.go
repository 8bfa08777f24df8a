package logging_test

import (
	"testing"

	"smartgriev/backend/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestNew_Levels verifies that the configured level is the lowest enabled one.
func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			// Act
			logger, err := logging.New(tt.level, "json")
			require.NoError(t, err)

			// Assert
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

// TestNew_Console verifies that the console encoder builds.
func TestNew_Console(t *testing.T) {
	// Act
	logger, err := logging.New("info", "console")

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

// TestNew_Invalid verifies that unknown levels and formats are rejected.
func TestNew_Invalid(t *testing.T) {
	// Act
	_, levelErr := logging.New("loud", "json")
	_, formatErr := logging.New("info", "xml")

	// Assert
	assert.Error(t, levelErr)
	assert.Error(t, formatErr)
}
