package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLoggerVerbosityLevels(t *testing.T) {
	tests := []struct {
		verbosity int
		level     zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{99, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		SetupLogger(tt.verbosity)
		assert.Equal(t, tt.level, zerolog.GlobalLevel())
	}
}

func TestGetLogger(t *testing.T) {
	SetupLogger(1)
	logger := GetLogger("launcher.registry")
	// Logging must not panic; the component field is attached lazily.
	logger.Info().Msg("probe")
}
