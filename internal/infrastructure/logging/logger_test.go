package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aedjoel/discordia-go/internal/infrastructure/config"
	"github.com/aedjoel/discordia-go/internal/infrastructure/logging"
)

func TestNewLogger_RotatingFileSink(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "agent.log")
	log, err := logging.NewLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
		Rotation: config.RotationConfig{
			Enabled:    true,
			MaxSize:    1,
			MaxBackups: 1,
			MaxAge:     1,
		},
	})
	require.NoError(t, err)

	// Act
	log.Info("tick complete")
	require.NoError(t, log.Sync())

	// Assert
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tick complete")
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	// Arrange & Act
	_, err := logging.NewLogger(config.LoggingConfig{
		Level:  "verbose",
		Format: "json",
		Output: "stdout",
	})

	// Assert
	require.Error(t, err)
}
