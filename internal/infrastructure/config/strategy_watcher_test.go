package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aedjoel/discordia-go/internal/domain/economy"
	"github.com/aedjoel/discordia-go/internal/infrastructure/config"
)

func TestStrategyProvider_DefaultsWithoutFile(t *testing.T) {
	// Arrange & Act
	p, err := config.NewStrategyProvider(config.StrategyConfig{}, nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, economy.DefaultStrategy(), p.Current())
}

func TestStrategyProvider_LoadsFromFile(t *testing.T) {
	// Arrange - partial file: unset fields keep defaults
	path := filepath.Join(t.TempDir(), "strategy.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"worker_cap": 60,
		"priority_mode": "economy"
	}`), 0o644))

	// Act
	p, err := config.NewStrategyProvider(config.StrategyConfig{File: path}, nil)

	// Assert
	require.NoError(t, err)
	s := p.Current()
	assert.Equal(t, 60, s.WorkerCap)
	assert.Equal(t, economy.ModeEconomy, s.PriorityMode)
	assert.Equal(t, economy.DefaultStrategy().SoldierCap, s.SoldierCap)
	assert.Equal(t, economy.DefaultStrategy().WorkerHarvestThreshold, s.WorkerHarvestThreshold)
}

func TestStrategyProvider_RejectsInvalidFile(t *testing.T) {
	// Arrange - threshold outside (0,1]
	path := filepath.Join(t.TempDir(), "strategy.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"worker_harvest_threshold": 3.0}`), 0o644))

	// Act
	_, err := config.NewStrategyProvider(config.StrategyConfig{File: path}, nil)

	// Assert
	require.Error(t, err)
}

func TestStrategyProvider_SetValidates(t *testing.T) {
	// Arrange
	p, err := config.NewStrategyProvider(config.StrategyConfig{}, nil)
	require.NoError(t, err)

	bad := economy.DefaultStrategy()
	bad.PriorityMode = "berserk"

	// Act
	err = p.Set(bad)

	// Assert - current strategy unchanged after a rejected update
	require.Error(t, err)
	assert.Equal(t, economy.DefaultStrategy(), p.Current())
}

func TestLoadConfigOrDefault_AppliesDefaults(t *testing.T) {
	// Arrange & Act
	cfg := config.LoadConfigOrDefault("")

	// Assert
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.TickRate)
	assert.Equal(t, "sqlite", cfg.Database.Type)
}
