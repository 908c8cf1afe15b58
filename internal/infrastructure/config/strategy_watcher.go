package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aedjoel/discordia-go/internal/domain/economy"
)

// StrategyProvider serves the current strategy to the tick loop and
// accepts replacements from two directions: the watched strategy file and
// the advisory HTTP surface. Swaps happen between ticks; a running tick
// always sees the value it started with.
type StrategyProvider struct {
	mu      sync.RWMutex
	current economy.Strategy
	log     *zap.Logger
}

// NewStrategyProvider loads the initial strategy. With an empty file path
// the built-in defaults apply and nothing is watched.
func NewStrategyProvider(cfg StrategyConfig, log *zap.Logger) (*StrategyProvider, error) {
	if log == nil {
		log = zap.NewNop()
	}
	p := &StrategyProvider{current: economy.DefaultStrategy(), log: log}

	if cfg.File == "" {
		return p, nil
	}

	v := viper.New()
	v.SetConfigFile(cfg.File)
	if err := p.loadFrom(v); err != nil {
		return nil, fmt.Errorf("failed to load strategy file: %w", err)
	}

	if cfg.Watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			if err := p.loadFrom(v); err != nil {
				p.log.Warn("strategy reload rejected", zap.String("file", e.Name), zap.Error(err))
				return
			}
			p.log.Info("strategy reloaded", zap.String("file", e.Name))
		})
		v.WatchConfig()
	}

	return p, nil
}

// Current returns the strategy for the next tick
func (p *StrategyProvider) Current() economy.Strategy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Set replaces the strategy wholesale after validating it. Used by the
// advisory surface.
func (p *StrategyProvider) Set(s economy.Strategy) error {
	if err := NewValidator().Validate(s); err != nil {
		return err
	}
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
	return nil
}

// loadFrom reads the strategy file and swaps it in if valid. Unset fields
// fall back to the built-in defaults rather than zero values.
func (p *StrategyProvider) loadFrom(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	s := economy.DefaultStrategy()
	if err := v.Unmarshal(&s); err != nil {
		return fmt.Errorf("failed to unmarshal strategy: %w", err)
	}
	return p.Set(s)
}
