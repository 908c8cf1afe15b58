package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aedjoel/discordia-go/internal/adapters/api"
	"github.com/aedjoel/discordia-go/internal/adapters/httpapi"
	"github.com/aedjoel/discordia-go/internal/adapters/persistence"
	"github.com/aedjoel/discordia-go/internal/application/tick"
	"github.com/aedjoel/discordia-go/internal/infrastructure/config"
	"github.com/aedjoel/discordia-go/internal/infrastructure/database"
	"github.com/aedjoel/discordia-go/internal/infrastructure/logging"
	"github.com/aedjoel/discordia-go/internal/infrastructure/pidfile"
)

// NewRunCommand creates the long-running daemon loop command
func NewRunCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tick loop until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			return RunDaemon(cfg, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"Replace a stale or running instance's PID file")
	return cmd
}

// RunDaemon wires the full agent and drives the tick loop until a signal
// arrives. Shared by the run subcommand and the standalone daemon binary.
func RunDaemon(cfg *config.Config, force bool) error {
	log, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		if !force {
			return fmt.Errorf("%w\nUse --force to take over the PID file", err)
		}
		if err := pf.ForceAcquire(); err != nil {
			return err
		}
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Warn("failed to release PID file", zap.Error(err))
		}
	}()

	strategy, err := config.NewStrategyProvider(cfg.Strategy, log)
	if err != nil {
		return err
	}

	client := api.NewDiscordiaClientWithConfig(
		cfg.API.BaseURL,
		cfg.API.Key,
		cfg.API.Retry.MaxAttempts,
		cfg.API.Retry.BackoffBase,
		nil,
	)

	var sinks []tick.SummarySink
	var history httpapi.HistorySource

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		log.Warn("summary persistence disabled", zap.Error(err))
	} else {
		defer database.Close(db)
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		repo := persistence.NewGormTickSummaryRepository(db)
		sinks = append(sinks, repo)
		history = &historyAdapter{repo: repo}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var advisor *httpapi.Server
	if cfg.Advisor.Enabled {
		advisor = httpapi.NewServer(cfg.Advisor.Address, strategy, history, log)
		sinks = append(sinks, advisor)
		go func() {
			if err := advisor.Start(); err != nil {
				log.Error("advisor server failed", zap.Error(err))
				cancel()
			}
		}()
	}

	runner := tick.NewRunner(client, strategy, sinks, nil, cfg.API.TickRate, log)

	// Run until SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	log.Info("agent started",
		zap.String("server", cfg.API.BaseURL),
		zap.Duration("tick_rate", cfg.API.TickRate),
	)
	err = runner.Run(ctx)

	if advisor != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
		defer shutdownCancel()
		if err := advisor.Shutdown(shutdownCtx); err != nil {
			log.Warn("advisor shutdown failed", zap.Error(err))
		}
	}

	if err == context.Canceled {
		return nil
	}
	return err
}

// historyAdapter converts persisted rows to the advisor's wire shape
type historyAdapter struct {
	repo *persistence.GormTickSummaryRepository
}

func (h *historyAdapter) Recent(ctx context.Context, limit int) ([]httpapi.RecordedSummary, error) {
	rows, err := h.repo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]httpapi.RecordedSummary, len(rows))
	for i, r := range rows {
		out[i] = httpapi.RecordedSummary{
			BatchID:    r.BatchID,
			Tick:       r.Tick,
			Workers:    r.Workers,
			Soldiers:   r.Soldiers,
			Actions:    r.Actions,
			RecordedAt: r.RecordedAt,
		}
	}
	return out, nil
}
