package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aedjoel/discordia-go/internal/adapters/api"
	"github.com/aedjoel/discordia-go/internal/application/tick"
	"github.com/aedjoel/discordia-go/internal/infrastructure/config"
	"github.com/aedjoel/discordia-go/internal/infrastructure/logging"
)

// NewOnceCommand creates the single-tick command, useful for debugging a
// strategy change without starting the daemon
func NewOnceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Execute exactly one tick and print its summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			log, err := logging.NewLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer log.Sync()

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

			runner := tick.NewRunner(client, strategy, nil, nil, cfg.API.TickRate, log)
			summary, err := runner.Once(context.Background())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
