package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/aedjoel/discordia-go/internal/domain/economy"
)

// NewStrategyCommand groups the strategy subcommands
func NewStrategyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Inspect or adjust the running agent's strategy",
	}
	cmd.AddCommand(newStrategyGetCommand())
	cmd.AddCommand(newStrategySetCommand())
	return cmd
}

func newStrategyGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := advisorGet("/api/strategy")
			if err != nil {
				return err
			}
			fmt.Println(body)
			return nil
		},
	}
}

// newStrategySetCommand sends a partial update; only flags the user set are
// included, everything else keeps its current value
func newStrategySetCommand() *cobra.Command {
	var (
		workerCap        int
		soldierCap       int
		towerCap         int
		harvestThreshold float64
		patrolDistance   int
		energyReserve    int
		priorityMode     string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update strategy parameters on a running agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := economy.StrategyPatch{}
			if cmd.Flags().Changed("worker-cap") {
				patch.WorkerCap = &workerCap
			}
			if cmd.Flags().Changed("soldier-cap") {
				patch.SoldierCap = &soldierCap
			}
			if cmd.Flags().Changed("tower-cap") {
				patch.TowerCap = &towerCap
			}
			if cmd.Flags().Changed("harvest-threshold") {
				patch.WorkerHarvestThreshold = &harvestThreshold
			}
			if cmd.Flags().Changed("patrol-distance") {
				patch.SoldierPatrolDistance = &patrolDistance
			}
			if cmd.Flags().Changed("energy-reserve") {
				patch.SpawnEnergyReserve = &energyReserve
			}
			if cmd.Flags().Changed("priority-mode") {
				mode := economy.PriorityMode(priorityMode)
				patch.PriorityMode = &mode
			}

			body, err := advisorPut("/api/strategy", patch)
			if err != nil {
				return err
			}
			fmt.Println(body)
			return nil
		},
	}

	cmd.Flags().IntVar(&workerCap, "worker-cap", 0, "Maximum worker count")
	cmd.Flags().IntVar(&soldierCap, "soldier-cap", 0, "Maximum soldier count")
	cmd.Flags().IntVar(&towerCap, "tower-cap", 0, "Maximum tower count")
	cmd.Flags().Float64Var(&harvestThreshold, "harvest-threshold", 0, "Deposit threshold as a fraction of capacity")
	cmd.Flags().IntVar(&patrolDistance, "patrol-distance", 0, "Soldier patrol radius around spawns")
	cmd.Flags().IntVar(&energyReserve, "energy-reserve", 0, "Spawn energy held back from spending")
	cmd.Flags().StringVar(&priorityMode, "priority-mode", "", "One of: balanced, economy, military, defense")
	return cmd
}

// advisorPut sends a JSON body to the advisor and returns the response
func advisorPut(path string, body interface{}) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPut, "http://"+advisorAddr+path, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor unreachable at %s: %w", advisorAddr, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisor returned %d: %s", resp.StatusCode, string(raw))
	}
	return string(raw), nil
}
