package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command, which queries a running
// agent's advisor for the latest tick summary
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the latest tick summary from a running agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := advisorGet("/api/summary")
			if err != nil {
				return err
			}
			fmt.Println(body)
			return nil
		},
	}
}

// advisorGet fetches a path from the advisor and returns indented JSON
func advisorGet(path string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + advisorAddr + path)
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

	var buf map[string]interface{}
	if err := json.Unmarshal(raw, &buf); err != nil {
		return string(raw), nil
	}
	pretty, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return string(raw), nil
	}
	return string(pretty), nil
}
