package cli

import (
	"github.com/spf13/cobra"
)

// show fetches path into result and prints it
func show(path string, result any) error {
	if err := client.Get(path, result); err != nil {
		return err
	}
	NewOutput(cfg.Output).Print(result)
	return nil
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server and its storage backend",
		Long: `Check the server and its storage backend.

Exits non-zero when the server reports the storage as unavailable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return show("/api/v1/health", &HealthResult{})
		},
	}
}
