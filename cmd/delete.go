package cmd

import (
	"fmt"

	"cfworkers/internal/api"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <worker-name>",
	Short: "Delete a Worker",
	Long:  `Delete a Workers script from your Cloudflare account.`,
	Example: `  # Delete a worker
  cfworkers delete hello`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.DeleteWorker(cmd.Context(), args[0]); err != nil {
			if api.IsNotFound(err) {
				return fmt.Errorf("worker %s does not exist: %w", args[0], err)
			}
			return err
		}
		return nil
	},
}
