package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var listDetails bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List Workers in the account",
	Long:  `List all Workers scripts in your Cloudflare account.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		workers, err := client.ListWorkers(cmd.Context())
		if err != nil {
			return err
		}

		if listDetails && len(workers) > 0 {
			widths := []int{40, 22, 22}
			out.Header("Worker details")
			out.TableHeader([]string{"Name", "Created", "Modified"}, widths)
			for _, w := range workers {
				out.TableRow([]string{w.ID, formatTime(w.CreatedOn), formatTime(w.ModifiedOn)}, widths)
			}
		}

		return nil
	},
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func init() {
	listCmd.Flags().BoolVar(&listDetails, "details", false, "Show creation and modification times")
}
