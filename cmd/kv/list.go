package kv

import (
	"github.com/spf13/cobra"
)

func newListCmd(connect ClientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List KV namespaces",
		Long:  `List all Workers KV namespaces in your Cloudflare account.`,
		Example: `  # List all namespaces
  cfworkers kv list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect()
			if err != nil {
				return err
			}

			namespaces, err := client.ListNamespaces(cmd.Context())
			if err != nil {
				return err
			}

			out := client.Printer()
			if len(namespaces) == 0 {
				out.Info("No KV namespaces found.")
				return nil
			}

			widths := []int{40, 32}
			out.Header("Available KV namespaces")
			out.TableHeader([]string{"Title", "Namespace ID"}, widths)
			for _, ns := range namespaces {
				out.TableRow([]string{ns.Title, ns.ID}, widths)
			}
			return nil
		},
	}
}
