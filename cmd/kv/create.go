package kv

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCreateCmd(connect ClientFunc) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new KV namespace",
		Long: `Create a new Workers KV namespace in your Cloudflare account.
Titles are not unique; running this twice creates two namespaces.`,
		Example: `  # Create a new namespace
  cfworkers kv create --title="sessions"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("namespace title is required")
			}

			client, err := connect()
			if err != nil {
				return err
			}

			_, err = client.CreateNamespace(cmd.Context(), title)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title for the new KV namespace")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
