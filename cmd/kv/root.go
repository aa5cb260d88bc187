package kv

import (
	"cfworkers/internal/api"

	"github.com/spf13/cobra"
)

// ClientFunc returns a client for the configured account.
type ClientFunc func() (*api.Client, error)

// NewKVCmd creates the kv command and its subcommands
func NewKVCmd(connect ClientFunc) *cobra.Command {
	kvCmd := &cobra.Command{
		Use:   "kv",
		Short: "Manage Cloudflare Workers KV namespaces",
		Long:  `Create and list Workers KV namespaces that workers can be bound to.`,
	}

	kvCmd.AddCommand(newListCmd(connect))
	kvCmd.AddCommand(newCreateCmd(connect))

	return kvCmd
}
