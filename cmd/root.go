package cmd

import (
	"fmt"
	"os"

	"cfworkers/cmd/kv"
	"cfworkers/internal/api"
	"cfworkers/internal/config"
	"cfworkers/internal/logging"
	"cfworkers/internal/menu"
	"cfworkers/internal/script"
	"cfworkers/internal/ui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	settings config.Settings
	out      *ui.Printer
	logger   = zerolog.Nop()

	version   string
	buildTime string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cfworkers",
	Short: "Cloudflare Workers and KV provisioning CLI",
	Long: `An interactive tool for managing Cloudflare Workers.
Without a subcommand it asks for an API token and account ID, then lets you
list workers, create a worker from a script URL (optionally with a new KV
namespace bound to it, published on workers.dev) and delete workers.`,
	Version:           version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		session := menu.New(
			cmd.InOrStdin(),
			cmd.OutOrStdout(),
			connect,
			newFetcher(),
			menu.WithCredentials(settings.Credentials()),
			menu.WithLogger(logger),
		)
		return session.Run(cmd.Context())
	},
}

// SetVersionInfo sets the version information for the root command
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built at %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	config.AddFlags(rootCmd)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(kv.NewKVCmd(newClient))
}

// initConfig resolves flags and environment into the settings used by every command
func initConfig(cmd *cobra.Command, args []string) error {
	v, err := config.New(cmd)
	if err != nil {
		return err
	}
	settings = config.Load(v)

	logger = logging.New(os.Stderr, logging.ParseLevel(settings.LogLevel))
	out = ui.NewPrinter(cmd.OutOrStdout())

	logger.Debug().Str("api", settings.APIURL).Msg("configuration loaded")
	return nil
}

func clientOptions() []api.Option {
	return []api.Option{
		api.WithBaseURL(settings.APIURL),
		api.WithPrinter(out),
		api.WithLogger(logger),
	}
}

// connect builds the client for an interactive session once its
// credentials have been collected.
func connect(creds api.Credentials) (menu.Backend, error) {
	client, err := api.NewClient(creds, clientOptions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("account", client.AccountID()).Msg("session connected")
	return client, nil
}

// newClient builds a client for the scriptable subcommands, which take
// credentials from flags or the environment only.
func newClient() (*api.Client, error) {
	creds := settings.Credentials()
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%w (use --%s/--%s or %s/%s)", err,
			config.KeyAPIToken, config.KeyAccountID, config.EnvAPIToken, config.EnvAccountID)
	}
	client, err := api.NewClient(creds, clientOptions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("account", client.AccountID()).Msg("client ready")
	return client, nil
}

func newFetcher() *script.Fetcher {
	return script.NewFetcher(nil, out, logger)
}
