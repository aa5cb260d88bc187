package cmd

import (
	"fmt"

	"cfworkers/internal/ui"
	"cfworkers/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	createName        string
	createScriptURL   string
	createKVNamespace string
	createKVBinding   string
	createDryRun      bool
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create or update a Worker and publish it on workers.dev",
	Long: `Fetch a script from a URL, upload it as a Worker and publish it on the
account's workers.dev subdomain. Optionally create a KV namespace first and
bind it to the Worker.`,
	Example: `  # Deploy a script
  cfworkers create --name=hello --script-url=https://example.com/worker.js

  # Show the steps without running them
  cfworkers create --name=hello --script-url=https://example.com/worker.js --dry-run

  # Deploy with a new KV namespace bound as CACHE
  cfworkers create --name=hello --script-url=https://example.com/worker.js \
    --kv-namespace=hello-cache --kv-binding=CACHE`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (createKVNamespace == "") != (createKVBinding == "") {
			return fmt.Errorf("--kv-namespace and --kv-binding must be used together")
		}

		req := workflow.Request{
			WorkerName: createName,
			ScriptURL:  workflow.StaticURL(createScriptURL),
		}
		if createKVNamespace != "" {
			req.KV = &workflow.KVRequest{Title: createKVNamespace, VariableName: createKVBinding}
		}

		if createDryRun {
			out.Info("Steps for worker %s:", ui.Highlight.Sprint(createName))
			for i, step := range workflow.Plan(req) {
				out.Println("  %d. %s", i+1, step)
			}
			return nil
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		creator := workflow.NewCreator(client, newFetcher(), out)
		if _, err := creator.Run(cmd.Context(), req); err != nil {
			return fmt.Errorf("error creating worker %s: %w", createName, err)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "Worker name, also used as the workers.dev label")
	createCmd.Flags().StringVar(&createScriptURL, "script-url", "", "URL to fetch the worker script from")
	createCmd.Flags().StringVar(&createKVNamespace, "kv-namespace", "", "Title of a KV namespace to create and bind")
	createCmd.Flags().StringVar(&createKVBinding, "kv-binding", "", "Variable name the KV namespace is bound to")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "Print the steps that would run without calling the API")

	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("script-url")
}
