package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pysugar/gato-admin/internal/client"
	"github.com/pysugar/gato-admin/internal/config"
	"github.com/pysugar/gato-admin/internal/version"
)

// app is the state shared by every command of one invocation.
type app struct {
	serverURL  string
	password   string
	jsonOutput bool

	api *client.Client
	out io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "gatoctl",
		Short:         "Manage gato model configurations",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.serverURL, "server", "", "API base URL (default: active remote or GATO_API_URL)")
	root.PersistentFlags().StringVar(&a.password, "password", "", "admin password (default: active remote or GATO_ADMIN_PASSWORD)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "output as JSON")

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newCatalogCmd(a),
		newRemoteCmd(),
	)
	return root
}

func (a *app) connect(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	cfg := config.Load()

	remote, _, err := activeRemote()
	if err != nil {
		return fmt.Errorf("failed to read remotes: %w", err)
	}

	url := a.serverURL
	if url == "" {
		url = remote.URL
	}
	if url == "" {
		url = cfg.Client.BaseURL
	}
	password := a.password
	if password == "" {
		password = remote.Password
	}
	if password == "" {
		password = cfg.AdminPassword
	}

	var opts []client.Option
	if password != "" {
		opts = append(opts, client.WithBasicAuth("admin", password))
	}
	a.api = client.New(url, cfg.Client.Timeout, opts...)
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
