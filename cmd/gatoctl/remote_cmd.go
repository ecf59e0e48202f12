package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage named server remotes",
		// Remote subcommands only touch the local profile file.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	add := &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Add or update a named remote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, url := args[0], args[1]
			password, _ := cmd.Flags().GetString("password")

			cfg, err := loadRemotesConfig()
			if err != nil {
				return err
			}
			cfg.Remotes[name] = Remote{URL: url, Password: password}
			if cfg.Active == "" {
				cfg.Active = name
			}
			if err := saveRemotesConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "remote %q added (%s)\n", name, url)
			return nil
		},
	}
	add.Flags().String("password", "", "admin password for this remote")

	use := &cobra.Command{
		Use:   "use <name>",
		Short: "Switch the active remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cfg, err := loadRemotesConfig()
			if err != nil {
				return err
			}
			if _, ok := cfg.Remotes[name]; !ok {
				return fmt.Errorf("remote %q not found", name)
			}
			cfg.Active = name
			if err := saveRemotesConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "switched to remote %q\n", name)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a named remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cfg, err := loadRemotesConfig()
			if err != nil {
				return err
			}
			if _, ok := cfg.Remotes[name]; !ok {
				return fmt.Errorf("remote %q not found", name)
			}
			delete(cfg.Remotes, name)
			if cfg.Active == name {
				cfg.Active = ""
			}
			if err := saveRemotesConfig(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "remote %q removed\n", name)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all remotes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRemotesConfig()
			if err != nil {
				return err
			}
			if len(cfg.Remotes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no remotes configured")
				return nil
			}
			names := make([]string, 0, len(cfg.Remotes))
			for name := range cfg.Remotes {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  NAME\tURL\tAUTH")
			for _, name := range names {
				r := cfg.Remotes[name]
				marker := " "
				if name == cfg.Active {
					marker = "*"
				}
				auth := "-"
				if r.Password != "" {
					auth = "basic"
				}
				fmt.Fprintf(w, "%s %s\t%s\t%s\n", marker, name, r.URL, auth)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(add, use, remove, list)
	return cmd
}
