package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pysugar/gato-admin/internal/console"
	"github.com/pysugar/gato-admin/internal/form"
)

// editorFlags maps command line flags to form fields.
var editorFlags = []struct {
	name  string
	field form.Field
	usage string
}{
	{"alias", form.FieldAlias, "alias, exposed as gato/main/<alias>"},
	{"model", form.FieldModel, "model identifier from the catalog"},
	{"routing", form.FieldRouting, "routing tier for the auto strategy (Cheapest, Premium)"},
	{"endpoint", form.FieldEndpoint, "endpoint URL for the custom strategy"},
	{"api-key", form.FieldAPIKey, "API key for the custom strategy"},
}

func addEditorFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", "", "routing strategy (auto, custom)")
	for _, f := range editorFlags {
		cmd.Flags().String(f.name, "", f.usage)
	}
}

// applyFlags dispatches the changed flags to the editor, strategy first, so that
// switching strategy clears the other strategy's fields.
func applyFlags(cmd *cobra.Command, v *console.View) {
	if cmd.Flags().Changed("strategy") {
		s, _ := cmd.Flags().GetString("strategy")
		v.Dispatch(form.SetStrategy{Strategy: s})
	}
	for _, f := range editorFlags {
		if cmd.Flags().Changed(f.name) {
			val, _ := cmd.Flags().GetString(f.name)
			v.Dispatch(form.SetField{Field: f.field, Value: val})
		}
	}
}

// newView builds a view whose validator checks models against the server catalog.
func (a *app) newView(ctx context.Context) (*console.View, error) {
	cat, err := a.api.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	known := make(map[string]bool, len(cat.Models))
	for _, m := range cat.Models {
		known[m.Value] = true
	}
	v := console.NewView(a.api, &form.Validator{KnownModel: func(m string) bool { return known[m] }})
	if err := v.Load(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

func (a *app) report(v *console.View, path string) error {
	snap := v.Snapshot()
	if a.jsonOutput {
		for _, r := range snap.Rows {
			if r.Path == path {
				return printJSON(a.out, r.Record)
			}
		}
		return printJSON(a.out, snap.Notices)
	}
	printNotices(a.out, snap.Notices)
	return nil
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List model configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := console.NewView(a.api, nil)
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			rows := v.Snapshot().Rows
			if a.jsonOutput {
				records := make([]interface{}, 0, len(rows))
				for _, r := range rows {
					records = append(records, r.Record)
				}
				return printJSON(a.out, records)
			}
			return printRowsTable(a.out, rows)
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a model configuration",
		Example: `  gatoctl add --alias a1 --model Voyage --strategy auto --routing Cheapest
  gatoctl add --alias a2 --model Voyage --strategy custom --endpoint https://x.test --api-key k`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.newView(cmd.Context())
			if err != nil {
				return err
			}
			v.OpenNew()
			applyFlags(cmd, v)
			path := "gato/main/" + v.Snapshot().Editor.Input().Alias
			if err := v.Submit(cmd.Context()); err != nil {
				return describeError(err)
			}
			return a.report(v, path)
		},
	}
	addEditorFlags(cmd)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a model configuration; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v, err := a.newView(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := v.Toggle(id); err != nil {
				return err
			}
			applyFlags(cmd, v)
			path := "gato/main/" + v.Snapshot().Editor.Input().Alias
			if err := v.Submit(cmd.Context()); err != nil {
				return describeError(err)
			}
			return a.report(v, path)
		},
	}
	addEditorFlags(cmd)
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one model configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := a.api.GetModel(cmd.Context(), id)
			if err != nil {
				return describeError(err)
			}
			if a.jsonOutput {
				return printJSON(a.out, m)
			}
			return printRecord(a.out, *m)
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a model configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v := console.NewView(a.api, nil)
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			if _, err := v.Toggle(id); err != nil {
				return err
			}
			if err := v.Delete(cmd.Context()); err != nil {
				return describeError(err)
			}
			if a.jsonOutput {
				return printJSON(a.out, v.Snapshot().Notices)
			}
			printNotices(a.out, v.Snapshot().Notices)
			return nil
		},
	}
}

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Show selectable models, routing tiers and strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.api.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(a.out, cat)
			}
			fmt.Fprintln(a.out, "Models:")
			for _, m := range cat.Models {
				fmt.Fprintf(a.out, "  %s\n", m.Value)
			}
			fmt.Fprintln(a.out, "Routing:")
			for _, r := range cat.RoutingModes {
				fmt.Fprintf(a.out, "  %s\n", r.Value)
			}
			fmt.Fprintln(a.out, "Strategies:")
			for _, s := range cat.Strategies {
				fmt.Fprintf(a.out, "  %-8s %s\n", s.Value, s.Name)
			}
			return nil
		},
	}
}
