package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pysugar/gato-admin/internal/client"
	"github.com/pysugar/gato-admin/internal/console"
	"github.com/pysugar/gato-admin/internal/db/models"
	"github.com/pysugar/gato-admin/internal/form"
)

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printRowsTable(w io.Writer, rows []console.Row) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No models configured.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tMODEL\tROUTING")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.Path, r.Model, r.Summary)
	}
	return tw.Flush()
}

func printRecord(w io.Writer, m models.ModelConfig) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", m.ID)
	fmt.Fprintf(tw, "Path:\t%s\n", m.Path())
	fmt.Fprintf(tw, "Model:\t%s\n", m.Model)
	fmt.Fprintf(tw, "Strategy:\t%s\n", m.Strategy)
	if m.Routing != nil {
		fmt.Fprintf(tw, "Routing:\t%s\n", *m.Routing)
	}
	if m.Endpoint != nil {
		fmt.Fprintf(tw, "Endpoint:\t%s\n", *m.Endpoint)
	}
	if m.APIKey != nil {
		fmt.Fprintf(tw, "API Key:\t%s\n", maskKey(*m.APIKey))
	}
	if !m.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "Created:\t%s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func printNotices(w io.Writer, notices []console.Notice) {
	for _, n := range notices {
		fmt.Fprintln(w, n.Message)
	}
}

// describeError renders field errors one per line.
func describeError(err error) error {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		msg := "validation failed:"
		for _, fe := range ve.Errors {
			msg += fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message)
		}
		return errors.New(msg)
	}
	if errors.Is(err, client.ErrConflict) {
		return fmt.Errorf("%w, try again", err)
	}
	return err
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
