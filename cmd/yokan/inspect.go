package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yokanlab/yokan/datarecording"
)

var inspectRows int

var inspectCmd = &cobra.Command{
	Use:   "inspect <recording.sqlite3>",
	Short: "List the tables of a recording with row counts and sample rows",
	Args:  cobra.ExactArgs(1),
	RunE:  inspectRecording,
}

func init() {
	inspectCmd.Flags().IntVar(&inspectRows, "rows", 5,
		"sample rows to print per table (0 prints none)")

	rootCmd.AddCommand(inspectCmd)
}

func inspectRecording(cmd *cobra.Command, args []string) error {
	path := args[0]

	// The SQLite driver would create a missing file on first use.
	if _, err := os.Stat(path); err != nil {
		return err
	}

	reader := datarecording.NewReader(path)
	defer reader.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	names, err := reader.TableNames(ctx)
	if err != nil {
		return err
	}

	for i, name := range names {
		count, err := reader.CountRows(ctx, name)
		if err != nil {
			return err
		}

		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s: %d rows\n", name, count)

		if inspectRows <= 0 || count == 0 {
			continue
		}

		columns, rows, err := reader.DumpTable(ctx, name, inspectRows)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "  "+strings.Join(columns, "\t"))
		for _, row := range rows {
			fmt.Fprintln(w, "  "+strings.Join(row, "\t"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	return nil
}
