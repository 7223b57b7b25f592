package cli

import (
	"encoding/csv"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/facetview/internal/config"
	"github.com/JonMunkholm/facetview/internal/core"
	"github.com/JonMunkholm/facetview/internal/source"
)

func newColumnsCommand() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "columns <file>",
		Short: "List columns with their inferred kinds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadFile(cmd.Context(), args[0], sheet)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL\tKIND\tFILTERABLE")
			for _, col := range ds.Columns() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", col.Key, col.Label, col.Kind, ds.IsFilterable(col.Key))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d rows\n", ds.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet to read from an XLSX file (default: first sheet)")
	return cmd
}

func newOptionsCommand() *cobra.Command {
	var (
		opts   filterOptions
		column string
		search string
	)

	cmd := &cobra.Command{
		Use:   "options <file>",
		Short: "Print the selectable options under the given filters",
		Long: `Print the selectable options of every filterable column, or of
--column only, after applying --filter flags in order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadFile(cmd.Context(), args[0], opts.sheet)
			if err != nil {
				return err
			}
			state, err := applyFilters(ds, opts.filters)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if column != "" {
				values, err := core.ComputeOptions(ds, state, column)
				if err != nil {
					return err
				}
				for _, opt := range core.SearchOptions(optionList(values), search) {
					fmt.Fprintln(out, opt.Value)
				}
				return nil
			}

			facets := core.ComputeFacets(ds, state)
			for _, col := range ds.FilterableColumns() {
				matched := core.SearchOptions(facets[col.Key], search)
				values := make([]string, len(matched))
				for i, opt := range matched {
					values[i] = opt.Value
				}
				fmt.Fprintf(out, "%s: %s\n", col.Key, strings.Join(values, ", "))
			}
			return nil
		},
	}

	registerFilterFlags(cmd, &opts)
	cmd.Flags().StringVar(&column, "column", "", "print only this column's options, one per line")
	cmd.Flags().StringVar(&search, "search", "", "keep options containing this text (case-insensitive)")
	return cmd
}

func newRowsCommand() *cobra.Command {
	var (
		opts  filterOptions
		limit int
	)

	cmd := &cobra.Command{
		Use:   "rows <file>",
		Short: "Write the rows passing the given filters as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return &ExitError{Code: 2, Err: fmt.Errorf("--limit must be >= 0, got %d", limit)}
			}

			ds, err := loadFile(cmd.Context(), args[0], opts.sheet)
			if err != nil {
				return err
			}
			state, err := applyFilters(ds, opts.filters)
			if err != nil {
				return err
			}

			rows := core.VisibleRows(ds, state)
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}

			cw := csv.NewWriter(cmd.OutOrStdout())
			columns := ds.Columns()
			record := make([]string, len(columns))
			for i, col := range columns {
				record[i] = col.Key
			}
			if err := cw.Write(record); err != nil {
				return err
			}
			for _, row := range rows {
				for i, col := range columns {
					record[i] = row[col.Key]
				}
				if err := cw.Write(record); err != nil {
					return err
				}
			}
			cw.Flush()
			return cw.Error()
		},
	}

	registerFilterFlags(cmd, &opts)
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to write (0 = all)")
	return cmd
}

func newDatasetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List the datasets configured for the server",
		Long: `List the datasets defined by the DATASETS environment variable
(or .env), as the server would register them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}
			defs, err := source.ParseDefinitions(cfg.Datasets.Definitions)
			if err != nil {
				return &ExitError{Code: 2, Err: err}
			}

			defaultID := cfg.Datasets.DefaultID()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tKIND\tLOCATION\tDEFAULT")
			for _, def := range defs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", def.ID, def.Kind, def.Location, def.ID == defaultID)
			}
			return tw.Flush()
		},
	}
}

func optionList(values []string) []core.Option {
	opts := make([]core.Option, len(values))
	for i, v := range values {
		opts[i] = core.Option{Value: v, Label: v}
	}
	return opts
}
