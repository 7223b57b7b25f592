package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/facetview/internal/core"
)

// filterOptions are the flags shared by commands that apply filters.
type filterOptions struct {
	filters []string
	sheet   string
}

// registerFilterFlags adds --filter and --sheet to a cobra command.
func registerFilterFlags(cmd *cobra.Command, opts *filterOptions) {
	f := cmd.Flags()
	f.StringArrayVar(&opts.filters, "filter", nil, "select values (column=v1,v2); repeatable, applied in order")
	f.StringVar(&opts.sheet, "sheet", "", "worksheet to read from an XLSX file (default: first sheet)")
}

// filterArg is one parsed --filter flag.
type filterArg struct {
	column string
	values []string
}

// parseFilter parses "column=v1,v2". "column=" selects nothing, which
// clears the column.
func parseFilter(arg string) (filterArg, error) {
	column, list, ok := strings.Cut(arg, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return filterArg{}, fmt.Errorf("invalid --filter %q: want column=value[,value...]", arg)
	}

	var values []string
	if list != "" {
		values = strings.Split(list, ",")
	}
	return filterArg{column: column, values: values}, nil
}

// applyFilters applies each --filter to the empty state of ds in order.
func applyFilters(ds *core.Dataset, args []string) (core.FilterState, error) {
	state := core.EmptyState(ds)
	for _, arg := range args {
		f, err := parseFilter(arg)
		if err != nil {
			return nil, &ExitError{Code: 2, Err: err}
		}
		if state, err = core.ApplyFilter(ds, state, f.column, f.values); err != nil {
			return nil, err
		}
	}
	return state, nil
}
