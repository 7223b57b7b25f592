// Package cli implements the cobra command tree for facetview, which runs the
// faceted filter engine over a local CSV or XLSX file.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/facetview/internal/core"
	"github.com/JonMunkholm/facetview/internal/logging"
	"github.com/JonMunkholm/facetview/internal/source"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)

		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return 1
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var logLevel, logFormat string

	cmd := &cobra.Command{
		Use:   "facetview",
		Short: "Explore a tabular file with cross-filtering facets",
		Long: `facetview loads a CSV or XLSX file and applies the same faceted
filtering the dashboard uses: selections within a column are ORed, columns
are ANDed, and each column's options ignore its own selection.

Filters are given as --filter column=value1,value2 and applied in order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// stdout carries command output.
			logging.SetupWriter(cmd.ErrOrStderr(), logLevel, logFormat)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "text", "log format: text, json")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newColumnsCommand(),
		newOptionsCommand(),
		newRowsCommand(),
		newDatasetsCommand(),
	)

	return cmd
}

// loadFile reads path as a dataset, choosing the reader by extension.
func loadFile(ctx context.Context, path, sheet string) (*core.Dataset, error) {
	src := source.FromPath(path)
	if sheet != "" {
		src = source.NewXLSXSource(src.ID(), "", path, sheet)
	}

	logging.FromContext(ctx).Debug("loading file", "path", path, "kind", src.Kind())

	ds, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrSourceUnavailable, path, err)
	}
	return ds, nil
}
