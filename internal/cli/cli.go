// Package cli implements the tablectl command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/JonMunkholm/tabular/internal/core"
	"github.com/JonMunkholm/tabular/internal/logging"
	"github.com/JonMunkholm/tabular/internal/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// version is set at build time.
var version = "development version"

// sourceOptions are the flags shared by every command that reads a table.
type sourceOptions struct {
	format    string
	noHeaders bool
	rowKey    string
	timeout   time.Duration
}

// NewRootCommand builds the command tree. Input that names "-" is read
// from stdin; results go to stdout.
func NewRootCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var (
		src      sourceOptions
		logLevel string
	)

	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "tablectl",
		Short:         "Convert, sort and summarize delimited tables",
		Version:       "tablectl " + version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Logs go to stderr so they never mix with table output.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
		},
	}
	rootCmd.SetVersionTemplate(`{{.Version}}` + "\n")
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&src.format, "format", "f", "auto", `input format ("auto", "csv" or "tsv")`)
	flags.BoolVar(&src.noHeaders, "no-headers", false, "treat the first input line as data")
	flags.StringVar(&src.rowKey, "row-key", "", "column used to find rows by name (position or name)")
	flags.DurationVar(&src.timeout, "timeout", core.DefaultFetchTimeout, "timeout for URL sources")
	flags.StringVar(&logLevel, "log-level", "warn", `log level ("debug", "info", "warn" or "error")`)

	rootCmd.AddCommand(
		newConvertCommand(&src),
		newStatsCommand(&src),
		newCountCommand(&src),
	)
	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCommand(os.Stdin, os.Stdout)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", core.FormatUserError(err))
		logging.FromContext(ctx).Debug("command failed", "error", err)
		return 1
	}
	return 0
}

// load builds a table from a file path, "-" for stdin, or an http(s) URL.
func (o *sourceOptions) load(cmd *cobra.Command, source string) (*table.Table, error) {
	format, err := table.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	cfg := table.Config{Format: format}
	if o.noHeaders {
		cfg.HasHeaders = table.HeadersAbsent
	}
	if o.rowKey != "" {
		cfg.RowKeyColumn = table.ParseRef(o.rowKey)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	switch {
	case source == "-":
		return table.FromReader(core.WrapForStreaming(cmd.InOrStdin()), cfg)

	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		fetcher := core.NewHTTPFetcher(o.timeout, core.DefaultFetchMaxBytes, core.DefaultUserAgent)
		body, err := fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return table.FromReader(core.WrapForStreaming(body), cfg)

	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", source, err)
		}
		defer f.Close()

		counted := core.WrapForStreaming(f)
		t, err := table.FromReader(counted, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		logging.FromContext(ctx).Debug("table loaded", "path", source, "size", humanize.Bytes(uint64(counted.BytesRead)),
			"rows", t.NumRows(), "columns", t.NumColumns())
		return t, nil
	}
}

// write serializes t to the command's output in the named format.
func write(cmd *cobra.Command, t *table.Table, to string, opts table.ExportOptions) error {
	out := cmd.OutOrStdout()
	var err error
	switch strings.ToLower(to) {
	case "csv":
		err = t.WriteCSV(out, opts)
	case "tsv":
		err = t.WriteTSV(out, opts)
	case "html":
		err = t.WriteHTML(out, opts)
	default:
		return fmt.Errorf("%w: unknown output format %q (must be csv, tsv or html)", table.ErrUnrecognizedInput, to)
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, "\n")
	return err
}
