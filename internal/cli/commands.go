package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/tabular/internal/table"
	"github.com/spf13/cobra"
)

func newConvertCommand(src *sourceOptions) *cobra.Command {
	var (
		to          string
		omitHeaders bool
		caption     string
		sortRows    []string
		sortColumns []string
	)

	cmd := &cobra.Command{
		Use:   "convert SOURCE",
		Short: "Re-serialize a table as CSV, TSV or HTML",
		Long: `Read a table from a file, an http(s) URL or "-" for stdin and write it
in another format. Rows and columns can be sorted on the way through.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := src.load(cmd, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("sort-rows") {
				if err := t.SortRows(refsOf(sortRows)...); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("sort-columns") {
				if err := t.SortColumns(refsOf(sortColumns)...); err != nil {
					return err
				}
			}

			return write(cmd, t, to, table.ExportOptions{OmitHeaders: omitHeaders, Caption: caption})
		},
	}
	cmd.Flags().SortFlags = false
	cmd.Flags().StringVarP(&to, "to", "t", "csv", `output format ("csv", "tsv" or "html")`)
	cmd.Flags().BoolVar(&omitHeaders, "omit-headers", false, "do not write the header line")
	cmd.Flags().StringVar(&caption, "caption", "", "caption for HTML output")
	cmd.Flags().StringSliceVar(&sortRows, "sort-rows", nil, "sort rows by these columns (empty uses the row key)")
	cmd.Flags().StringSliceVar(&sortColumns, "sort-columns", nil, "move these columns first; the rest follow by name")
	return cmd
}

func newStatsCommand(src *sourceOptions) *cobra.Command {
	var (
		axis      string
		ref       string
		neighbors int
		zscores   bool
	)

	cmd := &cobra.Command{
		Use:   "stats SOURCE",
		Short: "Summarize one row or column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ax, err := table.ParseAxis(axis)
			if err != nil {
				return err
			}
			if ref == "" {
				return fmt.Errorf("%w: --ref is required", table.ErrInvalidRef)
			}
			if neighbors < -1 {
				return fmt.Errorf("%w: --neighbors must not be negative", table.ErrInvalidRef)
			}

			t, err := src.load(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := t.Numbers(ax, table.ParseRef(ref))
			if err != nil {
				return err
			}

			summary := table.Summarize(data)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\t%s\n", ax, ref)
			fmt.Fprintf(tw, "count\t%d\n", summary.Count)
			fmt.Fprintf(tw, "sum\t%s\n", formatFloat(summary.Sum))
			fmt.Fprintf(tw, "mean\t%s\n", formatFloat(summary.Mean))
			fmt.Fprintf(tw, "variance\t%s\n", formatFloat(summary.Variance))
			fmt.Fprintf(tw, "standardDeviation\t%s\n", formatFloat(summary.StandardDeviation))
			if zscores {
				fmt.Fprintf(tw, "zScores\t%s\n", formatFloats(table.ZScores(data)))
			}
			if neighbors >= 0 {
				fmt.Fprintf(tw, "rollingMean(%d)\t%s\n", neighbors, formatFloats(table.RollingMean(data, neighbors)))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().SortFlags = false
	cmd.Flags().StringVarP(&axis, "axis", "a", "column", `"row" or "column"`)
	cmd.Flags().StringVarP(&ref, "ref", "r", "", "row or column to summarize (position or name)")
	cmd.Flags().IntVarP(&neighbors, "neighbors", "n", -1, "also print the rolling mean over this many neighbors")
	cmd.Flags().BoolVar(&zscores, "zscores", false, "also print z-scores")
	return cmd
}

func newCountCommand(src *sourceOptions) *cobra.Command {
	var (
		column   string
		vertical bool
		to       string
	)

	cmd := &cobra.Command{
		Use:   "count SOURCE",
		Short: "Tally the distinct values of a table or one column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := src.load(cmd, args[0])
			if err != nil {
				return err
			}

			var items []any
			if column != "" {
				cells, err := t.Column(table.ParseRef(column))
				if err != nil {
					return err
				}
				for _, v := range cells {
					items = append(items, v)
				}
			} else {
				for _, row := range t.Rows() {
					items = append(items, row)
				}
			}

			cfg := table.Config{Count: table.CountHorizontal}
			if vertical {
				cfg.Count = table.CountVertical
				cfg.Headers = []string{"value", "count"}
			}
			counts, err := table.New(table.ConfigObject{Config: cfg, Rows: items})
			if err != nil {
				return err
			}
			return write(cmd, counts, to, table.ExportOptions{})
		},
	}
	cmd.Flags().SortFlags = false
	cmd.Flags().StringVarP(&column, "column", "c", "", "count only this column (position or name)")
	cmd.Flags().BoolVar(&vertical, "vertical", false, "one (value, count) row per value")
	cmd.Flags().StringVarP(&to, "to", "t", "csv", `output format ("csv", "tsv" or "html")`)
	return cmd
}

func refsOf(flags []string) []table.Ref {
	refs := make([]table.Ref, 0, len(flags))
	for _, f := range flags {
		if f = strings.TrimSpace(f); f != "" {
			refs = append(refs, table.ParseRef(f))
		}
	}
	return refs
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatFloats(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = formatFloat(f)
	}
	return strings.Join(parts, " ")
}
