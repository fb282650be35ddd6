package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"songlake/internal/app"
	"songlake/internal/domain"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var (
		outputPath string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "inspect <table>",
		Short: "Preview rows of a written table",
		Long:  "Reads the Parquet files of a table under the output location and prints the first rows.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output-path") {
				opts.cfg.Output = outputPath
			}
			if limit < 0 {
				return domain.ErrValidation("limit must be >= 0, got %d", limit)
			}
			deps, err := opts.deps()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := app.Open(ctx, deps)
			if err != nil {
				return err
			}
			defer a.Close() //nolint:errcheck

			preview, err := a.Reader().Preview(ctx, args[0], limit)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, preview)
			}
			rows := make([][]string, len(preview.Rows))
			for i, r := range preview.Rows {
				rows[i] = make([]string, len(r))
				for j, v := range r {
					rows[i][j] = formatValue(v)
				}
			}
			PrintTable(os.Stdout, preview.Columns, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&outputPath, "output-path", "", "Output location the tables were written under")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum rows to print; 0 prints every row")
	return cmd
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the output tables and their layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			specs := domain.OutputSpecs()
			if getOutputFormat(cmd) == "json" {
				type tableJSON struct {
					Name        string   `json:"name"`
					Columns     []string `json:"columns"`
					PartitionBy []string `json:"partition_by"`
				}
				out := make([]tableJSON, len(specs))
				for i, s := range specs {
					out[i] = tableJSON{Name: s.Name, Columns: s.Columns, PartitionBy: s.PartitionBy}
				}
				return PrintJSON(os.Stdout, out)
			}
			rows := make([][]string, len(specs))
			for i, s := range specs {
				rows[i] = []string{s.Name, joinOrDash(s.PartitionBy), joinOrDash(s.Columns)}
			}
			PrintTable(os.Stdout, []string{"table", "partition_by", "columns"}, rows)
			return nil
		},
	}
}

func joinOrDash(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ",")
}
