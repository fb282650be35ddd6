package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"songlake/internal/app"
	"songlake/internal/config"
	"songlake/internal/domain"
)

// pipelineFlags are the per-run overrides shared by run and schedule.
type pipelineFlags struct {
	input       string
	outputPath  string
	songGlob    string
	logGlob     string
	timezone    string
	match       string
	compression string
	threads     int
	memoryLimit string
	concurrency int
}

func (f *pipelineFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.input, "input", "", "Input location containing song_data and log_data")
	fs.StringVar(&f.outputPath, "output-path", "", "Output location the tables are written under")
	fs.StringVar(&f.songGlob, "song-glob", "", "Song file pattern relative to the input")
	fs.StringVar(&f.logGlob, "log-glob", "", "Log file pattern relative to the input")
	fs.StringVar(&f.timezone, "timezone", "", "Time zone start_time is expressed in")
	fs.StringVar(&f.match, "match", "", "Song match strategy (title, title_artist)")
	fs.StringVar(&f.compression, "compression", "", "Parquet compression (snappy, zstd, gzip, uncompressed)")
	fs.IntVar(&f.threads, "threads", 0, "DuckDB worker threads")
	fs.StringVar(&f.memoryLimit, "memory-limit", "", "DuckDB memory limit, e.g. 4GB")
	fs.IntVar(&f.concurrency, "concurrency", 0, "Stages run at once")
}

// apply copies flags that were set on the command line onto cfg.
func (f *pipelineFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("input") {
		cfg.Input = f.input
	}
	if fs.Changed("output-path") {
		cfg.Output = f.outputPath
	}
	if fs.Changed("song-glob") {
		cfg.SongGlob = f.songGlob
	}
	if fs.Changed("log-glob") {
		cfg.LogGlob = f.logGlob
	}
	if fs.Changed("timezone") {
		cfg.TimeZone = f.timezone
	}
	if fs.Changed("match") {
		cfg.MatchStrategy = f.match
	}
	if fs.Changed("compression") {
		cfg.Compression = f.compression
	}
	if fs.Changed("threads") {
		cfg.Threads = f.threads
	}
	if fs.Changed("memory-limit") {
		cfg.MemoryLimit = f.memoryLimit
	}
	if fs.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	flags := &pipelineFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once",
		Long:  "Reads song and log data from the input and rewrites all five tables under the output.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.apply(cmd.Flags(), opts.cfg)
			deps, err := opts.deps()
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			report, err := app.RunOnce(ctx, deps)
			if err != nil {
				return err
			}
			return printReport(cmd, report)
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func printReport(cmd *cobra.Command, report *domain.RunReport) error {
	if getOutputFormat(cmd) == "json" {
		return PrintJSON(os.Stdout, report)
	}
	rows := make([][]string, 0, len(report.Tables))
	for _, t := range report.Tables {
		rows = append(rows, []string{
			t.Name,
			strconv.FormatInt(t.Rows, 10),
			strings.Join(t.PartitionBy, ","),
			t.Destination,
		})
	}
	PrintTable(os.Stdout, []string{"table", "rows", "partition_by", "destination"}, rows)
	_, _ = fmt.Fprintf(os.Stdout, "\nrun %s finished in %s\n",
		report.RunID, report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	return nil
}
