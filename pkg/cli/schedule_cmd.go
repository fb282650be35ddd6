package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"songlake/internal/app"
	"songlake/internal/domain"
	"songlake/internal/pipeline"
)

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var (
		spec string
		now  bool
	)
	flags := &pipelineFlags{}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on a cron schedule",
		Long: "Runs the pipeline each time the cron expression fires until interrupted.\n" +
			"Accepts five-field expressions and descriptors such as @hourly or @every 30m.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.apply(cmd.Flags(), opts.cfg)
			if cmd.Flags().Changed("cron") {
				opts.cfg.Schedule = spec
			}
			if opts.cfg.Schedule == "" {
				return domain.ErrValidation("a schedule is required: pass --cron or set SONGLAKE_SCHEDULE")
			}
			if err := pipeline.ValidateSchedule(opts.cfg.Schedule); err != nil {
				return err
			}
			deps, err := opts.deps()
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			s := pipeline.NewScheduler(func(ctx context.Context) (*domain.RunReport, error) {
				return app.RunOnce(ctx, deps)
			}, deps.Logger)
			if err := s.Run(ctx, opts.cfg.Schedule, now); err != nil {
				return fmt.Errorf("schedule: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "", "Cron expression, e.g. \"0 * * * *\" or \"@every 1h\"")
	cmd.Flags().BoolVar(&now, "now", false, "Run once immediately before the first scheduled time")
	flags.register(cmd.Flags())
	return cmd
}
