package commands

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadgen/lead-extractor-service/internal/client"
	"github.com/leadgen/lead-extractor-service/internal/extraction"
)

func newExtractCommand(a *app) *cobra.Command {
	var req extraction.Request

	cmd := &cobra.Command{
		Use:   "extract",
		Args:  cobra.NoArgs,
		Short: "Run a simulated extraction that generates sample leads",
		Long: `Creates an extraction record, generates sample leads for the filters and
posts them one at a time, updating the record's progress as it goes.
Interrupting the command marks the extraction as failed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner := extraction.NewRunner(a.client, nil, a.logger)
			result, err := runner.Run(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result.Extraction)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Filters.JobTitle, "job-title", "", "job title for every generated lead")
	flags.StringVar(&req.Filters.Location, "location", "", "location for every generated lead")
	flags.StringVar(&req.Filters.Industry, "industry", "", "industry table to draw titles and companies from")
	flags.IntVar(&req.Limit, "limit", 25, "number of leads to extract")
	flags.IntVar(&req.StartPage, "start-page", 1, "first result page")
	flags.IntVar(&req.EndPage, "end-page", 1, "last result page")
	flags.DurationVar(&req.Delay, "delay", time.Second, "pause between leads")
	return cmd
}

var _ extraction.API = (*client.Client)(nil)
