package commands

import (
	"github.com/spf13/cobra"
)

func newExtractionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extractions",
		Args:  cobra.NoArgs,
		Short: "Inspect extraction jobs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Args:  cobra.NoArgs,
		Short: "List extractions, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			extractions, err := a.client.ListExtractions(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), extractions)
		},
	})

	return cmd
}
