package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:       "export {csv|excel}",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"csv", "excel"},
		Short:     "Download all leads as a CSV or Excel file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := a.client.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "" {
				output = file.Name
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(file.Data)
				return err
			}
			if err := os.WriteFile(output, file.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			a.logger.WithField("bytes", len(file.Data)).Infof("Exported leads to %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path, - for stdout (default: server filename)")
	return cmd
}
