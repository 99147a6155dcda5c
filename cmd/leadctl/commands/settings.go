package commands

import (
	"github.com/spf13/cobra"

	"github.com/leadgen/lead-extractor-service/internal/models"
)

func newSettingsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Args:  cobra.NoArgs,
		Short: "Read or change user settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Args:  cobra.NoArgs,
			Short: "Show the current settings",
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, err := a.client.GetSettings(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), settings)
			},
		},
		newSettingsSetCommand(a),
	)

	return cmd
}

func newSettingsSetCommand(a *app) *cobra.Command {
	var (
		lastEmail   string
		forgetEmail bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Args:  cobra.NoArgs,
		Short: "Update the settings given as flags; others are left unchanged",
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := models.SettingsPatch{
				ExportFormat:        optionalString(cmd, "export-format"),
				AutoSave:            optionalBool(cmd, "auto-save"),
				ShowNotifications:   optionalBool(cmd, "show-notifications"),
				Theme:               optionalString(cmd, "theme"),
				RememberCredentials: optionalBool(cmd, "remember-credentials"),
			}
			switch {
			case forgetEmail:
				patch.LastEmail = models.Null[string]()
			case cmd.Flags().Changed("last-email"):
				patch.LastEmail = models.Some(lastEmail)
			}

			settings, err := a.client.UpdateSettings(cmd.Context(), patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), settings)
		},
	}

	cmd.Flags().String("export-format", "", "csv or excel")
	cmd.Flags().Bool("auto-save", false, "save leads automatically")
	cmd.Flags().Bool("show-notifications", false, "show notifications")
	cmd.Flags().String("theme", "", "light, dark or auto")
	cmd.Flags().Bool("remember-credentials", false, "remember the last login email")
	cmd.Flags().StringVar(&lastEmail, "last-email", "", "last login email")
	cmd.Flags().BoolVar(&forgetEmail, "forget-email", false, "clear the remembered login email")
	cmd.MarkFlagsMutuallyExclusive("last-email", "forget-email")
	return cmd
}
