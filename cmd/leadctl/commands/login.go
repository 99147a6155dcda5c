package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Args:  cobra.NoArgs,
		Short: "Simulated LinkedIn login",
	}

	cmd.AddCommand(
		newLoginCredentialsCommand(a),
		newLoginCookiesCommand(a),
	)

	return cmd
}

func newLoginCredentialsCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "credentials",
		Args:  cobra.NoArgs,
		Short: "Log in with an email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.client.LoginCredentials(cmd.Context(), email, password)
			if err != nil {
				a.logger.WithError(err).Error("Login failed with credentials")
				return err
			}
			a.logger.Info("Login successful with credentials!")
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLoginCookiesCommand(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "cookies",
		Args:  cobra.NoArgs,
		Short: "Log in with an exported cookie JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if file == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(file)
			}
			if err != nil {
				return fmt.Errorf("failed to read cookies: %w", err)
			}

			result, err := a.client.LoginCookies(cmd.Context(), string(data))
			if err != nil {
				a.logger.WithError(err).Error("Login failed with cookies")
				return err
			}
			a.logger.Info("Login successful with cookies!")
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "cookie JSON file, - for stdin")
	return cmd
}
