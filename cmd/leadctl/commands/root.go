package commands

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leadgen/lead-extractor-service/internal/client"
	"github.com/leadgen/lead-extractor-service/internal/config"
	"github.com/leadgen/lead-extractor-service/internal/logging"
)

const defaultServer = "http://localhost:5000"

// app carries what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	v      *viper.Viper
	client *client.Client
	logger *logrus.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("LEADCTL")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	a.v.SetDefault("server", defaultServer)
	a.v.SetDefault("timeout", client.DefaultTimeout)
	a.v.SetDefault("log-level", "info")

	rootCmd := &cobra.Command{
		Use:          "leadctl",
		Short:        "Command line client for the lead extractor service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(config.LogConfig{
				Level:  a.v.GetString("log-level"),
				Format: "text",
			})
			if err != nil {
				return err
			}
			logger.SetOutput(cmd.ErrOrStderr())
			a.logger = logger
			a.client = client.New(a.v.GetString("server"), a.v.GetDuration("timeout"))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("server", defaultServer, "base URL of the lead extractor service")
	flags.Duration("timeout", client.DefaultTimeout, "HTTP timeout per request")
	flags.String("log-level", "info", "log level for activity output")
	a.v.BindPFlag("server", flags.Lookup("server"))
	a.v.BindPFlag("timeout", flags.Lookup("timeout"))
	a.v.BindPFlag("log-level", flags.Lookup("log-level"))

	rootCmd.AddCommand(
		newLeadsCommand(a),
		newExportCommand(a),
		newExtractionsCommand(a),
		newSettingsCommand(a),
		newLoginCommand(a),
		newExtractCommand(a),
	)

	return rootCmd
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// optionalString returns nil for flags the user did not set
func optionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func optionalBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}
