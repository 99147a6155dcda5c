package commands

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/leadgen/lead-extractor-service/internal/models"
)

func newLeadsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Args:  cobra.NoArgs,
		Short: "List, add, clear and batch-ingest leads",
	}

	cmd.AddCommand(
		newLeadsListCommand(a),
		newLeadsAddCommand(a),
		newLeadsClearCommand(a),
		newLeadsBatchCommand(a),
	)

	return cmd
}

func newLeadsListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Args:  cobra.NoArgs,
		Short: "List leads, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			leads, err := a.client.ListLeads(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), leads)
		},
	}
}

func newLeadsAddCommand(a *app) *cobra.Command {
	var apolloData string

	cmd := &cobra.Command{
		Use:   "add",
		Args:  cobra.NoArgs,
		Short: "Add a single lead",
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := models.LeadDraft{
				Name:        optionalString(cmd, "name"),
				JobTitle:    optionalString(cmd, "job-title"),
				Company:     optionalString(cmd, "company"),
				Location:    optionalString(cmd, "location"),
				LinkedinURL: optionalString(cmd, "linkedin-url"),
			}
			if apolloData != "" {
				if !json.Valid([]byte(apolloData)) {
					return fmt.Errorf("--apollo-data must be valid JSON")
				}
				draft.ApolloData = json.RawMessage(apolloData)
			}

			lead, err := a.client.CreateLead(cmd.Context(), draft)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), lead)
		},
	}

	cmd.Flags().String("name", "", "full name")
	cmd.Flags().String("job-title", "", "job title")
	cmd.Flags().String("company", "", "company name")
	cmd.Flags().String("location", "", "location")
	cmd.Flags().String("linkedin-url", "", "profile or job URL")
	cmd.Flags().StringVar(&apolloData, "apollo-data", "", "enrichment data as a JSON document")
	return cmd
}

func newLeadsClearCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Args:  cobra.NoArgs,
		Short: "Delete every lead",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.ClearLeads(cmd.Context()); err != nil {
				return err
			}
			a.logger.Info("All leads cleared")
			return nil
		},
	}
}

func newLeadsBatchCommand(a *app) *cobra.Command {
	var filters models.SearchFilters

	cmd := &cobra.Command{
		Use:   "batch",
		Args:  cobra.NoArgs,
		Short: "Run a scraper batch on the server and store its leads",
		Long: `Starts the configured scraper task for a LinkedIn job search built from the
filters, waits for the run and stores the deduplicated results. The server
holds the request open for the whole run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.WithFields(logrus.Fields{
				"jobTitle": filters.JobTitle,
				"location": filters.Location,
				"industry": filters.Industry,
			}).Info("Requesting batch ingestion")

			leads, err := a.client.Batch(cmd.Context(), filters)
			if err != nil {
				return err
			}
			a.logger.Infof("Stored %d leads", len(leads))
			return printJSON(cmd.OutOrStdout(), leads)
		},
	}

	cmd.Flags().StringVar(&filters.JobTitle, "job-title", "", "job title keywords")
	cmd.Flags().StringVar(&filters.Location, "location", "", "job location")
	cmd.Flags().StringVar(&filters.Industry, "industry", "", "industry keywords, used when no job title is given")
	return cmd
}
