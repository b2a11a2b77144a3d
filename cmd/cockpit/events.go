package main

import (
	"fmt"

	"github.com/spf13/cobra"

	catalogdomain "cockpit/internal/catalog/domain"
	cataloginfra "cockpit/internal/catalog/infrastructure"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the events declared in the event catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i, e := range catalog.Events() {
			fmt.Fprintf(out, "%2d. %-30s %-30s %s\n", i+1, e.Name(), e.Source(), e.Period())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func loadCatalog() (*catalogdomain.Catalog, error) {
	return cataloginfra.NewEventCatalogRepository(current.cfg.EventsFile).Load()
}
