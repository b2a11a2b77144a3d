package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cockpit/database"
	pipelineapp "cockpit/internal/pipeline/application"
	pipelineinfra "cockpit/internal/pipeline/infrastructure"
	shareddomain "cockpit/internal/shared/domain"
	staginginfra "cockpit/internal/staging/infrastructure"
)

var etlFlags struct {
	event string
	start string
	end   string
}

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Extract an event from the source database and write the staging tables",
	RunE:  runETL,
}

func init() {
	etlCmd.Flags().StringVarP(&etlFlags.event, "event", "e", "", "Event source, name or catalog position")
	etlCmd.Flags().StringVar(&etlFlags.start, "start", "", "Period start (dd/mm/yyyy), defaults to the event start")
	etlCmd.Flags().StringVar(&etlFlags.end, "end", "", "Period end (dd/mm/yyyy), defaults to the event end")
	_ = etlCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(etlCmd)
}

func runETL(cmd *cobra.Command, args []string) error {
	cfg := current.cfg

	catalog, err := loadCatalog()
	if err != nil {
		return err
	}
	event, err := catalog.Find(etlFlags.event)
	if err != nil {
		return err
	}

	period := event.Period()
	if etlFlags.start != "" || etlFlags.end != "" {
		start, end := etlFlags.start, etlFlags.end
		if start == "" {
			start = period.StartBR()
		}
		if end == "" {
			end = period.EndBR()
		}
		if period, err = shareddomain.ParseDateRange(start, end); err != nil {
			return err
		}
		if err := event.ValidatePeriod(period); err != nil {
			return err
		}
	}

	queryText := ""
	if cfg.QueryFile != "" {
		data, err := os.ReadFile(cfg.QueryFile)
		if err != nil {
			return fmt.Errorf("read query file: %w", err)
		}
		queryText = string(data)
	}

	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.RedactedDSN(), err)
	}
	defer db.Close()

	repo, err := pipelineinfra.NewGranularQueryRepository(db, queryText)
	if err != nil {
		return err
	}
	store, closer, err := staginginfra.OpenStore(cfg.StagingFormat, cfg.StagingDir)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := pipelineapp.NewETLService(repo, store, cfg.ReferenceSchema, current.log)
	result, err := svc.Run(cmd.Context(), pipelineapp.ETLRequest{
		EventSource: event.Source(),
		EventName:   event.Name(),
		Period:      period,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ %s (%s) extrait en %v\n", event.Name(), period, result.Duration)
	for _, t := range result.Rollups.Tables() {
		fmt.Fprintf(out, "   %-12s %d lignes\n", t.Name(), t.Len())
	}
	return nil
}
