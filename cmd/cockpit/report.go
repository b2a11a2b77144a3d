package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	reportapp "cockpit/internal/report/application"
	reportdomain "cockpit/internal/report/domain"
	reportinfra "cockpit/internal/report/infrastructure"
	sharedinfra "cockpit/internal/shared/infrastructure"
	staginginfra "cockpit/internal/staging/infrastructure"
)

const stagingCacheTTL = 10 * time.Minute

var reportFlags struct {
	reportType string
	filter     string
	each       bool
	dryRun     bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from the staging tables",
	RunE:  runReport,
}

var optionsFlags struct {
	reportType string
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the filter values available for a report type",
	RunE:  runOptions,
}

func init() {
	reportCmd.Flags().StringVarP(&reportFlags.reportType, "type", "t", "national", "Report type ("+reportTypeKeys()+")")
	reportCmd.Flags().StringVarP(&reportFlags.filter, "filter", "f", "", "Filter value (region, sector, group, brand or outlet)")
	reportCmd.Flags().BoolVar(&reportFlags.each, "each", false, "Generate one report per available filter value")
	reportCmd.Flags().BoolVar(&reportFlags.dryRun, "dry-run", false, "Print the placeholder values without writing any document")
	rootCmd.AddCommand(reportCmd)

	optionsCmd.Flags().StringVarP(&optionsFlags.reportType, "type", "t", "regional", "Report type ("+reportTypeKeys()+")")
	rootCmd.AddCommand(optionsCmd)
}

func reportTypeKeys() string {
	keys := make([]string, 0, len(reportdomain.ReportTypes()))
	for _, t := range reportdomain.ReportTypes() {
		keys = append(keys, t.Key())
	}
	return strings.Join(keys, ", ")
}

// newReportService assemble la zone staging, le rendu et la conversion
func newReportService() (*reportapp.ReportService, func() error, error) {
	cfg := current.cfg
	store, closer, err := staginginfra.OpenStore(cfg.StagingFormat, cfg.StagingDir)
	if err != nil {
		return nil, nil, err
	}
	cached := staginginfra.NewCachedStore(store, sharedinfra.NewInMemoryCache(), stagingCacheTTL)

	var converter reportapp.Converter = reportinfra.NoopConverter{}
	if cfg.PDFConverter != "" {
		converter = reportinfra.NewSofficeConverter(cfg.PDFConverter, current.log)
	}
	renderer := reportinfra.NewXLSXRenderer(cfg.TemplatePath, current.log)
	svc := reportapp.NewReportService(cached, renderer, converter, current.log).WithWorkers(cfg.Workers)
	return svc, closer.Close, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	reportType, err := reportdomain.ParseReportType(reportFlags.reportType)
	if err != nil {
		return err
	}
	svc, closeStore, err := newReportService()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	event, err := svc.EventInfo(ctx)
	if err != nil {
		return err
	}
	req := reportapp.ReportRequest{
		Type:      reportType,
		Filter:    reportFlags.filter,
		Event:     event,
		OutputDir: current.cfg.OutputDir,
	}
	out := cmd.OutOrStdout()

	if reportFlags.dryRun {
		sel, instructions, err := svc.Prepare(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n", sel.Title)
		keys := make([]reportdomain.Placeholder, 0, len(instructions.Placeholders))
		for p := range instructions.Placeholders {
			keys = append(keys, p)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			fmt.Fprintf(out, "  %-30s %s\n", k.Token(), instructions.Placeholders[k])
		}
		fmt.Fprintf(out, "  %-30s %d lignes\n", reportdomain.PhDetailTable.Token(), len(instructions.Detail.Rows))
		return nil
	}

	var results []*reportapp.ReportResult
	if reportFlags.each {
		results, err = svc.GenerateEach(ctx, req)
	} else {
		var r *reportapp.ReportResult
		r, err = svc.Generate(ctx, req)
		results = append(results, r)
	}
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Fprintf(out, "✅ %s -> %s\n", r.Title, r.DocumentPath)
		if r.FixedPath != "" {
			fmt.Fprintf(out, "   📄 %s\n", r.FixedPath)
		}
	}
	return nil
}

func runOptions(cmd *cobra.Command, args []string) error {
	reportType, err := reportdomain.ParseReportType(optionsFlags.reportType)
	if err != nil {
		return err
	}
	svc, closeStore, err := newReportService()
	if err != nil {
		return err
	}
	defer closeStore()

	options, err := svc.Options(cmd.Context(), reportType)
	if err != nil {
		return err
	}
	for _, o := range options {
		fmt.Fprintln(cmd.OutOrStdout(), o)
	}
	return nil
}
