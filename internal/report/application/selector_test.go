package application_test

import (
	"errors"
	"strings"
	"testing"

	pipelinedomain "cockpit/internal/pipeline/domain"
	"cockpit/internal/report/application"
	"cockpit/internal/report/domain"
	"cockpit/internal/testhelpers"
)

func sampleDataset(t *testing.T) *pipelinedomain.Dataset {
	t.Helper()
	data, err := testhelpers.SampleDataset()
	if err != nil {
		t.Fatalf("SampleDataset: %v", err)
	}
	return data
}

func keyValues(t *testing.T, table *pipelinedomain.Table) []string {
	t.Helper()
	out := make([]string, table.Len())
	for i := range out {
		out[i] = table.Row(i).Keys[0]
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name         string
		reportType   domain.ReportType
		filter       string
		wantTitle    string
		wantCategory string
		wantLeads    int64
		wantDetail   []string
	}{
		{"national", domain.National, "", "National", domain.CategoryRegion, 600,
			[]string{"SUDESTE", "SUL"}},
		{"regional cumulative", domain.Regional, "", "Regional (Cumulative)", domain.CategorySector, 600,
			[]string{"S01", "S02", "S03"}},
		{"regional filtered", domain.Regional, "SUDESTE", "Regional - SUDESTE", domain.CategorySector, 450,
			[]string{"S01", "S02"}},
		{"sector filtered", domain.BySector, "S01", "Sector - S01", domain.CategoryOutlet, 250,
			[]string{"Auto Paulista", "Minas Car"}},
		{"sector cumulative", domain.BySector, "", "Sector (Cumulative)", domain.CategoryOutlet, 600,
			[]string{"Auto Paulista", "Minas Car", "Rio Motors", "Gaucha Veiculos"}},
		{"group filtered", domain.ByGroup, "G2", "Group - G2", domain.CategoryOutlet, 350,
			[]string{"Rio Motors", "Gaucha Veiculos"}},
		{"brand filtered", domain.ByBrand, "FIAT", "Brand - FIAT", domain.CategoryOutlet, 350,
			[]string{"Auto Paulista", "Gaucha Veiculos"}},
		{"outlet filtered", domain.ByOutlet, "Auto Paulista", "Outlet - Auto Paulista", domain.CategorySalesperson, 200,
			[]string{"Ana Souza", "Bruno Lima"}},
	}

	data := sampleDataset(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := application.Select(tt.reportType, tt.filter, data)
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if sel.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", sel.Title, tt.wantTitle)
			}
			if sel.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", sel.Category, tt.wantCategory)
			}
			if got := sel.Headline.Get(pipelinedomain.MetricLeads); got != tt.wantLeads {
				t.Errorf("headline leads = %d, want %d", got, tt.wantLeads)
			}
			got := keyValues(t, sel.Detail)
			if strings.Join(got, ",") != strings.Join(tt.wantDetail, ",") {
				t.Errorf("detail = %v, want %v", got, tt.wantDetail)
			}
		})
	}
}

func TestSelect_RegionalFilterUsesOutletSectors(t *testing.T) {
	sel, err := application.Select(domain.Regional, "SUDESTE", sampleDataset(t))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	// 3 points de vente SUDESTE répartis sur 2 secteurs
	if sel.Detail.Len() != 2 {
		t.Fatalf("detail rows = %d, want 2", sel.Detail.Len())
	}
	if sel.Detail.Level() != pipelinedomain.LevelSector {
		t.Errorf("detail level = %v, want sector", sel.Detail.Level())
	}
}

func TestSelect_UnknownFilter(t *testing.T) {
	_, err := application.Select(domain.Regional, "NORTE", sampleDataset(t))
	if !errors.Is(err, pipelinedomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *pipelinedomain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	if nf.Filter != "NORTE" || nf.Matches != 0 || nf.Table != "region" {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestSelect_OutletWithoutFilterIsUnsupported(t *testing.T) {
	_, err := application.Select(domain.ByOutlet, "", sampleDataset(t))
	if !errors.Is(err, domain.ErrUnsupportedSelection) {
		t.Fatalf("expected ErrUnsupportedSelection, got %v", err)
	}
}

func TestSelect_NationalWithFilterIsUnsupported(t *testing.T) {
	_, err := application.Select(domain.National, "SUL", sampleDataset(t))
	if !errors.Is(err, domain.ErrUnsupportedSelection) {
		t.Fatalf("expected ErrUnsupportedSelection, got %v", err)
	}
}

func TestSelect_MissingTable(t *testing.T) {
	full := sampleDataset(t)
	partial := pipelinedomain.NewDataset()
	for _, table := range full.Tables() {
		if table.Level() != pipelinedomain.LevelSector {
			partial.Put(table)
		}
	}

	_, err := application.Select(domain.Regional, "SUDESTE", partial)
	var missing *pipelinedomain.MissingDataError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingDataError, got %v", err)
	}
	if missing.Table != "sector" || missing.ReportType != "Regional" || missing.Filter != "SUDESTE" {
		t.Errorf("MissingDataError = %+v", missing)
	}
}

func TestOptions(t *testing.T) {
	data := sampleDataset(t)
	tests := []struct {
		reportType domain.ReportType
		want       []string
	}{
		{domain.Regional, []string{"SUDESTE", "SUL"}},
		{domain.BySector, []string{"S01", "S02", "S03"}},
		{domain.ByBrand, []string{"FIAT", "JEEP"}},
		{domain.ByOutlet, []string{"Auto Paulista", "Gaucha Veiculos", "Minas Car", "Rio Motors"}},
	}
	for _, tt := range tests {
		got, err := application.Options(tt.reportType, data)
		if err != nil {
			t.Fatalf("Options(%v): %v", tt.reportType, err)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("Options(%v) = %v, want %v", tt.reportType, got, tt.want)
		}
	}
	if _, err := application.Options(domain.National, data); err == nil {
		t.Error("expected error for national options")
	}
}

func TestSelect_AmbiguousFilter(t *testing.T) {
	records := []pipelinedomain.GranularRecord{
		{RegionID: "SUDESTE", SectorID: "S01", Group: "G1", Brand: "FIAT", Outlet: "Centro", ProspectorID: "101", Salesperson: "Ana Souza",
			Metrics: testhelpers.NewMetrics(1, 100, 80, 50, 10, 10, 30, 20, 10, 4)},
		{RegionID: "SUL", SectorID: "S03", Group: "G2", Brand: "JEEP", Outlet: "Centro", ProspectorID: "401", Salesperson: "Elisa Rocha",
			Metrics: testhelpers.NewMetrics(1, 60, 40, 30, 5, 5, 20, 15, 6, 2)},
	}
	rollups, err := pipelinedomain.Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	_, err = application.Select(domain.ByOutlet, "Centro", rollups.Dataset())
	if !errors.Is(err, pipelinedomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *pipelinedomain.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
	if nf.Filter != "Centro" || nf.Matches != 2 {
		t.Errorf("NotFoundError = %+v", nf)
	}
}

func TestOptions_SkipsEmptyKeys(t *testing.T) {
	records := append(testhelpers.SampleRecords(), pipelinedomain.GranularRecord{
		RegionID: "", SectorID: "S09", Group: "G9", Brand: "FIAT", Outlet: "Sem Regiao", ProspectorID: "901", Salesperson: "Gil Costa",
		Metrics: testhelpers.NewMetrics(1, 10, 8, 5, 1, 1, 3, 2, 1, 1),
	})
	rollups, err := pipelinedomain.Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	got, err := application.Options(domain.Regional, rollups.Dataset())
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if strings.Join(got, ",") != "SUDESTE,SUL" {
		t.Errorf("Options = %q, want [SUDESTE SUL]", got)
	}
}
