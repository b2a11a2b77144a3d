package domain_test

import (
	"errors"
	"testing"

	"cockpit/internal/pipeline/domain"
	"cockpit/internal/testhelpers"
)

func TestAggregate_EmptyInput(t *testing.T) {
	_, err := domain.Aggregate(nil)
	if !errors.Is(err, domain.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	var empty *domain.EmptyResultError
	if !errors.As(err, &empty) {
		t.Fatalf("expected *EmptyResultError, got %T", err)
	}
}

func TestAggregate_ConservationOfTotals(t *testing.T) {
	records := testhelpers.SampleRecords()
	rollups, err := domain.Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	var want domain.Metrics
	for _, r := range records {
		want = want.Add(r.Metrics)
	}

	for _, table := range rollups.Tables() {
		if got := table.Totals(); got != want {
			t.Errorf("table %s: totals %v, want %v", table.Name(), got, want)
		}
	}
}

func TestAggregate_NationalHasSingleRow(t *testing.T) {
	rollups, err := domain.Aggregate(testhelpers.SampleRecords())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if rollups.National.Len() != 1 {
		t.Fatalf("national rows = %d, want 1", rollups.National.Len())
	}
	if got := rollups.National.Row(0).Metrics.Get(domain.MetricLeads); got != 600 {
		t.Errorf("national leads = %d, want 600", got)
	}
	if got := rollups.National.Row(0).Metrics.Get(domain.MetricSellers); got != 6 {
		t.Errorf("national sellers = %d, want 6", got)
	}
}

func TestAggregate_OutletRowsSortedByGroupingKey(t *testing.T) {
	rollups, err := domain.Aggregate(testhelpers.SampleRecords())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	want := []string{"Auto Paulista", "Minas Car", "Rio Motors", "Gaucha Veiculos"}
	if rollups.ByOutlet.Len() != len(want) {
		t.Fatalf("outlet rows = %d, want %d", rollups.ByOutlet.Len(), len(want))
	}
	for i, name := range want {
		if got := rollups.ByOutlet.Row(i).Keys[0]; got != name {
			t.Errorf("outlet row %d = %q, want %q", i, got, name)
		}
	}
}

func TestAggregate_GroupingConsistency(t *testing.T) {
	rollups, err := domain.Aggregate(testhelpers.SampleRecords())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	tests := []struct {
		name   string
		table  *domain.Table
		column string
	}{
		{"region", rollups.ByRegion, domain.ColRegion},
		{"group", rollups.ByGroup, domain.ColGroup},
		{"brand", rollups.ByBrand, domain.ColBrand},
		{"sector", rollups.BySector, domain.ColSector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, row := range tt.table.Rows() {
				outlets, err := rollups.ByOutlet.Equal(tt.column, row.Keys[0])
				if err != nil {
					t.Fatalf("Equal: %v", err)
				}
				if got := outlets.Totals(); got != row.Metrics {
					t.Errorf("%s %q: row %v, outlet sum %v", tt.name, row.Keys[0], row.Metrics, got)
				}
			}
		})
	}
}

func TestAggregate_RegionKeysSorted(t *testing.T) {
	rollups, err := domain.Aggregate(testhelpers.SampleRecords())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	got, err := rollups.ByRegion.Distinct(domain.ColRegion)
	if err != nil {
		t.Fatalf("Distinct: %v", err)
	}
	if len(got) != 2 || got[0] != "SUDESTE" || got[1] != "SUL" {
		t.Errorf("regions = %v, want [SUDESTE SUL]", got)
	}
	sudeste := rollups.ByRegion.Row(0).Metrics.Get(domain.MetricLeads)
	if sudeste != 450 {
		t.Errorf("SUDESTE leads = %d, want 450", sudeste)
	}
}

func TestTable_ColumnIndexUnknownColumn(t *testing.T) {
	rollups, err := domain.Aggregate(testhelpers.SampleRecords())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	_, err = rollups.ByRegion.ColumnIndex(domain.ColOutlet)
	var missing *domain.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingColumnError, got %v", err)
	}
	if missing.Table != "region" {
		t.Errorf("table = %q, want region", missing.Table)
	}
}

func TestNewTable_RejectsNegativeMetric(t *testing.T) {
	m := testhelpers.NewMetrics(1, -1, 0, 0, 0, 0, 0, 0, 0, 0)
	_, err := domain.NewTable(domain.LevelRegion, []domain.Row{{Keys: []string{"SUL"}, Metrics: m}})
	if err == nil {
		t.Fatal("expected error for negative metric")
	}
}

func TestDataset_MissingTable(t *testing.T) {
	d := domain.NewDataset()
	_, err := d.Table(domain.LevelSector)
	if !errors.Is(err, domain.ErrMissingData) {
		t.Fatalf("expected ErrMissingData, got %v", err)
	}
}

func TestLevel_Columns(t *testing.T) {
	cols := domain.LevelOutlet.Columns()
	if cols[0] != domain.ColOutlet {
		t.Errorf("first column = %q, want %q", cols[0], domain.ColOutlet)
	}
	if len(cols) != 5+10 {
		t.Errorf("columns = %d, want 15", len(cols))
	}
	if cols[5] != "sellers" || cols[len(cols)-1] != "sales" {
		t.Errorf("metric order broken: %v", cols[5:])
	}
	if level, ok := domain.LevelByName("group"); !ok || level != domain.LevelGroup {
		t.Errorf("LevelByName(group) = %v, %v", level, ok)
	}
}

// BenchmarkAggregate mesure le coût d'agrégation sur un jeu élargi
func BenchmarkAggregate(b *testing.B) {
	sample := testhelpers.SampleRecords()
	records := make([]domain.GranularRecord, 0, len(sample)*500)
	for i := 0; i < 500; i++ {
		records = append(records, sample...)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := domain.Aggregate(records); err != nil {
			b.Fatal(err)
		}
	}
}
