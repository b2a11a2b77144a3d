package infrastructure

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"cockpit/internal/pipeline/domain"
)

// fakeRow simule *sql.Rows pour scanGranular
type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *sql.NullString:
			if f.values[i] == nil {
				*p = sql.NullString{}
			} else {
				*p = sql.NullString{String: f.values[i].(string), Valid: true}
			}
		case *sql.NullInt64:
			if f.values[i] == nil {
				*p = sql.NullInt64{}
			} else {
				*p = sql.NullInt64{Int64: f.values[i].(int64), Valid: true}
			}
		}
	}
	return nil
}

func TestScanGranular_NullsBecomeZero(t *testing.T) {
	row := fakeRow{values: []any{
		"SUDESTE", "S01", "G1", "FIAT", "Auto Paulista", "101", "Ana Souza",
		int64(1), int64(120), nil, int64(60), nil, int64(10), int64(40), nil, nil, int64(5),
	}}

	rec, err := scanGranular(row)
	if err != nil {
		t.Fatalf("scanGranular: %v", err)
	}
	if rec.Outlet != "Auto Paulista" || rec.Salesperson != "Ana Souza" || rec.ProspectorID != "101" {
		t.Errorf("keys = %+v", rec)
	}
	if rec.Metrics.Get(domain.MetricLeadsViewed) != 0 || rec.Metrics.Get(domain.MetricAttendance) != 0 {
		t.Errorf("NULL metrics not normalised: %v", rec.Metrics)
	}
	if rec.Metrics.Get(domain.MetricLeads) != 120 || rec.Metrics.Get(domain.MetricSales) != 5 {
		t.Errorf("metrics = %v", rec.Metrics)
	}
}

func TestScanGranular_NullKeyBecomesEmpty(t *testing.T) {
	values := make([]any, 17)
	values[0] = "SUL"
	rec, err := scanGranular(fakeRow{values: values})
	if err != nil {
		t.Fatalf("scanGranular: %v", err)
	}
	if rec.RegionID != "SUL" || rec.Brand != "" {
		t.Errorf("keys = %+v", rec)
	}
}

func TestScanGranular_RejectsNegative(t *testing.T) {
	values := make([]any, 17)
	values[8] = int64(-3)
	if _, err := scanGranular(fakeRow{values: values}); err == nil {
		t.Fatal("expected error for negative metric")
	}
}

func TestScanGranular_ScanError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := scanGranular(fakeRow{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped scan error, got %v", err)
	}
}

func TestRenderQuery_QuotesIdentifiers(t *testing.T) {
	repo, err := NewGranularQueryRepository(nil, "SELECT * FROM {{.EventSchema}}.leads JOIN {{.ReferenceSchema}}.outlets")
	if err != nil {
		t.Fatalf("NewGranularQueryRepository: %v", err)
	}

	got, err := repo.RenderQuery(QueryParams{EventSchema: `evento"; DROP TABLE x; --`, ReferenceSchema: "pdv"})
	if err != nil {
		t.Fatalf("RenderQuery: %v", err)
	}
	want := `SELECT * FROM "evento""; DROP TABLE x; --".leads JOIN "pdv".outlets`
	if got != want {
		t.Errorf("query = %s\nwant    %s", got, want)
	}
}

func TestRenderQuery_RequiresSchemas(t *testing.T) {
	repo, err := NewGranularQueryRepository(nil, "")
	if err != nil {
		t.Fatalf("NewGranularQueryRepository: %v", err)
	}
	if _, err := repo.RenderQuery(QueryParams{ReferenceSchema: "pdv"}); err == nil {
		t.Error("expected error for missing event schema")
	}
	if _, err := repo.RenderQuery(QueryParams{EventSchema: "ev"}); err == nil {
		t.Error("expected error for missing reference schema")
	}
}

func TestRenderQuery_DefaultTemplate(t *testing.T) {
	repo, err := NewGranularQueryRepository(nil, "")
	if err != nil {
		t.Fatalf("NewGranularQueryRepository: %v", err)
	}
	got, err := repo.RenderQuery(QueryParams{EventSchema: "evento_verao", ReferenceSchema: "pdv"})
	if err != nil {
		t.Fatalf("RenderQuery: %v", err)
	}
	for _, part := range []string{`"evento_verao".salespeople`, `"pdv".outlets`, "$1::date", "$2::date"} {
		if !strings.Contains(got, part) {
			t.Errorf("query missing %q", part)
		}
	}
}

func TestNewGranularQueryRepository_UnknownField(t *testing.T) {
	repo, err := NewGranularQueryRepository(nil, "SELECT {{.Nope}}")
	if err != nil {
		t.Fatalf("parse should succeed: %v", err)
	}
	if _, err := repo.RenderQuery(QueryParams{EventSchema: "a", ReferenceSchema: "b"}); err == nil {
		t.Error("expected error for unknown template field")
	}
}
