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

// headlineDataset dataset dont la ligne nationale correspond à l'exemple de référence
func headlineDataset(t *testing.T) *pipelinedomain.Dataset {
	t.Helper()
	north := testhelpers.NewMetrics(30, 600, 500, 300, 50, 60, 60, 50, 25, 12)
	south := testhelpers.NewMetrics(20, 400, 300, 200, 50, 40, 40, 30, 15, 8)

	regions, err := pipelinedomain.NewTable(pipelinedomain.LevelRegion, []pipelinedomain.Row{
		{Keys: []string{"SUL"}, Metrics: south},
		{Keys: []string{"NORDESTE"}, Metrics: north},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	national, err := pipelinedomain.NewTable(pipelinedomain.LevelNational, []pipelinedomain.Row{
		{Keys: []string{}, Metrics: north.Add(south)},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return pipelinedomain.NewDataset(regions, national)
}

func TestBind_HeadlineExample(t *testing.T) {
	sel, err := application.Select(domain.National, "", headlineDataset(t))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	event := domain.EventInfo{Name: "Feirão de Verão", StartDate: "01/03/2024", EndDate: "10/03/2024"}
	instructions, err := application.Bind(application.BuildContext(sel, event), sel.Detail)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	ctx := instructions.Placeholders
	checks := map[domain.Placeholder]string{
		domain.PhLeads:                 "1.000",
		domain.PhNoResponse:            "300",
		domain.PhConfirmedToAttendance: "80,00",
		domain.PhSellers:               "50",
		domain.PhViewTitle:             "National",
		domain.PhCategoryLabel:         "Region",
		domain.PhEventName:             "Feirão de Verão",
		domain.PhStartDate:             "01/03/2024",
		domain.PhEndDate:               "10/03/2024",
	}
	for k, want := range checks {
		if ctx[k] != want {
			t.Errorf("%s = %q, want %q", k, ctx[k], want)
		}
	}

	if len(instructions.Detail.Rows) != 2 {
		t.Fatalf("detail rows = %d, want 2", len(instructions.Detail.Rows))
	}
	if instructions.Detail.Rows[0][0] != "NORDESTE" {
		t.Errorf("detail not sorted by identifier: %v", instructions.Detail.Rows)
	}
}

func TestBind_DetailColumnsAndDerivedValues(t *testing.T) {
	sel, err := application.Select(domain.National, "", sampleDataset(t))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	instructions, err := application.Bind(application.BuildContext(sel, domain.EventInfo{}), sel.Detail)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}

	wantCols := "region_id,sellers,leads,invites_sent,pending,invites_confirmed,invites_declined,no_response"
	if got := strings.Join(instructions.Detail.Columns, ","); got != wantCols {
		t.Errorf("columns = %s\nwant      %s", got, wantCols)
	}

	want := [][]string{
		{"SUDESTE", "4", "450", "230", "220", "140", "50", "40"},
		{"SUL", "2", "150", "70", "80", "45", "15", "10"},
	}
	for i, row := range want {
		if got := strings.Join(instructions.Detail.Rows[i], ","); got != strings.Join(row, ",") {
			t.Errorf("row %d = %s, want %s", i, got, strings.Join(row, ","))
		}
	}
}

func TestBuildContext_DefaultsEventFields(t *testing.T) {
	sel, err := application.Select(domain.National, "", sampleDataset(t))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	ctx := application.BuildContext(sel, domain.EventInfo{})
	for _, p := range []domain.Placeholder{domain.PhEventName, domain.PhStartDate, domain.PhEndDate} {
		if ctx[p] != "N/A" {
			t.Errorf("%s = %q, want N/A", p, ctx[p])
		}
	}
}

func TestBind_SortsByIdentifier(t *testing.T) {
	table, err := pipelinedomain.NewTable(pipelinedomain.LevelBrand, []pipelinedomain.Row{
		{Keys: []string{"RAM"}},
		{Keys: []string{"FIAT"}},
		{Keys: []string{"JEEP"}},
	})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	instructions, err := application.Bind(domain.Context{}, table)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	var got []string
	for _, r := range instructions.Detail.Rows {
		got = append(got, r[0])
	}
	if strings.Join(got, ",") != "FIAT,JEEP,RAM" {
		t.Errorf("order = %v", got)
	}
}

func TestBind_MissingIdentifierColumn(t *testing.T) {
	data := sampleDataset(t)
	national, err := data.Table(pipelinedomain.LevelNational)
	if err != nil {
		t.Fatalf("Table: %v", err)
	}

	_, err = application.Bind(domain.Context{}, national)
	var missing *pipelinedomain.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingColumnError, got %v", err)
	}
	if missing.Table != "national" || missing.Columns[0] != application.ColIdentifier {
		t.Errorf("MissingColumnError = %+v", missing)
	}
}

func TestBind_EmptyDetail(t *testing.T) {
	empty, err := pipelinedomain.NewTable(pipelinedomain.LevelOutlet, nil)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	instructions, err := application.Bind(domain.Context{}, empty)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if len(instructions.Detail.Rows) != 0 {
		t.Errorf("rows = %d, want 0", len(instructions.Detail.Rows))
	}
}
