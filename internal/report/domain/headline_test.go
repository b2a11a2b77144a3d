package domain

import (
	"testing"

	pipelinedomain "cockpit/internal/pipeline/domain"
)

func headlineMetrics() pipelinedomain.Metrics {
	var m pipelinedomain.Metrics
	m[pipelinedomain.MetricSellers] = 50
	m[pipelinedomain.MetricLeads] = 1000
	m[pipelinedomain.MetricLeadsViewed] = 800
	m[pipelinedomain.MetricInvitesSent] = 500
	m[pipelinedomain.MetricInvitesDeclined] = 100
	m[pipelinedomain.MetricInvitesConfirmed] = 100
	m[pipelinedomain.MetricAttendance] = 80
	m[pipelinedomain.MetricTestDrives] = 40
	m[pipelinedomain.MetricSales] = 20
	return m
}

func TestSafeDivision(t *testing.T) {
	tests := []struct {
		name string
		n, d float64
		want float64
	}{
		{"zero denominator", 10, 0, 0},
		{"zero over zero", 0, 0, 0},
		{"regular", 10, 2, 5},
		{"fraction", 1, 4, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeDivision(tt.n, tt.d); got != tt.want {
				t.Errorf("SafeDivision(%v, %v) = %v, want %v", tt.n, tt.d, got, tt.want)
			}
		})
	}
}

func TestComputeHeadline(t *testing.T) {
	ctx := ComputeHeadline(headlineMetrics())

	want := map[Placeholder]string{
		PhLeads:                 "1.000",
		PhNotViewed:             "200",
		PhInvitesSent:           "500",
		PhNotYetSent:            "500",
		PhPending:               "500",
		PhConfirmed:             "100",
		PhDeclined:              "100",
		PhNoResponse:            "300",
		PhSellers:               "50",
		PhAttendance:            "80",
		PhTestDrives:            "40",
		PhSales:                 "20",
		PhSentToConfirmed:       "20,00",
		PhConfirmedToAttendance: "80,00",
		PhAttendanceToTestDrive: "50,00",
		PhAttendanceToSale:      "25,00",
		PhTestDriveToSale:       "50,00",
	}

	for k, v := range want {
		if got := ctx[k]; got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if len(ctx) != len(want) {
		t.Errorf("context has %d entries, want %d", len(ctx), len(want))
	}
}

func TestComputeHeadline_ZeroDenominators(t *testing.T) {
	ctx := ComputeHeadline(pipelinedomain.Metrics{})
	for _, p := range []Placeholder{PhSentToConfirmed, PhConfirmedToAttendance, PhAttendanceToTestDrive, PhAttendanceToSale, PhTestDriveToSale} {
		if ctx[p] != "0,00" {
			t.Errorf("%s = %q, want 0,00", p, ctx[p])
		}
	}
	if ctx[PhLeads] != "0" {
		t.Errorf("leads = %q, want 0", ctx[PhLeads])
	}
}

func TestFormat(t *testing.T) {
	if got := FormatCount(1234567); got != "1.234.567" {
		t.Errorf("FormatCount = %q", got)
	}
	if got := FormatPercent(33.3333); got != "33,33" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercent(12.5); got != "12,50" {
		t.Errorf("FormatPercent = %q", got)
	}
}

func TestFormatPercent_Rounding(t *testing.T) {
	tests := []struct {
		p    float64
		want string
	}{
		{Percentage(1, 800), "0,12"},
		{Percentage(3, 800), "0,38"},
		{0.155, "0,15"},
		{0.135, "0,14"},
		{2.675, "2,67"},
		{Percentage(1, 5), "20,00"},
		{Percentage(0, 0), "0,00"},
		{100, "100,00"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.p); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		typ    ReportType
		filter string
		want   string
	}{
		{National, "", "National"},
		{Regional, "SUDESTE", "Regional - SUDESTE"},
		{Regional, "", "Regional (Cumulative)"},
		{BySector, "S01", "Sector - S01"},
		{ByGroup, "", "Group (Cumulative)"},
		{ByBrand, "FIAT", "Brand - FIAT"},
		{ByOutlet, "Rio Motors", "Outlet - Rio Motors"},
	}
	for _, tt := range tests {
		if got := Title(tt.typ, tt.filter); got != tt.want {
			t.Errorf("Title(%v, %q) = %q, want %q", tt.typ, tt.filter, got, tt.want)
		}
	}
}

func TestParseReportType(t *testing.T) {
	for _, rt := range ReportTypes() {
		got, err := ParseReportType(rt.Key())
		if err != nil || got != rt {
			t.Errorf("ParseReportType(%q) = %v, %v", rt.Key(), got, err)
		}
	}
	if _, err := ParseReportType("continental"); err == nil {
		t.Error("expected error for unknown type")
	}
	if BySector.Rollup() != pipelinedomain.LevelSector {
		t.Errorf("BySector rollup = %v", BySector.Rollup())
	}
}

func TestPlaceholderToken(t *testing.T) {
	if PhEventName.Token() != "{{nome_evento}}" {
		t.Errorf("Token = %q", PhEventName.Token())
	}
}
