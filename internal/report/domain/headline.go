package domain

import (
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	pipelinedomain "cockpit/internal/pipeline/domain"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// SafeDivision retourne 0 quand le dénominateur est nul
func SafeDivision(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// Percentage taux en pourcentage, 0 si le dénominateur est nul
func Percentage(numerator, denominator int64) float64 {
	return SafeDivision(float64(numerator), float64(denominator)) * 100
}

// FormatCount formate un entier avec le séparateur de milliers pt-BR: 1.000
func FormatCount(n int64) string {
	return ptBR.Sprintf("%d", n)
}

// FormatPercent formate un pourcentage à deux décimales, virgule décimale: 80,00
// L'arrondi porte sur la valeur binaire exacte, au pair en cas d'égalité: 0,125 -> 0,12.
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		p = 0
	}
	// 64 décimales suffisent à écrire exactement tout float64 >= 0,005
	exact := decimal.RequireFromString(new(big.Float).SetFloat64(p).Text('f', 64))
	return strings.Replace(exact.StringFixedBank(2), ".", ",", 1)
}

// Headline valeurs dérivées de la ligne d'en-tête
type Headline struct {
	Metrics    pipelinedomain.Metrics
	NotViewed  int64
	NotYetSent int64
	Pending    int64
	NoResponse int64
}

// NewHeadline calcule les compteurs dérivés
func NewHeadline(m pipelinedomain.Metrics) Headline {
	leads := m.Get(pipelinedomain.MetricLeads)
	sent := m.Get(pipelinedomain.MetricInvitesSent)
	return Headline{
		Metrics:    m,
		NotViewed:  leads - m.Get(pipelinedomain.MetricLeadsViewed),
		NotYetSent: leads - sent,
		Pending:    leads - sent,
		NoResponse: sent - m.Get(pipelinedomain.MetricInvitesConfirmed) - m.Get(pipelinedomain.MetricInvitesDeclined),
	}
}

// ComputeHeadline produit les totaux et taux formatés de la ligne d'en-tête
func ComputeHeadline(m pipelinedomain.Metrics) Context {
	h := NewHeadline(m)
	sent := m.Get(pipelinedomain.MetricInvitesSent)
	confirmed := m.Get(pipelinedomain.MetricInvitesConfirmed)
	attendance := m.Get(pipelinedomain.MetricAttendance)
	testDrives := m.Get(pipelinedomain.MetricTestDrives)
	sales := m.Get(pipelinedomain.MetricSales)

	return Context{
		PhLeads:       FormatCount(m.Get(pipelinedomain.MetricLeads)),
		PhNotViewed:   FormatCount(h.NotViewed),
		PhInvitesSent: FormatCount(sent),
		PhNotYetSent:  FormatCount(h.NotYetSent),
		PhPending:     FormatCount(h.Pending),
		PhConfirmed:   FormatCount(confirmed),
		PhDeclined:    FormatCount(m.Get(pipelinedomain.MetricInvitesDeclined)),
		PhNoResponse:  FormatCount(h.NoResponse),
		PhSellers:     FormatCount(m.Get(pipelinedomain.MetricSellers)),
		PhAttendance:  FormatCount(attendance),
		PhTestDrives:  FormatCount(testDrives),
		PhSales:       FormatCount(sales),

		PhSentToConfirmed:       FormatPercent(Percentage(confirmed, sent)),
		PhConfirmedToAttendance: FormatPercent(Percentage(attendance, confirmed)),
		PhAttendanceToTestDrive: FormatPercent(Percentage(testDrives, attendance)),
		PhAttendanceToSale:      FormatPercent(Percentage(sales, attendance)),
		PhTestDriveToSale:       FormatPercent(Percentage(sales, testDrives)),
	}
}
