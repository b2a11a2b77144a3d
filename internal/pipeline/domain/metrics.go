package domain

import "fmt"

// ============================================================================
// MÉTRIQUES - Ensemble fermé et ordonné
// ============================================================================

// Metric identifie une métrique de performance d'un événement
type Metric int

const (
	MetricSellers Metric = iota
	MetricLeads
	MetricLeadsViewed
	MetricInvitesSent
	MetricInvitesPending
	MetricInvitesDeclined
	MetricInvitesConfirmed
	MetricAttendance
	MetricTestDrives
	MetricSales

	metricCount
)

// L'ordre de ce tableau est l'ordre des colonnes dans les tables staging
var metricColumns = [metricCount]string{
	"sellers",
	"leads",
	"leads_viewed",
	"invites_sent",
	"invites_pending",
	"invites_declined",
	"invites_confirmed",
	"attendance",
	"test_drives",
	"sales",
}

// Column retourne le nom de colonne de la métrique
func (m Metric) Column() string {
	if m < 0 || m >= metricCount {
		return fmt.Sprintf("metric(%d)", int(m))
	}
	return metricColumns[m]
}

// String implémente fmt.Stringer
func (m Metric) String() string {
	return m.Column()
}

// AllMetrics retourne les métriques dans l'ordre fixe
func AllMetrics() []Metric {
	out := make([]Metric, metricCount)
	for i := range out {
		out[i] = Metric(i)
	}
	return out
}

// MetricColumns retourne les noms de colonnes dans l'ordre fixe
func MetricColumns() []string {
	out := make([]string, metricCount)
	copy(out, metricColumns[:])
	return out
}

// MetricByColumn retrouve une métrique à partir de son nom de colonne
func MetricByColumn(column string) (Metric, bool) {
	for i, c := range metricColumns {
		if c == column {
			return Metric(i), true
		}
	}
	return 0, false
}

// Metrics vecteur des dix compteurs, indexé par Metric
type Metrics [metricCount]int64

// Add retourne la somme élément par élément
func (m Metrics) Add(other Metrics) Metrics {
	for i := range m {
		m[i] += other[i]
	}
	return m
}

// Get retourne la valeur d'une métrique
func (m Metrics) Get(metric Metric) int64 {
	return m[metric]
}

// Validate vérifie qu'aucun compteur n'est négatif
func (m Metrics) Validate() error {
	for i, v := range m {
		if v < 0 {
			return fmt.Errorf("metric %s: negative value %d", Metric(i), v)
		}
	}
	return nil
}
