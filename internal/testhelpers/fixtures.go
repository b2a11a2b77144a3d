package testhelpers

import (
	pipelinedomain "cockpit/internal/pipeline/domain"
)

// NewMetrics construit un vecteur de métriques dans l'ordre fixe
func NewMetrics(sellers, leads, viewed, sent, pending, declined, confirmed, attendance, testDrives, sales int64) pipelinedomain.Metrics {
	var m pipelinedomain.Metrics
	m[pipelinedomain.MetricSellers] = sellers
	m[pipelinedomain.MetricLeads] = leads
	m[pipelinedomain.MetricLeadsViewed] = viewed
	m[pipelinedomain.MetricInvitesSent] = sent
	m[pipelinedomain.MetricInvitesPending] = pending
	m[pipelinedomain.MetricInvitesDeclined] = declined
	m[pipelinedomain.MetricInvitesConfirmed] = confirmed
	m[pipelinedomain.MetricAttendance] = attendance
	m[pipelinedomain.MetricTestDrives] = testDrives
	m[pipelinedomain.MetricSales] = sales
	return m
}

// SampleRecords jeu d'enregistrements granulaires partagé par les tests
//
//	SUDESTE: 3 points de vente répartis sur 2 secteurs (S01, S02)
//	SUL:     1 point de vente (S03)
func SampleRecords() []pipelinedomain.GranularRecord {
	return []pipelinedomain.GranularRecord{
		{RegionID: "SUDESTE", SectorID: "S01", Group: "G1", Brand: "FIAT", Outlet: "Auto Paulista", ProspectorID: "101", Salesperson: "Ana Souza",
			Metrics: NewMetrics(1, 120, 100, 60, 10, 10, 40, 30, 12, 5)},
		{RegionID: "SUDESTE", SectorID: "S01", Group: "G1", Brand: "FIAT", Outlet: "Auto Paulista", ProspectorID: "102", Salesperson: "Bruno Lima",
			Metrics: NewMetrics(1, 80, 70, 50, 5, 15, 30, 20, 8, 3)},
		{RegionID: "SUDESTE", SectorID: "S02", Group: "G2", Brand: "JEEP", Outlet: "Rio Motors", ProspectorID: "201", Salesperson: "Carla Dias",
			Metrics: NewMetrics(1, 200, 150, 100, 20, 20, 60, 45, 20, 9)},
		{RegionID: "SUDESTE", SectorID: "S01", Group: "G1", Brand: "JEEP", Outlet: "Minas Car", ProspectorID: "301", Salesperson: "Diego Alves",
			Metrics: NewMetrics(1, 50, 40, 20, 5, 5, 10, 8, 4, 1)},
		{RegionID: "SUL", SectorID: "S03", Group: "G2", Brand: "FIAT", Outlet: "Gaucha Veiculos", ProspectorID: "401", Salesperson: "Elisa Rocha",
			Metrics: NewMetrics(1, 90, 60, 45, 5, 10, 30, 25, 10, 4)},
		{RegionID: "SUL", SectorID: "S03", Group: "G2", Brand: "FIAT", Outlet: "Gaucha Veiculos", ProspectorID: "402", Salesperson: "Fabio Nunes",
			Metrics: NewMetrics(1, 60, 30, 25, 5, 5, 15, 12, 6, 2)},
	}
}

// SampleDataset agrège SampleRecords en dataset complet
func SampleDataset() (*pipelinedomain.Dataset, error) {
	rollups, err := pipelinedomain.Aggregate(SampleRecords())
	if err != nil {
		return nil, err
	}
	return rollups.Dataset(), nil
}
