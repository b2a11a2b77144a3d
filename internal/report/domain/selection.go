package domain

import (
	pipelinedomain "cockpit/internal/pipeline/domain"
)

// Libellés de catégorie de la table de détail
const (
	CategoryRegion      = "Region"
	CategorySector      = "Sector"
	CategoryOutlet      = "Outlet"
	CategorySalesperson = "Salesperson"
)

// Selection résultat du sélecteur: ligne d'en-tête, table de détail et titres
type Selection struct {
	Type     ReportType
	Filter   string
	Title    string
	Category string
	Headline pipelinedomain.Metrics
	Detail   *pipelinedomain.Table
}

// EventInfo métadonnées de l'événement affichées dans le document
type EventInfo struct {
	Name      string
	StartDate string
	EndDate   string
}

// DetailTable table de détail prête pour le rendu
type DetailTable struct {
	Source  string
	Columns []string
	Rows    [][]string
}

// RenderInstructions tout ce dont le moteur de rendu a besoin
type RenderInstructions struct {
	Placeholders Context
	Detail       *DetailTable
}
