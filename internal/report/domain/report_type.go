package domain

import (
	"errors"
	"fmt"
	"strings"

	pipelinedomain "cockpit/internal/pipeline/domain"
)

// ErrUnsupportedSelection combinaison type/filtre sans rapport défini
var ErrUnsupportedSelection = errors.New("unsupported report selection")

// ReportType type de rapport demandé
type ReportType int

const (
	National ReportType = iota
	Regional
	BySector
	ByGroup
	ByBrand
	ByOutlet
)

type typeSpec struct {
	key     string
	display string
	entity  string
	rollup  pipelinedomain.Level
}

// Table de correspondance explicite type -> clé CLI, libellés et table de synthèse
var typeSpecs = map[ReportType]typeSpec{
	National: {key: "national", display: "National", entity: "National", rollup: pipelinedomain.LevelNational},
	Regional: {key: "regional", display: "Regional", entity: "Regional", rollup: pipelinedomain.LevelRegion},
	BySector: {key: "sector", display: "By Sector", entity: "Sector", rollup: pipelinedomain.LevelSector},
	ByGroup:  {key: "group", display: "By Group", entity: "Group", rollup: pipelinedomain.LevelGroup},
	ByBrand:  {key: "brand", display: "By Brand", entity: "Brand", rollup: pipelinedomain.LevelBrand},
	ByOutlet: {key: "outlet", display: "By Outlet", entity: "Outlet", rollup: pipelinedomain.LevelOutlet},
}

// ReportTypes retourne les types dans l'ordre du menu
func ReportTypes() []ReportType {
	return []ReportType{National, Regional, BySector, ByGroup, ByBrand, ByOutlet}
}

// ParseReportType retrouve un type à partir de sa clé
func ParseReportType(key string) (ReportType, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, t := range ReportTypes() {
		if typeSpecs[t].key == key {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown report type %q", key)
}

// Valid indique si le type fait partie de l'énumération
func (t ReportType) Valid() bool {
	_, ok := typeSpecs[t]
	return ok
}

// Key clé utilisée en ligne de commande
func (t ReportType) Key() string {
	return typeSpecs[t].key
}

// String libellé d'affichage
func (t ReportType) String() string {
	if spec, ok := typeSpecs[t]; ok {
		return spec.display
	}
	return fmt.Sprintf("ReportType(%d)", int(t))
}

// Entity nom d'entité utilisé dans les titres
func (t ReportType) Entity() string {
	return typeSpecs[t].entity
}

// Rollup table de synthèse du type
func (t ReportType) Rollup() pipelinedomain.Level {
	return typeSpecs[t].rollup
}

// Title construit le titre de la vue
//
//	National            -> "National"
//	avec filtre         -> "{Entity} - {filter}"
//	sans filtre         -> "{Entity} (Cumulative)"
func Title(t ReportType, filter string) string {
	switch {
	case t == National:
		return t.Entity()
	case filter != "":
		return t.Entity() + " - " + filter
	default:
		return t.Entity() + " (Cumulative)"
	}
}
