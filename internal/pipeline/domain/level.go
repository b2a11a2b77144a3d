package domain

import "fmt"

// Colonnes d'identification des tables
const (
	ColSalesperson  = "salesperson"
	ColRegion       = "region_id"
	ColSector       = "sector_id"
	ColGroup        = "group_name"
	ColBrand        = "brand"
	ColOutlet       = "outlet"
	ColProspectorID = "prospector_id"
)

// Level niveau d'agrégation d'une table staging
type Level int

const (
	LevelSalesperson Level = iota
	LevelOutlet
	LevelRegion
	LevelGroup
	LevelBrand
	LevelSector
	LevelNational
)

type levelSpec struct {
	name string
	keys []string
}

// Table de correspondance explicite niveau -> nom de table et colonnes d'identification
var levelSpecs = map[Level]levelSpec{
	LevelSalesperson: {
		name: "salesperson",
		keys: []string{ColSalesperson, ColRegion, ColSector, ColGroup, ColBrand, ColOutlet, ColProspectorID},
	},
	LevelOutlet: {
		name: "outlet",
		keys: []string{ColOutlet, ColRegion, ColSector, ColGroup, ColBrand},
	},
	LevelRegion:   {name: "region", keys: []string{ColRegion}},
	LevelGroup:    {name: "group", keys: []string{ColGroup}},
	LevelBrand:    {name: "brand", keys: []string{ColBrand}},
	LevelSector:   {name: "sector", keys: []string{ColSector}},
	LevelNational: {name: "national"},
}

// AllLevels retourne les niveaux dans l'ordre d'écriture
func AllLevels() []Level {
	return []Level{LevelSalesperson, LevelOutlet, LevelRegion, LevelGroup, LevelBrand, LevelSector, LevelNational}
}

// LevelByName retrouve un niveau à partir du nom de sa table
func LevelByName(name string) (Level, bool) {
	for level, spec := range levelSpecs {
		if spec.name == name {
			return level, true
		}
	}
	return 0, false
}

// Valid indique si le niveau fait partie de l'énumération
func (l Level) Valid() bool {
	_, ok := levelSpecs[l]
	return ok
}

// Name retourne le nom de la table staging
func (l Level) Name() string {
	if spec, ok := levelSpecs[l]; ok {
		return spec.name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// String implémente fmt.Stringer
func (l Level) String() string {
	return l.Name()
}

// KeyColumns retourne les colonnes d'identification, colonne clé en premier
func (l Level) KeyColumns() []string {
	keys := levelSpecs[l].keys
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// KeyColumn retourne la colonne clé, vide pour le niveau national
func (l Level) KeyColumn() string {
	keys := levelSpecs[l].keys
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// Columns retourne toutes les colonnes: identification puis métriques
func (l Level) Columns() []string {
	return append(l.KeyColumns(), MetricColumns()...)
}
