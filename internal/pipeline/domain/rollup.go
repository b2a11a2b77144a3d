package domain

import "sort"

// Rollups les sept tables produites par une agrégation
type Rollups struct {
	Base     *Table
	ByOutlet *Table
	ByRegion *Table
	ByGroup  *Table
	ByBrand  *Table
	BySector *Table
	National *Table
}

// Tables retourne les tables dans l'ordre des niveaux
func (r *Rollups) Tables() []*Table {
	return []*Table{r.Base, r.ByOutlet, r.ByRegion, r.ByGroup, r.ByBrand, r.BySector, r.National}
}

// Dataset expose les rollups comme un dataset complet
func (r *Rollups) Dataset() *Dataset {
	return NewDataset(r.Tables()...)
}

// Aggregate construit les tables de synthèse à partir des enregistrements granulaires
//
// Les niveaux région, groupe, marque et secteur sont dérivés de la table outlet,
// le niveau national de la table de base. Les totaux sont conservés à chaque niveau.
func Aggregate(records []GranularRecord) (*Rollups, error) {
	if len(records) == 0 {
		return nil, &EmptyResultError{Source: "granular records"}
	}

	baseRows := make([]Row, len(records))
	for i, rec := range records {
		baseRows[i] = rec.Row()
	}
	base, err := NewTable(LevelSalesperson, baseRows)
	if err != nil {
		return nil, err
	}

	byOutlet, err := NewTable(LevelOutlet, groupByOutlet(records))
	if err != nil {
		return nil, err
	}

	rollups := &Rollups{Base: base, ByOutlet: byOutlet}

	derived := []struct {
		level  Level
		target **Table
	}{
		{LevelRegion, &rollups.ByRegion},
		{LevelGroup, &rollups.ByGroup},
		{LevelBrand, &rollups.ByBrand},
		{LevelSector, &rollups.BySector},
	}
	for _, d := range derived {
		t, err := rollUp(byOutlet, d.level)
		if err != nil {
			return nil, err
		}
		*d.target = t
	}

	national, err := NewTable(LevelNational, []Row{{Keys: []string{}, Metrics: base.Totals()}})
	if err != nil {
		return nil, err
	}
	rollups.National = national

	return rollups, nil
}

// groupByOutlet regroupe les vendeurs par point de vente, clés triées
func groupByOutlet(records []GranularRecord) []Row {
	sums := make(map[OutletKey]Metrics)
	for _, rec := range records {
		k := rec.OutletKey()
		sums[k] = sums[k].Add(rec.Metrics)
	}

	keys := make([]OutletKey, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	rows := make([]Row, len(keys))
	for i, k := range keys {
		rows[i] = k.Row(sums[k])
	}
	return rows
}

// rollUp agrège la table source sur la colonne clé du niveau cible
func rollUp(source *Table, level Level) (*Table, error) {
	column := level.KeyColumn()
	idx, err := source.ColumnIndex(column)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]Metrics)
	for _, r := range source.rows {
		v := r.Keys[idx]
		sums[v] = sums[v].Add(r.Metrics)
	}

	values := make([]string, 0, len(sums))
	for v := range sums {
		values = append(values, v)
	}
	sort.Strings(values)

	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = Row{Keys: []string{v}, Metrics: sums[v]}
	}
	return NewTable(level, rows)
}
