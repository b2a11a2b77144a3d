package domain

import (
	"fmt"
	"sort"
)

// Row une ligne de table: valeurs d'identification alignées sur Level.KeyColumns
type Row struct {
	Keys    []string
	Metrics Metrics
}

// Table table staging d'un niveau d'agrégation
// DESIGN PATTERN: Value Object, les lignes ne sont exposées qu'en copie
type Table struct {
	level Level
	rows  []Row
}

// NewTable crée une table en vérifiant la forme de chaque ligne
func NewTable(level Level, rows []Row) (*Table, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("invalid level %d", int(level))
	}
	width := len(level.KeyColumns())
	for i, r := range rows {
		if len(r.Keys) != width {
			return nil, fmt.Errorf("table %s row %d: expected %d key values, got %d", level, i, width, len(r.Keys))
		}
		if err := r.Metrics.Validate(); err != nil {
			return nil, fmt.Errorf("table %s row %d: %w", level, i, err)
		}
	}
	return &Table{level: level, rows: rows}, nil
}

// Level retourne le niveau de la table
func (t *Table) Level() Level {
	return t.level
}

// Name retourne le nom de la table staging
func (t *Table) Name() string {
	return t.level.Name()
}

// Len retourne le nombre de lignes
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows retourne une copie des lignes
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		keys := make([]string, len(r.Keys))
		copy(keys, r.Keys)
		out[i] = Row{Keys: keys, Metrics: r.Metrics}
	}
	return out
}

// Row retourne la i-ème ligne sans copie
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// ColumnIndex position d'une colonne d'identification
func (t *Table) ColumnIndex(column string) (int, error) {
	for i, c := range t.level.KeyColumns() {
		if c == column {
			return i, nil
		}
	}
	return -1, &MissingColumnError{Table: t.Name(), Columns: []string{column}}
}

// Where retourne une nouvelle table restreinte aux lignes dont la colonne vérifie pred
func (t *Table) Where(column string, pred func(string) bool) (*Table, error) {
	idx, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	var rows []Row
	for _, r := range t.rows {
		if pred(r.Keys[idx]) {
			rows = append(rows, r)
		}
	}
	return &Table{level: t.level, rows: rows}, nil
}

// Equal filtre sur égalité exacte
func (t *Table) Equal(column, value string) (*Table, error) {
	return t.Where(column, func(v string) bool { return v == value })
}

// Distinct retourne les valeurs distinctes d'une colonne, triées
func (t *Table) Distinct(column string) ([]string, error) {
	idx, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(t.rows))
	values := make([]string, 0, len(t.rows))
	for _, r := range t.rows {
		v := r.Keys[idx]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// Totals somme des métriques de toutes les lignes
func (t *Table) Totals() Metrics {
	var total Metrics
	for _, r := range t.rows {
		total = total.Add(r.Metrics)
	}
	return total
}

// Dataset ensemble des tables staging disponibles
type Dataset struct {
	tables map[Level]*Table
}

// NewDataset crée un dataset à partir d'une liste de tables
func NewDataset(tables ...*Table) *Dataset {
	d := &Dataset{tables: make(map[Level]*Table, len(tables))}
	for _, t := range tables {
		d.Put(t)
	}
	return d
}

// Put ajoute ou remplace une table
func (d *Dataset) Put(t *Table) {
	if t == nil {
		return
	}
	d.tables[t.Level()] = t
}

// Has indique si le niveau est présent
func (d *Dataset) Has(level Level) bool {
	_, ok := d.tables[level]
	return ok
}

// Table retourne la table d'un niveau ou une MissingDataError
func (d *Dataset) Table(level Level) (*Table, error) {
	t, ok := d.tables[level]
	if !ok {
		return nil, &MissingDataError{Table: level.Name()}
	}
	return t, nil
}

// Len nombre de tables présentes
func (d *Dataset) Len() int {
	return len(d.tables)
}

// Tables retourne les tables présentes dans l'ordre des niveaux
func (d *Dataset) Tables() []*Table {
	out := make([]*Table, 0, len(d.tables))
	for _, level := range AllLevels() {
		if t, ok := d.tables[level]; ok {
			out = append(out, t)
		}
	}
	return out
}
