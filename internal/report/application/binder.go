package application

import (
	"sort"
	"strconv"

	pipelinedomain "cockpit/internal/pipeline/domain"
	"cockpit/internal/report/domain"
)

// Colonnes dérivées de la table de détail
const (
	ColPending    = "pending"
	ColNoResponse = "no_response"
	ColIdentifier = "identifier"
)

const notAvailable = "N/A"

// detailColumns colonnes de la table de détail, dans l'ordre de rendu
// La première entrée est remplacée par la colonne clé de la table source.
var detailColumns = []string{
	ColIdentifier,
	pipelinedomain.MetricSellers.Column(),
	pipelinedomain.MetricLeads.Column(),
	pipelinedomain.MetricInvitesSent.Column(),
	ColPending,
	pipelinedomain.MetricInvitesConfirmed.Column(),
	pipelinedomain.MetricInvitesDeclined.Column(),
	ColNoResponse,
}

// BuildContext assemble les valeurs calculées et les points de substitution structurels
func BuildContext(sel *domain.Selection, event domain.EventInfo) domain.Context {
	ctx := domain.Context{
		domain.PhEventName:     orNotAvailable(event.Name),
		domain.PhStartDate:     orNotAvailable(event.StartDate),
		domain.PhEndDate:       orNotAvailable(event.EndDate),
		domain.PhViewTitle:     sel.Title,
		domain.PhCategoryLabel: sel.Category,
	}
	return ctx.Merge(domain.ComputeHeadline(sel.Headline))
}

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// columnValue extrait une valeur d'une ligne
type columnValue func(row pipelinedomain.Row) string

// Bind produit les instructions de rendu: contexte et table de détail transformée
//
// La table de détail reçoit les colonnes dérivées pending et no_response, est
// réduite aux colonnes de rendu puis triée par identifiant croissant.
func Bind(ctx domain.Context, detail *pipelinedomain.Table) (*domain.RenderInstructions, error) {
	table, err := transformDetail(detail)
	if err != nil {
		return nil, err
	}
	return &domain.RenderInstructions{Placeholders: ctx, Detail: table}, nil
}

func transformDetail(detail *pipelinedomain.Table) (*domain.DetailTable, error) {
	resolved, columns, err := resolveColumns(detail)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, detail.Len())
	for i := 0; i < detail.Len(); i++ {
		row := detail.Row(i)
		out := make([]string, len(resolved))
		for j, get := range resolved {
			out[j] = get(row)
		}
		rows[i] = out
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	return &domain.DetailTable{Source: detail.Name(), Columns: columns, Rows: rows}, nil
}

// resolveColumns associe chaque colonne de rendu à un accesseur
func resolveColumns(detail *pipelinedomain.Table) ([]columnValue, []string, error) {
	var missing []string
	resolved := make([]columnValue, 0, len(detailColumns))
	columns := make([]string, 0, len(detailColumns))

	for _, name := range detailColumns {
		column := name
		if name == ColIdentifier {
			column = detail.Level().KeyColumn()
			if column == "" {
				missing = append(missing, ColIdentifier)
				continue
			}
		}
		get, ok := lookupColumn(detail, column)
		if !ok {
			missing = append(missing, column)
			continue
		}
		resolved = append(resolved, get)
		columns = append(columns, column)
	}

	if len(missing) > 0 {
		return nil, nil, &pipelinedomain.MissingColumnError{Table: detail.Name(), Columns: missing}
	}
	return resolved, columns, nil
}

func lookupColumn(detail *pipelinedomain.Table, column string) (columnValue, bool) {
	switch column {
	case ColPending:
		return func(r pipelinedomain.Row) string {
			return itoa(r.Metrics.Get(pipelinedomain.MetricLeads) - r.Metrics.Get(pipelinedomain.MetricInvitesSent))
		}, true
	case ColNoResponse:
		return func(r pipelinedomain.Row) string {
			return itoa(r.Metrics.Get(pipelinedomain.MetricInvitesSent) -
				r.Metrics.Get(pipelinedomain.MetricInvitesConfirmed) -
				r.Metrics.Get(pipelinedomain.MetricInvitesDeclined))
		}, true
	}

	if m, ok := pipelinedomain.MetricByColumn(column); ok {
		return func(r pipelinedomain.Row) string { return itoa(r.Metrics.Get(m)) }, true
	}
	if idx, err := detail.ColumnIndex(column); err == nil {
		return func(r pipelinedomain.Row) string { return r.Keys[idx] }, true
	}
	return nil, false
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
