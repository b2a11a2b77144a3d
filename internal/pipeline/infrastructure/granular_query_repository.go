package infrastructure

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/lib/pq"

	"cockpit/internal/pipeline/domain"
	sharedinfra "cockpit/internal/shared/infrastructure"
	shareddomain "cockpit/internal/shared/domain"
)

//go:embed granular_query.sql.tmpl
var defaultGranularQuery string

// QueryParams paramètres d'une extraction
type QueryParams struct {
	EventSchema     string
	ReferenceSchema string
	Period          shareddomain.DateRange
}

// GranularQueryRepository repository pour l'extraction des enregistrements granulaires
type GranularQueryRepository struct {
	sharedinfra.BaseRepository
	tmpl *template.Template
}

// NewGranularQueryRepository crée le repository; queryText vide -> requête embarquée
func NewGranularQueryRepository(db *sql.DB, queryText string) (*GranularQueryRepository, error) {
	if strings.TrimSpace(queryText) == "" {
		queryText = defaultGranularQuery
	}
	tmpl, err := template.New("granular").Option("missingkey=error").Parse(queryText)
	if err != nil {
		return nil, fmt.Errorf("parse query template: %w", err)
	}
	return &GranularQueryRepository{
		BaseRepository: sharedinfra.NewBaseRepository(db),
		tmpl:           tmpl,
	}, nil
}

// RenderQuery substitue les identifiants de schéma, quotés
// Les dates restent des paramètres liés ($1, $2).
func (r *GranularQueryRepository) RenderQuery(p QueryParams) (string, error) {
	if strings.TrimSpace(p.EventSchema) == "" {
		return "", fmt.Errorf("event schema is required")
	}
	if strings.TrimSpace(p.ReferenceSchema) == "" {
		return "", fmt.Errorf("reference schema is required")
	}

	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, map[string]string{
		"EventSchema":     pq.QuoteIdentifier(p.EventSchema),
		"ReferenceSchema": pq.QuoteIdentifier(p.ReferenceSchema),
	})
	if err != nil {
		return "", fmt.Errorf("render query: %w", err)
	}
	return buf.String(), nil
}

// FetchGranular exécute l'extraction et retourne une ligne par vendeur
func (r *GranularQueryRepository) FetchGranular(ctx context.Context, p QueryParams) ([]domain.GranularRecord, error) {
	query, err := r.RenderQuery(p)
	if err != nil {
		return nil, err
	}

	rows, err := r.Query(ctx, query, p.Period.StartISO(), p.Period.EndISO())
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", p.EventSchema, err)
	}
	defer rows.Close()

	var records []domain.GranularRecord
	for rows.Next() {
		rec, err := scanGranular(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// rowScanner abstraction de *sql.Rows pour le scan
type rowScanner interface {
	Scan(dest ...any) error
}

// scanGranular lit une ligne: NULL -> "" pour les identifiants, NULL -> 0 pour les compteurs
func scanGranular(rs rowScanner) (domain.GranularRecord, error) {
	var keys [7]sql.NullString
	var metrics [10]sql.NullInt64

	dest := make([]any, 0, len(keys)+len(metrics))
	for i := range keys {
		dest = append(dest, &keys[i])
	}
	for i := range metrics {
		dest = append(dest, &metrics[i])
	}
	if err := rs.Scan(dest...); err != nil {
		return domain.GranularRecord{}, fmt.Errorf("scan granular row: %w", err)
	}

	rec := domain.GranularRecord{
		RegionID:     keys[0].String,
		SectorID:     keys[1].String,
		Group:        keys[2].String,
		Brand:        keys[3].String,
		Outlet:       keys[4].String,
		ProspectorID: keys[5].String,
		Salesperson:  keys[6].String,
	}
	for i, m := range metrics {
		rec.Metrics[i] = m.Int64
	}
	if err := rec.Metrics.Validate(); err != nil {
		return domain.GranularRecord{}, fmt.Errorf("salesperson %q: %w", rec.Salesperson, err)
	}
	return rec, nil
}
