package domain

import (
	"context"
	"time"

	pipelinedomain "cockpit/internal/pipeline/domain"
)

// Format format de stockage de la zone staging
type Format string

const (
	FormatCSV     Format = "csv"
	FormatSQLite  Format = "sqlite"
	FormatParquet Format = "parquet"
)

// Manifest décrit le dernier passage ETL écrit dans la zone staging
type Manifest struct {
	RunID       string         `yaml:"run_id"`
	GeneratedAt time.Time      `yaml:"generated_at"`
	Format      Format         `yaml:"format"`
	EventSource string         `yaml:"event_source"`
	EventName   string         `yaml:"event_name"`
	StartDate   string         `yaml:"start_date"`
	EndDate     string         `yaml:"end_date"`
	Rows        map[string]int `yaml:"rows"`
}

// Store zone staging: écriture des sept tables puis relecture par le reporting
// Save écrase le contenu précédent, aucune fusion.
type Store interface {
	Save(ctx context.Context, tables []*pipelinedomain.Table, manifest Manifest) error
	Load(ctx context.Context) (*pipelinedomain.Dataset, error)
	Manifest(ctx context.Context) (Manifest, error)
}

// RowCounts calcule le nombre de lignes par table
func RowCounts(tables []*pipelinedomain.Table) map[string]int {
	counts := make(map[string]int, len(tables))
	for _, t := range tables {
		counts[t.Name()] = t.Len()
	}
	return counts
}
