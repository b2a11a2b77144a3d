package infrastructure

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cockpit/internal/catalog/domain"
	shareddomain "cockpit/internal/shared/domain"
)

// Colonnes obligatoires du fichier de correspondance des événements
var requiredColumns = []string{"db_name", "event_name", "start_date", "end_date"}

// eventEntry forme brute d'une ligne du catalogue
type eventEntry struct {
	DBName    string `yaml:"db_name"`
	EventName string `yaml:"event_name"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
}

// EventCatalogRepository lit le catalogue d'événements depuis un fichier CSV ou YAML
type EventCatalogRepository struct {
	path string
}

// NewEventCatalogRepository crée une nouvelle instance de EventCatalogRepository
func NewEventCatalogRepository(path string) *EventCatalogRepository {
	return &EventCatalogRepository{path: path}
}

// Load lit et valide le catalogue
func (r *EventCatalogRepository) Load() (*domain.Catalog, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open event catalog: %w", err)
	}
	defer f.Close()

	var entries []eventEntry
	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".yaml", ".yml":
		entries, err = decodeYAML(f)
	case ".csv":
		entries, err = decodeCSV(f)
	default:
		return nil, fmt.Errorf("unsupported event catalog format %q", filepath.Ext(r.path))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: event catalog is empty", r.path)
	}

	events := make([]*domain.Event, 0, len(entries))
	for i, e := range entries {
		period, err := shareddomain.ParseDateRange(e.StartDate, e.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%s entry %d (%s): %w", r.path, i+1, e.EventName, err)
		}
		event, err := domain.NewEvent(e.DBName, e.EventName, period)
		if err != nil {
			return nil, fmt.Errorf("%s entry %d: %w", r.path, i+1, err)
		}
		events = append(events, event)
	}
	return domain.NewCatalog(events)
}

func decodeYAML(r io.Reader) ([]eventEntry, error) {
	var doc struct {
		Events []eventEntry `yaml:"events"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return doc.Events, nil
}

func decodeCSV(r io.Reader) ([]eventEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := pos[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var entries []eventEntry
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		get := func(col string) string {
			if p := pos[col]; p < len(rec) {
				return strings.TrimSpace(rec[p])
			}
			return ""
		}
		entries = append(entries, eventEntry{
			DBName:    get("db_name"),
			EventName: get("event_name"),
			StartDate: get("start_date"),
			EndDate:   get("end_date"),
		})
	}
	return entries, nil
}
