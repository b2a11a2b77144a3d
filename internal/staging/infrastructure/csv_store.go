package infrastructure

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pipelinedomain "cockpit/internal/pipeline/domain"
	stagingdomain "cockpit/internal/staging/domain"
)

// Marque d'ordre des octets UTF-8, attendue par les tableurs
const utf8BOM = "\ufeff"

// CSVStore zone staging sous forme d'un fichier CSV par table
type CSVStore struct {
	dir string
}

// NewCSVStore crée un store CSV dans le répertoire donné
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

// Dir retourne le répertoire staging
func (s *CSVStore) Dir() string {
	return s.dir
}

func (s *CSVStore) path(level pipelinedomain.Level) string {
	return filepath.Join(s.dir, level.Name()+".csv")
}

// Save écrit chaque table puis le manifeste
func (s *CSVStore) Save(ctx context.Context, tables []*pipelinedomain.Table, manifest stagingdomain.Manifest) error {
	if err := ensureWritableDir(s.dir); err != nil {
		return err
	}

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := encodeCSV(t)
		if err != nil {
			return fmt.Errorf("encode %s: %w", t.Name(), err)
		}
		if err := writeFileAtomic(s.path(t.Level()), data); err != nil {
			return err
		}
	}

	manifest.Format = stagingdomain.FormatCSV
	manifest.Rows = stagingdomain.RowCounts(tables)
	return writeManifest(s.dir, manifest)
}

// Load relit toutes les tables présentes; un fichier absent laisse le niveau absent
func (s *CSVStore) Load(ctx context.Context) (*pipelinedomain.Dataset, error) {
	if err := ensureDir(s.dir); err != nil {
		return nil, err
	}

	dataset := pipelinedomain.NewDataset()
	for _, level := range pipelinedomain.AllLevels() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(s.path(level))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("open %s: %w", level.Name(), err)
		}
		table, err := decodeCSV(level, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		dataset.Put(table)
	}
	return dataset, nil
}

// Manifest retourne le manifeste du dernier passage
func (s *CSVStore) Manifest(ctx context.Context) (stagingdomain.Manifest, error) {
	return readManifest(s.dir)
}

// encodeCSV sérialise une table avec BOM et en-tête
func encodeCSV(t *pipelinedomain.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(t.Level().Columns()); err != nil {
		return nil, err
	}

	keyCount := len(t.Level().KeyColumns())
	record := make([]string, keyCount+len(pipelinedomain.AllMetrics()))
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		copy(record, row.Keys)
		for j, v := range row.Metrics {
			record[keyCount+j] = strconv.FormatInt(v, 10)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeCSV relit une table: en-têtes associés par nom, toutes les colonnes requises
func decodeCSV(level pipelinedomain.Level, r io.Reader) (*pipelinedomain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &pipelinedomain.MissingColumnError{Table: level.Name(), Columns: level.Columns()}
		}
		return nil, fmt.Errorf("read %s header: %w", level.Name(), err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.TrimSpace(h)] = i
	}

	var missing []string
	keyPos := make([]int, 0, len(level.KeyColumns()))
	for _, c := range level.KeyColumns() {
		p, ok := positions[c]
		if !ok {
			missing = append(missing, c)
		}
		keyPos = append(keyPos, p)
	}
	metricPos := make([]int, 0, len(pipelinedomain.AllMetrics()))
	for _, c := range pipelinedomain.MetricColumns() {
		p, ok := positions[c]
		if !ok {
			missing = append(missing, c)
		}
		metricPos = append(metricPos, p)
	}
	if len(missing) > 0 {
		return nil, &pipelinedomain.MissingColumnError{Table: level.Name(), Columns: missing}
	}

	var rows []pipelinedomain.Row
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", level.Name(), line, err)
		}

		row := pipelinedomain.Row{Keys: make([]string, len(keyPos))}
		for i, p := range keyPos {
			row.Keys[i] = cell(record, p)
		}
		for i, p := range metricPos {
			v, err := parseMetricCell(cell(record, p))
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %s: %w", level.Name(), line, pipelinedomain.Metric(i), err)
			}
			row.Metrics[i] = v
		}
		rows = append(rows, row)
	}

	return pipelinedomain.NewTable(level, rows)
}

func cell(record []string, pos int) string {
	if pos < len(record) {
		return record[pos]
	}
	return ""
}
