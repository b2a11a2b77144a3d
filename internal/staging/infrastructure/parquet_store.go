package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	pipelinedomain "cockpit/internal/pipeline/domain"
	stagingdomain "cockpit/internal/staging/domain"
)

// stagingRow schéma commun à tous les niveaux
// Les colonnes d'identification inutilisées par un niveau restent vides.
type stagingRow struct {
	Salesperson      string `parquet:"name=salesperson, type=BYTE_ARRAY, convertedtype=UTF8"`
	RegionID         string `parquet:"name=region_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	SectorID         string `parquet:"name=sector_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	GroupName        string `parquet:"name=group_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Brand            string `parquet:"name=brand, type=BYTE_ARRAY, convertedtype=UTF8"`
	Outlet           string `parquet:"name=outlet, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProspectorID     string `parquet:"name=prospector_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Sellers          int64  `parquet:"name=sellers, type=INT64"`
	Leads            int64  `parquet:"name=leads, type=INT64"`
	LeadsViewed      int64  `parquet:"name=leads_viewed, type=INT64"`
	InvitesSent      int64  `parquet:"name=invites_sent, type=INT64"`
	InvitesPending   int64  `parquet:"name=invites_pending, type=INT64"`
	InvitesDeclined  int64  `parquet:"name=invites_declined, type=INT64"`
	InvitesConfirmed int64  `parquet:"name=invites_confirmed, type=INT64"`
	Attendance       int64  `parquet:"name=attendance, type=INT64"`
	TestDrives       int64  `parquet:"name=test_drives, type=INT64"`
	Sales            int64  `parquet:"name=sales, type=INT64"`
}

// keyField accès aux colonnes d'identification par nom
func (r *stagingRow) keyField(column string) *string {
	switch column {
	case pipelinedomain.ColSalesperson:
		return &r.Salesperson
	case pipelinedomain.ColRegion:
		return &r.RegionID
	case pipelinedomain.ColSector:
		return &r.SectorID
	case pipelinedomain.ColGroup:
		return &r.GroupName
	case pipelinedomain.ColBrand:
		return &r.Brand
	case pipelinedomain.ColOutlet:
		return &r.Outlet
	case pipelinedomain.ColProspectorID:
		return &r.ProspectorID
	}
	return nil
}

func (r *stagingRow) metricFields() [10]*int64 {
	return [10]*int64{
		&r.Sellers, &r.Leads, &r.LeadsViewed, &r.InvitesSent, &r.InvitesPending,
		&r.InvitesDeclined, &r.InvitesConfirmed, &r.Attendance, &r.TestDrives, &r.Sales,
	}
}

func toStagingRow(level pipelinedomain.Level, row pipelinedomain.Row) stagingRow {
	var out stagingRow
	for i, c := range level.KeyColumns() {
		*out.keyField(c) = row.Keys[i]
	}
	for i, f := range out.metricFields() {
		*f = row.Metrics[i]
	}
	return out
}

func fromStagingRow(level pipelinedomain.Level, in stagingRow) pipelinedomain.Row {
	keys := level.KeyColumns()
	row := pipelinedomain.Row{Keys: make([]string, len(keys))}
	for i, c := range keys {
		row.Keys[i] = *in.keyField(c)
	}
	for i, f := range in.metricFields() {
		row.Metrics[i] = *f
	}
	return row
}

// ParquetStore zone staging sous forme d'un fichier Parquet par table
type ParquetStore struct {
	dir         string
	parallelism int64
}

// NewParquetStore crée un store Parquet dans le répertoire donné
func NewParquetStore(dir string) *ParquetStore {
	return &ParquetStore{dir: dir, parallelism: 4}
}

func (s *ParquetStore) path(level pipelinedomain.Level) string {
	return filepath.Join(s.dir, level.Name()+".parquet")
}

// Save écrit chaque table (compression Snappy) puis le manifeste
func (s *ParquetStore) Save(ctx context.Context, tables []*pipelinedomain.Table, manifest stagingdomain.Manifest) error {
	if err := ensureWritableDir(s.dir); err != nil {
		return err
	}
	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.writeTable(t); err != nil {
			return fmt.Errorf("write %s: %w", t.Name(), err)
		}
	}
	manifest.Format = stagingdomain.FormatParquet
	manifest.Rows = stagingdomain.RowCounts(tables)
	return writeManifest(s.dir, manifest)
}

func (s *ParquetStore) writeTable(t *pipelinedomain.Table) error {
	target := s.path(t.Level())
	tmp := target + ".tmp"

	fw, err := local.NewLocalFileWriter(tmp)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(stagingRow), s.parallelism)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for i := 0; i < t.Len(); i++ {
		if err := pw.Write(toStagingRow(t.Level(), t.Row(i))); err != nil {
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	if err := fw.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// Load relit les fichiers présents; un fichier absent laisse le niveau absent
func (s *ParquetStore) Load(ctx context.Context) (*pipelinedomain.Dataset, error) {
	if err := ensureDir(s.dir); err != nil {
		return nil, err
	}
	dataset := pipelinedomain.NewDataset()
	for _, level := range pipelinedomain.AllLevels() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := os.Stat(s.path(level)); errors.Is(err, os.ErrNotExist) {
			continue
		}
		t, err := s.readTable(level)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", level.Name(), err)
		}
		dataset.Put(t)
	}
	return dataset, nil
}

func (s *ParquetStore) readTable(level pipelinedomain.Level) (*pipelinedomain.Table, error) {
	fr, err := local.NewLocalFileReader(s.path(level))
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(stagingRow), s.parallelism)
	if err != nil {
		return nil, err
	}
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	raw := make([]stagingRow, n)
	if n > 0 {
		if err := pr.Read(&raw); err != nil {
			return nil, err
		}
	}

	rows := make([]pipelinedomain.Row, len(raw))
	for i, r := range raw {
		rows[i] = fromStagingRow(level, r)
	}
	return pipelinedomain.NewTable(level, rows)
}

// Manifest retourne le manifeste du dernier passage
func (s *ParquetStore) Manifest(ctx context.Context) (stagingdomain.Manifest, error) {
	return readManifest(s.dir)
}
