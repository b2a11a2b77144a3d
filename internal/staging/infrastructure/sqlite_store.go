package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	pipelinedomain "cockpit/internal/pipeline/domain"
	sharedinfra "cockpit/internal/shared/infrastructure"
	stagingdomain "cockpit/internal/staging/domain"
)

const (
	sqliteFile          = "staging.db"
	sqliteTablePrefix   = "stg_"
	sqliteManifestTable = "stg_manifest"
)

// SQLiteStore zone staging dans une base SQLite locale
type SQLiteStore struct {
	sharedinfra.BaseRepository
	uow sharedinfra.UnitOfWork
}

// OpenSQLiteStore ouvre (ou crée) la base staging du répertoire donné
func OpenSQLiteStore(dir string) (*SQLiteStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("staging directory is required")
	}
	if err := ensureWritableDir(dir); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(filepath.Clean(dir), sqliteFile))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Une seule connexion vers le fichier
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &SQLiteStore{
		BaseRepository: sharedinfra.NewBaseRepository(db),
		uow:            sharedinfra.NewUnitOfWork(db),
	}, nil
}

// Close ferme la base
func (s *SQLiteStore) Close() error {
	if s == nil || s.DB() == nil {
		return nil
	}
	return s.DB().Close()
}

func quoteSQLite(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func sqliteTable(level pipelinedomain.Level) string {
	return sqliteTablePrefix + level.Name()
}

// Save remplace toutes les tables et le manifeste dans une seule transaction
func (s *SQLiteStore) Save(ctx context.Context, tables []*pipelinedomain.Table, manifest stagingdomain.Manifest) error {
	manifest.Format = stagingdomain.FormatSQLite
	manifest.Rows = stagingdomain.RowCounts(tables)

	return s.uow.Execute(ctx, func(tx *sql.Tx) error {
		repo := s.BaseRepository.WithTx(tx)
		for _, t := range tables {
			if err := writeSQLiteTable(ctx, &repo, t); err != nil {
				return fmt.Errorf("write %s: %w", t.Name(), err)
			}
		}
		return writeSQLiteManifest(ctx, &repo, manifest)
	})
}

func writeSQLiteTable(ctx context.Context, repo *sharedinfra.BaseRepository, t *pipelinedomain.Table) error {
	name := quoteSQLite(sqliteTable(t.Level()))
	if _, err := repo.Exec(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return err
	}

	keys := t.Level().KeyColumns()
	defs := make([]string, 0, len(keys)+len(pipelinedomain.AllMetrics()))
	cols := make([]string, 0, cap(defs))
	for _, k := range keys {
		defs = append(defs, quoteSQLite(k)+" TEXT NOT NULL")
		cols = append(cols, quoteSQLite(k))
	}
	for _, m := range pipelinedomain.MetricColumns() {
		defs = append(defs, quoteSQLite(m)+" INTEGER NOT NULL DEFAULT 0")
		cols = append(cols, quoteSQLite(m))
	}
	// rowid conserve l'ordre d'insertion
	if _, err := repo.Exec(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(cols, ", "), placeholders)
	args := make([]any, len(cols))
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		for j, k := range row.Keys {
			args[j] = k
		}
		for j, v := range row.Metrics {
			args[len(keys)+j] = v
		}
		if _, err := repo.Exec(ctx, insert, args...); err != nil {
			return err
		}
	}
	return nil
}

func writeSQLiteManifest(ctx context.Context, repo *sharedinfra.BaseRepository, m stagingdomain.Manifest) error {
	stmts := []string{
		"DROP TABLE IF EXISTS " + sqliteManifestTable,
		`CREATE TABLE ` + sqliteManifestTable + ` (
			run_id TEXT NOT NULL,
			generated_at TEXT NOT NULL,
			format TEXT NOT NULL,
			event_source TEXT NOT NULL,
			event_name TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := repo.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	_, err := repo.Exec(ctx,
		"INSERT INTO "+sqliteManifestTable+" VALUES (?, ?, ?, ?, ?, ?, ?)",
		m.RunID, m.GeneratedAt.UTC().Format(time.RFC3339), string(m.Format),
		m.EventSource, m.EventName, m.StartDate, m.EndDate,
	)
	return err
}

// Load relit les tables présentes dans la base
func (s *SQLiteStore) Load(ctx context.Context) (*pipelinedomain.Dataset, error) {
	dataset := pipelinedomain.NewDataset()
	for _, level := range pipelinedomain.AllLevels() {
		exists, err := s.tableExists(ctx, sqliteTable(level))
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		t, err := s.readTable(ctx, level)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", level.Name(), err)
		}
		dataset.Put(t)
	}
	if dataset.Len() == 0 {
		return nil, fmt.Errorf("staging database is empty, run the ETL first: %w", pipelinedomain.ErrMissingData)
	}
	return dataset, nil
}

func (s *SQLiteStore) tableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := s.QueryRow(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) readTable(ctx context.Context, level pipelinedomain.Level) (*pipelinedomain.Table, error) {
	columns := level.Columns()
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteSQLite(c)
	}

	rows, err := s.Query(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid",
		strings.Join(quoted, ", "), quoteSQLite(sqliteTable(level))))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keyCount := len(level.KeyColumns())
	var out []pipelinedomain.Row
	for rows.Next() {
		keys := make([]sql.NullString, keyCount)
		metrics := make([]sql.NullInt64, len(columns)-keyCount)
		dest := make([]any, 0, len(columns))
		for i := range keys {
			dest = append(dest, &keys[i])
		}
		for i := range metrics {
			dest = append(dest, &metrics[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := pipelinedomain.Row{Keys: make([]string, keyCount)}
		for i, k := range keys {
			row.Keys[i] = k.String
		}
		for i, m := range metrics {
			row.Metrics[i] = m.Int64
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pipelinedomain.NewTable(level, out)
}

// Manifest relit le manifeste et recompte les lignes
func (s *SQLiteStore) Manifest(ctx context.Context) (stagingdomain.Manifest, error) {
	var m stagingdomain.Manifest
	exists, err := s.tableExists(ctx, sqliteManifestTable)
	if err != nil {
		return m, err
	}
	if !exists {
		return m, fmt.Errorf("staging manifest: %w", pipelinedomain.ErrMissingData)
	}

	var generatedAt, format string
	err = s.QueryRow(ctx,
		"SELECT run_id, generated_at, format, event_source, event_name, start_date, end_date FROM "+sqliteManifestTable,
	).Scan(&m.RunID, &generatedAt, &format, &m.EventSource, &m.EventName, &m.StartDate, &m.EndDate)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	m.Format = stagingdomain.Format(format)
	if m.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt); err != nil {
		return m, fmt.Errorf("parse generated_at: %w", err)
	}

	m.Rows = make(map[string]int)
	for _, level := range pipelinedomain.AllLevels() {
		name := sqliteTable(level)
		ok, err := s.tableExists(ctx, name)
		if err != nil {
			return m, err
		}
		if !ok {
			continue
		}
		var n int
		if err := s.QueryRow(ctx, "SELECT COUNT(*) FROM "+quoteSQLite(name)).Scan(&n); err != nil {
			return m, err
		}
		m.Rows[level.Name()] = n
	}
	return m, nil
}
