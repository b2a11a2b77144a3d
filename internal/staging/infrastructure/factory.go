package infrastructure

import (
	"fmt"
	"io"
	"strings"

	stagingdomain "cockpit/internal/staging/domain"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore ouvre le store correspondant au format configuré
// Le Closer libère les ressources du backend (base SQLite).
func OpenStore(format, dir string) (stagingdomain.Store, io.Closer, error) {
	switch stagingdomain.Format(strings.ToLower(strings.TrimSpace(format))) {
	case stagingdomain.FormatCSV, "":
		return NewCSVStore(dir), nopCloser{}, nil
	case stagingdomain.FormatParquet:
		return NewParquetStore(dir), nopCloser{}, nil
	case stagingdomain.FormatSQLite:
		s, err := OpenSQLiteStore(dir)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("unknown staging format %q (expected csv, sqlite or parquet)", format)
	}
}
