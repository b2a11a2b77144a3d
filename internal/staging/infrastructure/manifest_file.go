package infrastructure

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	pipelinedomain "cockpit/internal/pipeline/domain"
	stagingdomain "cockpit/internal/staging/domain"
)

const manifestFile = "manifest.yaml"

// writeManifest écrit le manifeste YAML à côté des tables
func writeManifest(dir string, m stagingdomain.Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, manifestFile), data)
}

// readManifest lit le manifeste YAML
func readManifest(dir string) (stagingdomain.Manifest, error) {
	var m stagingdomain.Manifest
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return m, fmt.Errorf("staging manifest in %s: %w", dir, pipelinedomain.ErrMissingData)
		}
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// writeFileAtomic écrit dans un fichier temporaire puis renomme
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// ensureDir vérifie que le répertoire staging existe et n'est pas vide
func ensureDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("staging directory %s not found, run the ETL first: %w", dir, pipelinedomain.ErrMissingData)
		}
		return fmt.Errorf("read staging directory: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("staging directory %s is empty, run the ETL first: %w", dir, pipelinedomain.ErrMissingData)
	}
	return nil
}

// parseMetricCell convertit une cellule en compteur
// Cellule vide -> 0; les flottants entiers ("12.0") sont acceptés.
func parseMetricCell(cell string) (int64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid metric value %q", cell)
	}
	if math.IsNaN(f) {
		return 0, nil
	}
	// float64(math.MaxInt64) vaut 2^63, hors de portée d'un int64
	if math.IsInf(f, 0) || f >= float64(math.MaxInt64) || f < float64(math.MinInt64) {
		return 0, fmt.Errorf("metric value %q out of range", cell)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("non-integral metric value %q", cell)
	}
	return int64(f), nil
}

// ensureWritableDir crée le répertoire staging si besoin
func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	return nil
}
