package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// SofficeConverter convertit un document en PDF avec une suite bureautique headless
// Les conversions sont sérialisées: les instances headless partagent un profil utilisateur.
type SofficeConverter struct {
	binary string
	log    logrus.FieldLogger
	mu     sync.Mutex
}

// NewSofficeConverter crée un convertisseur pour le binaire donné (ex: soffice)
func NewSofficeConverter(binary string, log logrus.FieldLogger) *SofficeConverter {
	return &SofficeConverter{binary: binary, log: log}
}

// Convert écrit le PDF à côté du document source et retourne son chemin
func (c *SofficeConverter) Convert(ctx context.Context, inPath string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	outDir := filepath.Dir(inPath)
	cmd := exec.CommandContext(ctx, c.binary, "--headless", "--convert-to", "pdf", "--outdir", outDir, inPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", c.binary, err, strings.TrimSpace(stderr.String()))
	}

	pdf := strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".pdf"
	if _, err := os.Stat(pdf); err != nil {
		return "", fmt.Errorf("converted file not found: %w", err)
	}
	c.log.WithField("pdf", pdf).Info("document converted")
	return pdf, nil
}

// NoopConverter utilisé quand aucun convertisseur n'est configuré
type NoopConverter struct{}

// Convert ne produit rien
func (NoopConverter) Convert(ctx context.Context, inPath string) (string, error) {
	return "", nil
}
