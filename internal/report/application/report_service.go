package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"cockpit/internal/report/domain"
	sharedinfra "cockpit/internal/shared/infrastructure"
	stagingdomain "cockpit/internal/staging/domain"
)

// Renderer écrit le document éditable à partir des instructions
type Renderer interface {
	Render(ctx context.Context, instructions *domain.RenderInstructions, outPath string) error
	Extension() string
}

// Converter dérive la version à mise en page fixe d'un document
type Converter interface {
	Convert(ctx context.Context, inPath string) (string, error)
}

// ReportRequest demande de génération d'un rapport
type ReportRequest struct {
	Type      domain.ReportType
	Filter    string
	Event     domain.EventInfo
	OutputDir string
}

// ReportResult fichiers produits
type ReportResult struct {
	Title        string
	DocumentPath string
	FixedPath    string
	Instructions *domain.RenderInstructions
}

// ReportService enchaîne chargement, sélection, calcul, liaison et rendu
type ReportService struct {
	store     stagingdomain.Store
	renderer  Renderer
	converter Converter
	log       logrus.FieldLogger
	pool      *sharedinfra.WorkerPool
	now       func() time.Time
}

// NewReportService crée une nouvelle instance de ReportService
func NewReportService(store stagingdomain.Store, renderer Renderer, converter Converter, log logrus.FieldLogger) *ReportService {
	return &ReportService{
		store:     store,
		renderer:  renderer,
		converter: converter,
		log:       log,
		pool:      sharedinfra.NewWorkerPool(1),
		now:       time.Now,
	}
}

// Prepare calcule les instructions de rendu sans écrire de document
func (s *ReportService) Prepare(ctx context.Context, req ReportRequest) (*domain.Selection, *domain.RenderInstructions, error) {
	log := s.log.WithFields(logrus.Fields{"report_type": req.Type.Key(), "filter": req.Filter})

	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load staging: %w", err)
	}

	sel, err := Select(req.Type, req.Filter, data)
	if err != nil {
		log.WithError(err).Error("selection failed")
		return nil, nil, err
	}

	instructions, err := Bind(BuildContext(sel, req.Event), sel.Detail)
	if err != nil {
		log.WithError(err).Error("binding failed")
		return nil, nil, err
	}

	log.WithFields(logrus.Fields{
		"title":       sel.Title,
		"detail_rows": len(instructions.Detail.Rows),
	}).Info("report prepared")
	return sel, instructions, nil
}

// Generate produit le document puis, si un convertisseur est configuré, sa version fixe
// Aucun fichier n'est écrit si une étape amont échoue.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	sel, instructions, err := s.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(req.OutputDir, ReportFileName(sel.Title, s.now())+s.renderer.Extension())

	// un échec ne laisse aucun document partiel
	if err := s.renderer.Render(ctx, instructions, path); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	result := &ReportResult{Title: sel.Title, DocumentPath: path, Instructions: instructions}

	if s.converter != nil {
		fixed, err := s.converter.Convert(ctx, path)
		if err != nil {
			_ = os.Remove(path)
			return nil, fmt.Errorf("convert %s: %w", path, err)
		}
		result.FixedPath = fixed
	}

	s.log.WithFields(logrus.Fields{
		"report_type": req.Type.Key(),
		"document":    result.DocumentPath,
		"fixed":       result.FixedPath,
	}).Info("report generated")
	return result, nil
}

// WithWorkers fixe le nombre de rapports générés en parallèle par GenerateEach
func (s *ReportService) WithWorkers(n int) *ReportService {
	s.pool = sharedinfra.NewWorkerPool(n)
	return s
}

// GenerateEach produit un rapport par valeur de filtre disponible
// Les résultats suivent l'ordre des options; la première erreur annule les rapports restants.
func (s *ReportService) GenerateEach(ctx context.Context, req ReportRequest) ([]*ReportResult, error) {
	options, err := s.Options(ctx, req.Type)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	generated := make([]*ReportResult, len(options))
	tasks := make([]sharedinfra.Task, len(options))
	for i, opt := range options {
		tasks[i] = func(ctx context.Context) error {
			r := req
			r.Filter = opt
			res, err := s.Generate(ctx, r)
			if err != nil {
				cancel()
				return fmt.Errorf("report %s %q: %w", req.Type.Key(), opt, err)
			}
			generated[i] = res
			return nil
		}
	}
	errs := s.pool.Run(ctx, tasks)

	results := make([]*ReportResult, 0, len(options))
	for _, res := range generated {
		if res != nil {
			results = append(results, res)
		}
	}
	if err := firstError(errs); err != nil {
		return results, err
	}
	return results, nil
}

// firstError privilégie une erreur réelle aux annulations qu'elle a provoquées
func firstError(errs []error) error {
	var cancelled error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled) && cancelled == nil:
			cancelled = err
		case !errors.Is(err, context.Canceled):
			return err
		}
	}
	return cancelled
}

// Options valeurs de filtre disponibles pour le type
func (s *ReportService) Options(ctx context.Context, reportType domain.ReportType) ([]string, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load staging: %w", err)
	}
	return Options(reportType, data)
}

// EventInfo lit les métadonnées de l'événement depuis le manifeste staging
func (s *ReportService) EventInfo(ctx context.Context) (domain.EventInfo, error) {
	m, err := s.store.Manifest(ctx)
	if err != nil {
		return domain.EventInfo{}, err
	}
	return domain.EventInfo{Name: m.EventName, StartDate: m.StartDate, EndDate: m.EndDate}, nil
}

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// ReportFileName nom de fichier: Relatorio_<titre>_<AAAAMMJJHHMM>
func ReportFileName(title string, at time.Time) string {
	safe := strings.Trim(unsafeFileChars.ReplaceAllString(title, "_"), "_")
	return fmt.Sprintf("Relatorio_%s_%s", safe, at.Format("200601021504"))
}
