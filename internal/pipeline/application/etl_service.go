package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cockpit/internal/pipeline/domain"
	"cockpit/internal/pipeline/infrastructure"
	shareddomain "cockpit/internal/shared/domain"
	stagingdomain "cockpit/internal/staging/domain"
)

// GranularSource source des enregistrements granulaires
type GranularSource interface {
	FetchGranular(ctx context.Context, p infrastructure.QueryParams) ([]domain.GranularRecord, error)
}

// ETLRequest demande d'extraction pour un événement et une période
type ETLRequest struct {
	EventSource string
	EventName   string
	Period      shareddomain.DateRange
}

// ETLResult résultat d'un passage ETL
type ETLResult struct {
	Manifest stagingdomain.Manifest
	Rollups  *domain.Rollups
	Duration time.Duration
}

// ETLService enchaîne extraction, agrégation et écriture en zone staging
type ETLService struct {
	source          GranularSource
	store           stagingdomain.Store
	referenceSchema string
	log             logrus.FieldLogger
	now             func() time.Time
}

// NewETLService crée une nouvelle instance de ETLService
func NewETLService(source GranularSource, store stagingdomain.Store, referenceSchema string, log logrus.FieldLogger) *ETLService {
	return &ETLService{
		source:          source,
		store:           store,
		referenceSchema: referenceSchema,
		log:             log,
		now:             time.Now,
	}
}

// Run exécute un passage complet; toute erreur interrompt le passage
func (s *ETLService) Run(ctx context.Context, req ETLRequest) (*ETLResult, error) {
	start := s.now()
	runID := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{
		"run_id": runID,
		"event":  req.EventSource,
		"period": req.Period.String(),
	})

	if req.Period.IsZero() {
		return nil, fmt.Errorf("period is required")
	}

	log.Info("extraction started")
	records, err := s.source.FetchGranular(ctx, infrastructure.QueryParams{
		EventSchema:     req.EventSource,
		ReferenceSchema: s.referenceSchema,
		Period:          req.Period,
	})
	if err != nil {
		log.WithError(err).Error("extraction failed")
		return nil, err
	}
	log.WithField("rows", len(records)).Info("extraction finished")

	if len(records) == 0 {
		err := &domain.EmptyResultError{Source: fmt.Sprintf("%s %s", req.EventSource, req.Period)}
		log.WithError(err).Error("nothing to aggregate")
		return nil, err
	}

	rollups, err := domain.Aggregate(records)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	manifest := stagingdomain.Manifest{
		RunID:       runID,
		GeneratedAt: s.now().UTC(),
		EventSource: req.EventSource,
		EventName:   req.EventName,
		StartDate:   req.Period.StartBR(),
		EndDate:     req.Period.EndBR(),
		Rows:        stagingdomain.RowCounts(rollups.Tables()),
	}
	if err := s.store.Save(ctx, rollups.Tables(), manifest); err != nil {
		log.WithError(err).Error("staging write failed")
		return nil, fmt.Errorf("write staging: %w", err)
	}

	for _, t := range rollups.Tables() {
		log.WithFields(logrus.Fields{"table": t.Name(), "rows": t.Len()}).Debug("table staged")
	}
	duration := s.now().Sub(start)
	log.WithField("duration", duration).Info("etl finished")

	return &ETLResult{Manifest: manifest, Rollups: rollups, Duration: duration}, nil
}
