package application_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"cockpit/internal/pipeline/application"
	"cockpit/internal/pipeline/domain"
	"cockpit/internal/pipeline/infrastructure"
	shareddomain "cockpit/internal/shared/domain"
	stagingdomain "cockpit/internal/staging/domain"
	staginginfra "cockpit/internal/staging/infrastructure"
	"cockpit/internal/testhelpers"
)

type fakeSource struct {
	records []domain.GranularRecord
	err     error
	params  infrastructure.QueryParams
}

func (f *fakeSource) FetchGranular(ctx context.Context, p infrastructure.QueryParams) ([]domain.GranularRecord, error) {
	f.params = p
	return f.records, f.err
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func request(t *testing.T) application.ETLRequest {
	t.Helper()
	period, err := shareddomain.ParseDateRange("01/03/2024", "10/03/2024")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	return application.ETLRequest{EventSource: "evento_verao", EventName: "Feirão de Verão", Period: period}
}

func TestETLService_Run(t *testing.T) {
	ctx := context.Background()
	store := staginginfra.NewCSVStore(t.TempDir())
	source := &fakeSource{records: testhelpers.SampleRecords()}

	svc := application.NewETLService(source, store, "pdv", silentLogger())
	res, err := svc.Run(ctx, request(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if source.params.ReferenceSchema != "pdv" || source.params.EventSchema != "evento_verao" {
		t.Errorf("query params = %+v", source.params)
	}
	if res.Manifest.RunID == "" {
		t.Error("empty run id")
	}
	if res.Manifest.Rows["outlet"] != 4 {
		t.Errorf("outlet rows = %d, want 4", res.Manifest.Rows["outlet"])
	}

	stored, err := store.Manifest(ctx)
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	if stored.RunID != res.Manifest.RunID || stored.StartDate != "01/03/2024" || stored.EndDate != "10/03/2024" {
		t.Errorf("stored manifest = %+v", stored)
	}

	data, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if data.Len() != 7 {
		t.Errorf("staged tables = %d, want 7", data.Len())
	}
}

func TestETLService_EmptyExtraction(t *testing.T) {
	dir := t.TempDir()
	store := staginginfra.NewCSVStore(dir)
	svc := application.NewETLService(&fakeSource{}, store, "pdv", silentLogger())

	_, err := svc.Run(context.Background(), request(t))
	if !errors.Is(err, domain.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, domain.ErrMissingData) {
		t.Errorf("staging written despite empty extraction: %v", err)
	}
}

func TestETLService_SourceError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := application.NewETLService(&fakeSource{err: boom}, staginginfra.NewCSVStore(t.TempDir()), "pdv", silentLogger())

	if _, err := svc.Run(context.Background(), request(t)); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestETLService_RequiresPeriod(t *testing.T) {
	svc := application.NewETLService(&fakeSource{records: testhelpers.SampleRecords()},
		staginginfra.NewCSVStore(t.TempDir()), "pdv", silentLogger())

	if _, err := svc.Run(context.Background(), application.ETLRequest{EventSource: "x"}); err == nil {
		t.Fatal("expected error for zero period")
	}
}

var _ stagingdomain.Store = (*staginginfra.CSVStore)(nil)
