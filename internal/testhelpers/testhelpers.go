package testhelpers

import (
	"database/sql"
	"os"
	"testing"

	"github.com/joho/godotenv"

	"cockpit/database"
	"cockpit/internal/config"
)

// Schémas dédiés aux tests d'intégration
const (
	TestReferenceSchema = "cockpit_test_pdv"
	TestEventSchema     = "cockpit_test_evento"
)

// loadConfig charge .env depuis la racine du module
func loadConfig(tb testing.TB) config.Config {
	tb.Helper()

	for _, f := range []string{"../../../.env", "../../.env"} {
		_ = godotenv.Load(f)
	}
	cfg, err := config.Load(os.DevNull)
	if err != nil {
		tb.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// SetupTestDB initialise une connexion à la base de données de test
func SetupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	cfg := loadConfig(tb)
	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		tb.Fatalf("Failed to open database: %v\nConnection string: %s", err, cfg.RedactedDSN())
	}
	tb.Cleanup(func() { db.Close() })
	return db
}

// SetupSeededDB ouvre la base de test et y génère un événement de démonstration
func SetupSeededDB(tb testing.TB) (*sql.DB, database.SeedOptions) {
	tb.Helper()

	db := SetupTestDB(tb)
	opts := database.DefaultSeedOptions()
	opts.ReferenceSchema = TestReferenceSchema
	opts.EventSchema = TestEventSchema
	opts.Days = 5
	if err := database.Seed(db, opts); err != nil {
		tb.Fatalf("Failed to seed database: %v", err)
	}
	return db, opts
}

// SkipIfNoDatabase skip le test/benchmark si la DB n'est pas disponible
func SkipIfNoDatabase(tb testing.TB) {
	tb.Helper()

	if testing.Short() {
		tb.Skip("Skipping integration test in short mode")
	}
	cfg := loadConfig(tb)
	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		tb.Skip("Database not available:", err)
	}
	db.Close()
}
