package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config configuration de l'application, lue depuis l'environnement
type Config struct {
	// Base source
	DBDriver        string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost          string `env:"DB_HOST" envDefault:"localhost"`
	DBPort          string `env:"DB_PORT" envDefault:"5432"`
	DBUser          string `env:"DB_USER" envDefault:"cockpit"`
	DBPassword      string `env:"DB_PASSWORD" envDefault:"cockpit"`
	DBName          string `env:"DB_NAME" envDefault:"cockpit"`
	DBSSLMode       string `env:"DB_SSLMODE" envDefault:"disable"`
	ReferenceSchema string `env:"DB_REFERENCE_SCHEMA" envDefault:"pdv"`

	// Extraction
	QueryFile  string `env:"ETL_QUERY_FILE"`
	EventsFile string `env:"EVENTS_FILE" envDefault:"config/eventos_db.csv"`

	// Zone staging
	StagingDir    string `env:"STAGING_DIR" envDefault:"output/staging"`
	StagingFormat string `env:"STAGING_FORMAT" envDefault:"csv"`

	// Rapports
	TemplatePath string `env:"REPORT_TEMPLATE"`
	OutputDir    string `env:"REPORT_OUTPUT_DIR" envDefault:"output/reports"`
	PDFConverter string `env:"PDF_CONVERTER"`
	Workers      int    `env:"REPORT_WORKERS" envDefault:"2"`

	// Logs
	LogDir   string `env:"LOG_DIR" envDefault:"logs"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load charge les fichiers .env (absents tolérés) puis parse l'environnement
// Les variables déjà définies ne sont pas écrasées par les fichiers.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate vérifie les valeurs énumérées
func (c Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case "postgres", "pgx":
	default:
		return fmt.Errorf("DB_DRIVER: unsupported driver %q (expected postgres or pgx)", c.DBDriver)
	}
	switch strings.ToLower(c.StagingFormat) {
	case "csv", "sqlite", "parquet":
	default:
		return fmt.Errorf("STAGING_FORMAT: unsupported format %q (expected csv, sqlite or parquet)", c.StagingFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("REPORT_WORKERS: must be at least 1, got %d", c.Workers)
	}
	return nil
}

// DSN construit la chaîne de connexion PostgreSQL
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedactedDSN chaîne de connexion sans mot de passe, pour les logs
func (c Config) RedactedDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBName, c.DBSSLMode)
}
