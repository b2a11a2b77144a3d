package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"cockpit/database"
	"cockpit/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Erreur configuration:", err)
	}

	err = database.Init(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal("❌ Erreur connexion DB:", err)
	}
	defer database.Close()

	fmt.Println("✅ Connexion PostgreSQL établie")

	opts := database.DefaultSeedOptions()
	opts.ReferenceSchema = cfg.ReferenceSchema
	if schema := os.Getenv("SEED_EVENT_SCHEMA"); schema != "" {
		opts.EventSchema = schema
	}
	if days, err := strconv.Atoi(os.Getenv("SEED_DAYS")); err == nil && days > 0 {
		opts.Days = days
	}

	fmt.Println("🌱 Démarrage du seed de la base de données...")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	err = database.SeedDatabase(opts)
	if err != nil {
		log.Fatal("❌ Erreur lors du seed:", err)
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("✅ Seed terminé avec succès!")
	fmt.Println()
	fmt.Println("Déclarez l'événement dans le catalogue puis lancez l'extraction:")
	fmt.Printf("  %s,Demo,%s,%s\n", opts.EventSchema,
		opts.Start.Format("02/01/2006"), opts.Start.AddDate(0, 0, opts.Days-1).Format("02/01/2006"))
	fmt.Println("  go run ./cmd/cockpit etl --event", opts.EventSchema)
}
