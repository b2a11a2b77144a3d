package database

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/lib/pq"
)

// SeedOptions paramètres de génération des données de démonstration
type SeedOptions struct {
	ReferenceSchema string
	EventSchema     string
	Start           time.Time
	Days            int
	RandSeed        int64
}

// DefaultSeedOptions options par défaut: un événement d'un mois
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{
		ReferenceSchema: "pdv",
		EventSchema:     "demo_evento",
		Start:           time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
		Days:            31,
		RandSeed:        42,
	}
}

// SeedDatabase peuple la base globale
func SeedDatabase(opts SeedOptions) error {
	return Seed(DB, opts)
}

// Seed crée les schémas de référence et d'événement puis les remplit
// Les schémas existants sont recréés.
func Seed(db *sql.DB, opts SeedOptions) error {
	if opts.Days <= 0 {
		return fmt.Errorf("seed days must be positive, got %d", opts.Days)
	}
	rng := rand.New(rand.NewSource(opts.RandSeed))
	ref := pq.QuoteIdentifier(opts.ReferenceSchema)
	evt := pq.QuoteIdentifier(opts.EventSchema)

	fmt.Println("🌱 Création des schémas...")
	if err := createSchemas(db, ref, evt); err != nil {
		return fmt.Errorf("erreur création schémas: %w", err)
	}

	// 1. Points de vente
	outletIDs, err := seedOutlets(db, ref)
	if err != nil {
		return fmt.Errorf("erreur génération points de vente: %w", err)
	}

	// 2. Vendeurs
	prospectorIDs, err := seedSalespeople(db, evt, rng, outletIDs)
	if err != nil {
		return fmt.Errorf("erreur génération vendeurs: %w", err)
	}

	// 3. Leads et invitations
	fmt.Println("🌱 Génération des leads et invitations...")
	if err := seedLeadsAndInvites(db, evt, rng, prospectorIDs, opts.Start, opts.Days); err != nil {
		return fmt.Errorf("erreur génération leads: %w", err)
	}

	fmt.Println("🔍 Analyse des tables...")
	if _, err := db.Exec("ANALYZE"); err != nil {
		fmt.Println("⚠️ Attention: échec de l'analyse:", err)
	}
	return nil
}

func createSchemas(db *sql.DB, ref, evt string) error {
	stmts := []string{
		fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", evt),
		fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", ref),
		fmt.Sprintf("CREATE SCHEMA %s", ref),
		fmt.Sprintf("CREATE SCHEMA %s", evt),
		fmt.Sprintf(`CREATE TABLE %s.outlets (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			region_id TEXT NOT NULL,
			sector_id TEXT NOT NULL,
			group_name TEXT NOT NULL,
			brand TEXT NOT NULL
		)`, ref),
		fmt.Sprintf(`CREATE TABLE %s.salespeople (
			prospector_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			outlet_id INTEGER NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`, evt),
		fmt.Sprintf(`CREATE TABLE %s.leads (
			id BIGSERIAL PRIMARY KEY,
			prospector_id INTEGER NOT NULL REFERENCES %s.salespeople(prospector_id),
			created_at DATE NOT NULL,
			viewed BOOLEAN NOT NULL DEFAULT FALSE
		)`, evt, evt),
		fmt.Sprintf(`CREATE TABLE %s.invites (
			id BIGSERIAL PRIMARY KEY,
			lead_id BIGINT NOT NULL REFERENCES %s.leads(id),
			sent_at DATE NOT NULL,
			status TEXT NOT NULL,
			attended BOOLEAN NOT NULL DEFAULT FALSE,
			test_drive BOOLEAN NOT NULL DEFAULT FALSE,
			sale BOOLEAN NOT NULL DEFAULT FALSE
		)`, evt, evt),
		fmt.Sprintf("CREATE INDEX idx_leads_prospector_date ON %s.leads (prospector_id, created_at)", evt),
		fmt.Sprintf("CREATE INDEX idx_invites_lead ON %s.invites (lead_id)", evt),
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// seedOutlets insère un jeu fixe de concessionnaires
func seedOutlets(db *sql.DB, ref string) ([]int, error) {
	outlets := []Outlet{
		{Name: "Auto Paulista", RegionID: "SUDESTE", SectorID: "S01", GroupName: "G1", Brand: "FIAT"},
		{Name: "Minas Car", RegionID: "SUDESTE", SectorID: "S01", GroupName: "G1", Brand: "JEEP"},
		{Name: "Rio Motors", RegionID: "SUDESTE", SectorID: "S02", GroupName: "G2", Brand: "JEEP"},
		{Name: "Gaucha Veiculos", RegionID: "SUL", SectorID: "S03", GroupName: "G2", Brand: "FIAT"},
		{Name: "Curitiba Auto", RegionID: "SUL", SectorID: "S03", GroupName: "G3", Brand: "RAM"},
		{Name: "Recife Center", RegionID: "NORDESTE", SectorID: "S04", GroupName: "G3", Brand: "FIAT"},
		{Name: "Salvador Prime", RegionID: "NORDESTE", SectorID: "S05", GroupName: "G1", Brand: "RAM"},
	}
	fmt.Printf("   🏢 Génération de %d points de vente...\n", len(outlets))

	ids := make([]int, 0, len(outlets))
	for _, o := range outlets {
		var id int
		err := db.QueryRow(fmt.Sprintf(`
			INSERT INTO %s.outlets (name, region_id, sector_id, group_name, brand)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, ref), o.Name, o.RegionID, o.SectorID, o.GroupName, o.Brand).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	fmt.Printf("   ✅ %d points de vente créés\n", len(ids))
	return ids, nil
}

// seedSalespeople crée 2 à 4 vendeurs par point de vente, dont quelques inactifs
func seedSalespeople(db *sql.DB, evt string, rng *rand.Rand, outletIDs []int) ([]int, error) {
	firstNames := []string{"Ana", "Bruno", "Carla", "Diego", "Elisa", "Fabio", "Gabriela", "Hugo", "Isabela", "João"}
	lastNames := []string{"Souza", "Lima", "Dias", "Alves", "Rocha", "Nunes", "Costa", "Ribeiro"}

	var active []int
	next := 100
	for _, outletID := range outletIDs {
		count := 2 + rng.Intn(3)
		for i := 0; i < count; i++ {
			next++
			s := Salesperson{
				ProspectorID: next,
				Name:         fmt.Sprintf("%s %s", firstNames[rng.Intn(len(firstNames))], lastNames[rng.Intn(len(lastNames))]),
				OutletID:     outletID,
				Active:       rng.Intn(10) > 0,
			}
			_, err := db.Exec(fmt.Sprintf(`
				INSERT INTO %s.salespeople (prospector_id, name, outlet_id, active)
				VALUES ($1, $2, $3, $4)
			`, evt), s.ProspectorID, s.Name, s.OutletID, s.Active)
			if err != nil {
				return nil, err
			}
			if s.Active {
				active = append(active, s.ProspectorID)
			}
		}
	}

	fmt.Printf("   ✅ %d vendeurs créés (%d actifs)\n", next-100, len(active))
	return active, nil
}

// seedLeadsAndInvites génère l'entonnoir lead -> invitation -> présence -> essai -> vente
func seedLeadsAndInvites(db *sql.DB, evt string, rng *rand.Rand, prospectorIDs []int, start time.Time, days int) error {
	startTime := time.Now()
	statuses := []string{InviteStatusPending, InviteStatusDeclined, InviteStatusConfirmed, InviteStatusConfirmed}
	totalLeads, totalInvites := 0, 0

	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day)
		for _, pid := range prospectorIDs {
			for n := rng.Intn(4); n > 0; n-- {
				lead := Lead{ProspectorID: pid, CreatedAt: date, Viewed: rng.Intn(4) > 0}
				err := db.QueryRow(fmt.Sprintf(`
					INSERT INTO %s.leads (prospector_id, created_at, viewed)
					VALUES ($1, $2, $3)
					RETURNING id
				`, evt), lead.ProspectorID, lead.CreatedAt, lead.Viewed).Scan(&lead.ID)
				if err != nil {
					return err
				}
				totalLeads++

				if !lead.Viewed || rng.Intn(3) == 0 {
					continue
				}
				inv := Invite{LeadID: lead.ID, SentAt: date, Status: statuses[rng.Intn(len(statuses))]}
				if inv.Status == InviteStatusConfirmed {
					inv.Attended = rng.Intn(4) > 0
					inv.TestDrive = inv.Attended && rng.Intn(2) == 0
					inv.Sale = inv.Attended && rng.Intn(4) == 0
				}
				_, err = db.Exec(fmt.Sprintf(`
					INSERT INTO %s.invites (lead_id, sent_at, status, attended, test_drive, sale)
					VALUES ($1, $2, $3, $4, $5, $6)
				`, evt), inv.LeadID, inv.SentAt, inv.Status, inv.Attended, inv.TestDrive, inv.Sale)
				if err != nil {
					return err
				}
				totalInvites++
			}
		}

		if (day+1)%10 == 0 {
			fmt.Printf("   ... %d jours traités (%d leads, %d invitations)\n", day+1, totalLeads, totalInvites)
		}
	}

	fmt.Printf("   ✅ %d leads créés avec %d invitations en %v\n", totalLeads, totalInvites, time.Since(startTime))
	return nil
}
