package database

import "time"

// ============================================================================
// SCHÉMA DE RÉFÉRENCE - Points de vente
// ============================================================================

// Outlet - Concessionnaire rattaché à une région, un secteur, un groupe et une marque
type Outlet struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	RegionID  string `json:"region_id"`
	SectorID  string `json:"sector_id"`
	GroupName string `json:"group_name"`
	Brand     string `json:"brand"`
}

// ============================================================================
// SCHÉMA ÉVÉNEMENT - Une base par événement
// ============================================================================

// Salesperson - Vendeur inscrit à l'événement
type Salesperson struct {
	ProspectorID int    `json:"prospector_id"`
	Name         string `json:"name"`
	OutletID     int    `json:"outlet_id"`
	Active       bool   `json:"active"`
}

// Lead - Contact attribué à un vendeur
type Lead struct {
	ID           int64     `json:"id"`
	ProspectorID int       `json:"prospector_id"`
	CreatedAt    time.Time `json:"created_at"`
	Viewed       bool      `json:"viewed"`
}

// Invite - Invitation envoyée pour un lead
type Invite struct {
	ID        int64     `json:"id"`
	LeadID    int64     `json:"lead_id"`
	SentAt    time.Time `json:"sent_at"`
	Status    string    `json:"status"`
	Attended  bool      `json:"attended"`
	TestDrive bool      `json:"test_drive"`
	Sale      bool      `json:"sale"`
}

// Statuts d'invitation reconnus par la requête d'extraction
const (
	InviteStatusPending   = "pending"
	InviteStatusDeclined  = "declined"
	InviteStatusConfirmed = "confirmed"
)
