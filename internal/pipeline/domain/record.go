package domain

// GranularRecord une ligne extraite: un vendeur pour un événement
type GranularRecord struct {
	RegionID     string
	SectorID     string
	Group        string
	Brand        string
	Outlet       string
	ProspectorID string
	Salesperson  string
	Metrics      Metrics
}

// OutletKey clé de regroupement d'un point de vente
// L'ordre des champs est l'ordre de tri des lignes agrégées
type OutletKey struct {
	RegionID string
	SectorID string
	Group    string
	Brand    string
	Outlet   string
}

// OutletKey retourne la clé du point de vente du vendeur
func (r GranularRecord) OutletKey() OutletKey {
	return OutletKey{
		RegionID: r.RegionID,
		SectorID: r.SectorID,
		Group:    r.Group,
		Brand:    r.Brand,
		Outlet:   r.Outlet,
	}
}

// Row convertit l'enregistrement en ligne de la table salesperson
func (r GranularRecord) Row() Row {
	return Row{
		Keys:    []string{r.Salesperson, r.RegionID, r.SectorID, r.Group, r.Brand, r.Outlet, r.ProspectorID},
		Metrics: r.Metrics,
	}
}

// Less compare deux clés champ par champ
func (k OutletKey) Less(other OutletKey) bool {
	switch {
	case k.RegionID != other.RegionID:
		return k.RegionID < other.RegionID
	case k.SectorID != other.SectorID:
		return k.SectorID < other.SectorID
	case k.Group != other.Group:
		return k.Group < other.Group
	case k.Brand != other.Brand:
		return k.Brand < other.Brand
	default:
		return k.Outlet < other.Outlet
	}
}

// Row convertit la clé en ligne de la table outlet
func (k OutletKey) Row(m Metrics) Row {
	return Row{
		Keys:    []string{k.Outlet, k.RegionID, k.SectorID, k.Group, k.Brand},
		Metrics: m,
	}
}
