package application

import (
	"errors"
	"fmt"
	"strings"

	pipelinedomain "cockpit/internal/pipeline/domain"
	"cockpit/internal/report/domain"
)

// Select détermine la ligne d'en-tête et la table de détail d'un rapport
//
// Sans filtre la ligne d'en-tête vient de la table nationale, sinon de l'unique
// ligne de la table de synthèse du type dont la clé vaut le filtre.
func Select(reportType domain.ReportType, filter string, data *pipelinedomain.Dataset) (*domain.Selection, error) {
	if !reportType.Valid() {
		return nil, fmt.Errorf("invalid report type %d", int(reportType))
	}
	filter = strings.TrimSpace(filter)

	s := selector{reportType: reportType, filter: filter, data: data}

	headline, err := s.headline()
	if err != nil {
		return nil, err
	}

	detail, category, err := s.detail()
	if err != nil {
		return nil, err
	}

	return &domain.Selection{
		Type:     reportType,
		Filter:   filter,
		Title:    domain.Title(reportType, filter),
		Category: category,
		Headline: headline,
		Detail:   detail,
	}, nil
}

// Options valeurs de filtre disponibles pour un type, triées, sans les clés vides
func Options(reportType domain.ReportType, data *pipelinedomain.Dataset) ([]string, error) {
	if reportType == domain.National {
		return nil, fmt.Errorf("%w: national report has no filter values", domain.ErrUnsupportedSelection)
	}
	s := selector{reportType: reportType, data: data}
	table, err := s.table(reportType.Rollup())
	if err != nil {
		return nil, err
	}
	values, err := table.Distinct(reportType.Rollup().KeyColumn())
	if err != nil {
		return nil, err
	}
	// une clé vide se confondrait avec l'absence de filtre
	options := values[:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			options = append(options, v)
		}
	}
	return options, nil
}

type selector struct {
	reportType domain.ReportType
	filter     string
	data       *pipelinedomain.Dataset
}

// table retourne une table staging en enrichissant l'erreur avec la demande
func (s selector) table(level pipelinedomain.Level) (*pipelinedomain.Table, error) {
	t, err := s.data.Table(level)
	if err != nil {
		var missing *pipelinedomain.MissingDataError
		if errors.As(err, &missing) {
			missing.ReportType = s.reportType.String()
			missing.Filter = s.filter
		}
		return nil, err
	}
	return t, nil
}

func (s selector) headline() (pipelinedomain.Metrics, error) {
	if s.filter == "" {
		national, err := s.table(pipelinedomain.LevelNational)
		if err != nil {
			return pipelinedomain.Metrics{}, err
		}
		if national.Len() != 1 {
			return pipelinedomain.Metrics{}, &pipelinedomain.NotFoundError{
				ReportType: s.reportType.String(),
				Table:      national.Name(),
				Matches:    national.Len(),
			}
		}
		return national.Row(0).Metrics, nil
	}

	if s.reportType == domain.National {
		return pipelinedomain.Metrics{}, fmt.Errorf("%w: national report does not accept a filter (got %q)",
			domain.ErrUnsupportedSelection, s.filter)
	}

	level := s.reportType.Rollup()
	rollup, err := s.table(level)
	if err != nil {
		return pipelinedomain.Metrics{}, err
	}
	matches, err := rollup.Equal(level.KeyColumn(), s.filter)
	if err != nil {
		return pipelinedomain.Metrics{}, err
	}
	if matches.Len() != 1 {
		return pipelinedomain.Metrics{}, &pipelinedomain.NotFoundError{
			ReportType: s.reportType.String(),
			Filter:     s.filter,
			Table:      rollup.Name(),
			Column:     level.KeyColumn(),
			Matches:    matches.Len(),
		}
	}
	return matches.Row(0).Metrics, nil
}

func (s selector) detail() (*pipelinedomain.Table, string, error) {
	switch s.reportType {
	case domain.National:
		t, err := s.table(pipelinedomain.LevelRegion)
		return t, domain.CategoryRegion, err

	case domain.Regional:
		t, err := s.regionalDetail()
		return t, domain.CategorySector, err

	case domain.BySector, domain.ByGroup, domain.ByBrand:
		outlets, err := s.table(pipelinedomain.LevelOutlet)
		if err != nil {
			return nil, "", err
		}
		if s.filter == "" {
			return outlets, domain.CategoryOutlet, nil
		}
		t, err := outlets.Equal(s.reportType.Rollup().KeyColumn(), s.filter)
		return t, domain.CategoryOutlet, err

	case domain.ByOutlet:
		if s.filter == "" {
			return nil, "", fmt.Errorf("%w: outlet report requires an outlet", domain.ErrUnsupportedSelection)
		}
		base, err := s.table(pipelinedomain.LevelSalesperson)
		if err != nil {
			return nil, "", err
		}
		t, err := base.Equal(pipelinedomain.ColOutlet, s.filter)
		return t, domain.CategorySalesperson, err
	}
	return nil, "", fmt.Errorf("invalid report type %d", int(s.reportType))
}

// regionalDetail secteurs de la région filtrée, via les points de vente de la région
func (s selector) regionalDetail() (*pipelinedomain.Table, error) {
	sectors, err := s.table(pipelinedomain.LevelSector)
	if err != nil {
		return nil, err
	}
	if s.filter == "" {
		return sectors, nil
	}

	outlets, err := s.table(pipelinedomain.LevelOutlet)
	if err != nil {
		return nil, err
	}
	inRegion, err := outlets.Equal(pipelinedomain.ColRegion, s.filter)
	if err != nil {
		return nil, err
	}
	ids, err := inRegion.Distinct(pipelinedomain.ColSector)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return sectors.Where(pipelinedomain.ColSector, func(v string) bool {
		_, ok := wanted[v]
		return ok
	})
}
