package domain

import (
	"errors"
	"fmt"
	"strings"

	"cockpit/internal/shared/domain"
)

// Event représente un événement disponible pour l'extraction
type Event struct {
	source string
	name   string
	period domain.DateRange
}

// NewEvent crée une nouvelle instance de Event avec validation
func NewEvent(source, name string, period domain.DateRange) (*Event, error) {
	source = strings.TrimSpace(source)
	name = strings.TrimSpace(name)
	if source == "" {
		return nil, errors.New("event source cannot be empty")
	}
	if name == "" {
		return nil, errors.New("event name cannot be empty")
	}
	if period.IsZero() {
		return nil, errors.New("event period is required")
	}
	return &Event{source: source, name: name, period: period}, nil
}

// Source identifiant de la base source de l'événement
func (e *Event) Source() string {
	return e.source
}

// Name retourne le nom affiché de l'événement
func (e *Event) Name() string {
	return e.name
}

// Period retourne la période de l'événement
func (e *Event) Period() domain.DateRange {
	return e.period
}

// ValidatePeriod vérifie qu'une période d'extraction est incluse dans celle de l'événement
func (e *Event) ValidatePeriod(p domain.DateRange) error {
	if !p.Within(e.period) {
		return fmt.Errorf("period %s is outside event %q (%s)", p, e.name, e.period)
	}
	return nil
}

// Catalog liste ordonnée des événements
type Catalog struct {
	events []*Event
}

// NewCatalog crée un catalogue; au moins un événement est requis
func NewCatalog(events []*Event) (*Catalog, error) {
	if len(events) == 0 {
		return nil, errors.New("event catalog is empty")
	}
	return &Catalog{events: events}, nil
}

// Events retourne les événements dans l'ordre du fichier
func (c *Catalog) Events() []*Event {
	out := make([]*Event, len(c.events))
	copy(out, c.events)
	return out
}

// Find retrouve un événement par source, par nom ou par position (1-based)
func (c *Catalog) Find(ref string) (*Event, error) {
	ref = strings.TrimSpace(ref)
	for _, e := range c.events {
		if e.source == ref || strings.EqualFold(e.name, ref) {
			return e, nil
		}
	}
	var idx int
	if _, err := fmt.Sscanf(ref, "%d", &idx); err == nil && idx >= 1 && idx <= len(c.events) {
		return c.events[idx-1], nil
	}
	return nil, fmt.Errorf("event %q not found in catalog", ref)
}
