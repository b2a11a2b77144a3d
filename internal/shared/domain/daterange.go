package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Formats de date
const (
	BRLayout  = "02/01/2006"
	ISOLayout = "2006-01-02"
)

// DateRange période calendaire, bornes incluses
// DESIGN PATTERN: Value Object (DDD)
//   - Immutable: pas de setters, valeurs fixées à la création
//   - Validation dans le constructeur (NewDateRange)
type DateRange struct {
	start time.Time
	end   time.Time
}

// ParseDate lit une date au format dd/mm/yyyy
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(BRLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected dd/mm/yyyy", value)
	}
	return t, nil
}

// NewDateRange crée une période; les heures sont ignorées, fin >= début
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return DateRange{}, errors.New("end date cannot be before start date")
	}
	return DateRange{start: start, end: end}, nil
}

// ParseDateRange crée une période à partir de deux dates dd/mm/yyyy
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(s, e)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Start retourne la date de début
func (dr DateRange) Start() time.Time {
	return dr.start
}

// End retourne la date de fin
func (dr DateRange) End() time.Time {
	return dr.end
}

// IsZero indique une période non initialisée
func (dr DateRange) IsZero() bool {
	return dr.start.IsZero() && dr.end.IsZero()
}

// Contains indique si le jour de t appartient à la période
func (dr DateRange) Contains(t time.Time) bool {
	day := truncateDay(t)
	return !day.Before(dr.start) && !day.After(dr.end)
}

// Within indique si la période est incluse dans other
func (dr DateRange) Within(other DateRange) bool {
	return other.Contains(dr.start) && other.Contains(dr.end)
}

// Days nombre de jours de la période, bornes incluses
func (dr DateRange) Days() int {
	return int(dr.end.Sub(dr.start).Hours()/24) + 1
}

// StartISO date de début au format yyyy-mm-dd
func (dr DateRange) StartISO() string { return dr.start.Format(ISOLayout) }

// EndISO date de fin au format yyyy-mm-dd
func (dr DateRange) EndISO() string { return dr.end.Format(ISOLayout) }

// StartBR date de début au format dd/mm/yyyy
func (dr DateRange) StartBR() string { return dr.start.Format(BRLayout) }

// EndBR date de fin au format dd/mm/yyyy
func (dr DateRange) EndBR() string { return dr.end.Format(BRLayout) }

// String implémente fmt.Stringer
func (dr DateRange) String() string {
	return dr.StartBR() + " - " + dr.EndBR()
}
