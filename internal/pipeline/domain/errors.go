package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyResult   = errors.New("empty result")
	ErrMissingData   = errors.New("missing staged data")
	ErrNotFound      = errors.New("not found")
	ErrMissingColumn = errors.New("missing column")
)

// EmptyResultError l'extraction n'a produit aucune ligne
type EmptyResultError struct {
	Source string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: no rows for %s", ErrEmptyResult, e.Source)
}

func (e *EmptyResultError) Unwrap() error { return ErrEmptyResult }

// MissingDataError une table staging requise est absente
type MissingDataError struct {
	Table      string
	ReportType string
	Filter     string
}

func (e *MissingDataError) Error() string {
	msg := fmt.Sprintf("%s: table %q", ErrMissingData, e.Table)
	if e.ReportType != "" {
		msg += fmt.Sprintf(" (report %s", e.ReportType)
		if e.Filter != "" {
			msg += fmt.Sprintf(", filter %q", e.Filter)
		}
		msg += ")"
	}
	return msg
}

func (e *MissingDataError) Unwrap() error { return ErrMissingData }

// NotFoundError la valeur de filtre ne correspond pas à exactement une ligne
type NotFoundError struct {
	ReportType string
	Filter     string
	Table      string
	Column     string
	Matches    int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q in %s.%s matched %d rows (report %s)",
		ErrNotFound, e.Filter, e.Table, e.Column, e.Matches, e.ReportType)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// MissingColumnError une ou plusieurs colonnes attendues sont absentes
type MissingColumnError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s in table %q", ErrMissingColumn, strings.Join(e.Columns, ", "), e.Table)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }
