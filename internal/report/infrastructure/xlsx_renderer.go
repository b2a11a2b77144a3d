package infrastructure

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"cockpit/internal/report/domain"
)

const (
	summarySheet = "Resumo"
	detailSheet  = "Detalhe"
)

// XLSXRenderer remplit un classeur modèle: substitution des {{jetons}} et
// insertion de la table de détail à la cellule ancre {{tabela_geral}}
type XLSXRenderer struct {
	templatePath string
	log          logrus.FieldLogger
}

// NewXLSXRenderer crée un renderer; sans modèle un classeur par défaut est produit
func NewXLSXRenderer(templatePath string, log logrus.FieldLogger) *XLSXRenderer {
	return &XLSXRenderer{templatePath: templatePath, log: log}
}

// Extension extension du document produit
func (r *XLSXRenderer) Extension() string {
	return ".xlsx"
}

// Render écrit le document dans outPath
func (r *XLSXRenderer) Render(ctx context.Context, in *domain.RenderInstructions, outPath string) error {
	if r.templatePath == "" {
		return r.renderDefault(in, outPath)
	}

	f, err := excelize.OpenFile(r.templatePath)
	if err != nil {
		return fmt.Errorf("open template %s: %w", r.templatePath, err)
	}
	defer f.Close()

	anchored := false
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return err
		}
		found, err := r.fillSheet(f, sheet, in)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		anchored = anchored || found
	}

	if !anchored {
		r.log.WithField("template", r.templatePath).Warn("no detail anchor in template, detail written to its own sheet")
		if err := writeDetailSheet(f, in.Detail); err != nil {
			return err
		}
	}

	return f.SaveAs(outPath)
}

type cellRef struct {
	col, row int
}

// fillSheet remplace les jetons d'une feuille et développe l'ancre de détail
func (r *XLSXRenderer) fillSheet(f *excelize.File, sheet string, in *domain.RenderInstructions) (bool, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return false, err
	}

	var anchor *cellRef
	anchorToken := domain.PhDetailTable.Token()

	for ri, row := range rows {
		for ci, value := range row {
			if !strings.Contains(value, "{{") {
				continue
			}
			if strings.TrimSpace(value) == anchorToken && anchor == nil {
				anchor = &cellRef{col: ci + 1, row: ri + 1}
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+1)
			if err != nil {
				return false, err
			}
			if err := f.SetCellValue(sheet, cell, substitute(value, in.Placeholders)); err != nil {
				return false, err
			}
		}
	}

	if anchor == nil {
		return false, nil
	}
	return true, r.expandDetail(f, sheet, *anchor, in.Detail)
}

// substitute remplace chaque jeton connu par sa valeur
func substitute(text string, ctx domain.Context) string {
	for k, v := range ctx {
		text = strings.ReplaceAll(text, k.Token(), v)
	}
	return text
}

// expandDetail écrit les lignes de détail à partir de l'ancre, en insérant des lignes
func (r *XLSXRenderer) expandDetail(f *excelize.File, sheet string, at cellRef, detail *domain.DetailTable) error {
	anchorCell, err := excelize.CoordinatesToCellName(at.col, at.row)
	if err != nil {
		return err
	}

	if detail == nil || len(detail.Rows) == 0 {
		r.log.WithField("sheet", sheet).Warn("detail table is empty, no rows written")
		return f.SetCellValue(sheet, anchorCell, "")
	}

	if extra := len(detail.Rows) - 1; extra > 0 {
		if err := f.InsertRows(sheet, at.row+1, extra); err != nil {
			return err
		}
	}

	for i, row := range detail.Rows {
		cell, err := excelize.CoordinatesToCellName(at.col, at.row+i)
		if err != nil {
			return err
		}
		values := cellValues(row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// cellValues convertit les valeurs numériques pour que le tableur les traite comme nombres
// La première colonne identifie la ligne et reste du texte ("007" ne devient pas 7).
func cellValues(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		if i == 0 {
			out[i] = v
			continue
		}
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			out[i] = n
		} else {
			out[i] = v
		}
	}
	return out
}

// renderDefault classeur sans modèle: feuille de synthèse et feuille de détail
func (r *XLSXRenderer) renderDefault(in *domain.RenderInstructions, outPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}

	keys := make([]string, 0, len(in.Placeholders))
	for k := range in.Placeholders {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	for i, k := range keys {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := []any{k, in.Placeholders[domain.Placeholder(k)]}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}

	if err := writeDetailSheet(f, in.Detail); err != nil {
		return err
	}
	return f.SaveAs(outPath)
}

// writeDetailSheet écrit en-tête et lignes de détail dans une feuille dédiée
func writeDetailSheet(f *excelize.File, detail *domain.DetailTable) error {
	if detail == nil {
		return nil
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return err
	}

	head := make([]any, len(detail.Columns))
	for i, c := range detail.Columns {
		head[i] = c
	}
	if err := f.SetSheetRow(detailSheet, "A1", &head); err != nil {
		return err
	}
	for i, row := range detail.Rows {
		values := cellValues(row)
		if err := f.SetSheetRow(detailSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return err
		}
	}
	return nil
}
