package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"brightideas/entities"
)

const (
	sheetSummary   = "Summary"
	sheetSteps     = "Steps"
	sheetResources = "Resources"
)

// XLSX writes the plan as a workbook with Summary, Steps and Resources sheets.
func XLSX(idea *entities.Idea, plan *entities.Plan) ([]byte, error) {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	rows := [][]any{
		{"Idea", idea.Title},
		{"Description", idea.OriginalDescription},
		{"Status", string(plan.Status)},
		{"Active", plan.IsActive},
		{"Summary", plan.Summary},
	}
	if err := writeRows(x, sheetSummary, rows); err != nil {
		return nil, err
	}

	if _, err := x.NewSheet(sheetSteps); err != nil {
		return nil, err
	}
	rows = [][]any{{"Order", "Title", "Description", "Estimated Time"}}
	for _, s := range plan.Steps {
		rows = append(rows, []any{s.Order, s.Title, s.Description, deref(s.EstimatedTime)})
	}
	if err := writeRows(x, sheetSteps, rows); err != nil {
		return nil, err
	}

	if _, err := x.NewSheet(sheetResources); err != nil {
		return nil, err
	}
	rows = [][]any{{"Title", "Type", "URL", "Description"}}
	for _, r := range plan.Resources {
		rows = append(rows, []any{r.Title, r.Type, deref(r.URL), deref(r.Description)})
	}
	if err := writeRows(x, sheetResources, rows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := x.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(x *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
