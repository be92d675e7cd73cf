package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	giftsSheet   = "GIFTS"
	summarySheet = "SUMMARY"
)

// WriteXLSX writes the GIFTS and SUMMARY sheets of a ledger as an .xlsx workbook.
func WriteXLSX(w io.Writer, l Ledger) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", giftsSheet); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating %s sheet: %w", summarySheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9EAD3"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}

	sheets := []struct {
		name       string
		rows       [][]any
		moneyCols  string
		lastColumn string
	}{
		{giftsSheet, BuildLedgerRows(l), "H:I", "J"},
		{summarySheet, BuildSummaryRows(l.Summary), "E:F", "F"},
	}

	for _, sh := range sheets {
		if err := writeRows(f, sh.name, sh.rows); err != nil {
			return err
		}
		if err := f.SetCellStyle(sh.name, "A1", sh.lastColumn+"1", headerStyle); err != nil {
			return fmt.Errorf("styling %s header: %w", sh.name, err)
		}
		if err := f.SetColStyle(sh.name, sh.moneyCols, moneyStyle); err != nil {
			return fmt.Errorf("styling %s money columns: %w", sh.name, err)
		}
		if err := f.SetColWidth(sh.name, "A", sh.lastColumn, 16); err != nil {
			return fmt.Errorf("sizing %s columns: %w", sh.name, err)
		}
		if err := f.SetPanes(sh.name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freezing %s header: %w", sh.name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
