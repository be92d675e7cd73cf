package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, testLedger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reading workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != giftsSheet || sheets[1] != summarySheet {
		t.Fatalf("sheets = %v, want [GIFTS SUMMARY]", sheets)
	}

	rows, err := f.GetRows(giftsSheet)
	if err != nil {
		t.Fatalf("reading %s: %v", giftsSheet, err)
	}
	if len(rows) != 3 {
		t.Fatalf("%s has %d rows, want 3", giftsSheet, len(rows))
	}
	if rows[1][0] != "Elif Hala" || rows[2][2] != "Dolar" {
		t.Errorf("gift rows = %v", rows[1:])
	}

	raw, err := f.GetCellValue(giftsSheet, "H3", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("reading H3: %v", err)
	}
	if raw != "3025.46" {
		t.Errorf("H3 = %q, want 3025.46", raw)
	}

	total, err := f.GetCellValue(summarySheet, "A4")
	if err != nil {
		t.Fatalf("reading summary: %v", err)
	}
	if total != "Total" {
		t.Errorf("SUMMARY!A4 = %q, want Total", total)
	}
}
