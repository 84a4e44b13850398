// Package sheet reads and writes the verification-criteria workbook.
package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Kavirubc/tplcheck/pkg/models"
)

// DefaultSheet is the sheet written by Encode.
const DefaultSheet = "Sheet1"

// Decode reads the first sheet of an xlsx workbook. The header row must name every
// input column; order does not matter and extra columns are ignored.
// Rows with no cell content are skipped. Cell text is kept verbatim except the
// compliance flag, which is trimmed.
func Decode(r io.Reader) ([]models.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %w", models.ErrInputFormat, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", models.ErrInputFormat)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %w", models.ErrInputFormat, sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", models.ErrInputFormat, sheets[0])
	}

	index, err := locateColumns(records[0])
	if err != nil {
		return nil, err
	}

	var rows []models.Row
	for _, record := range records[1:] {
		if blank(record) {
			continue
		}
		rec := make(map[string]string, len(index))
		for name, col := range index {
			if col >= len(record) {
				continue
			}
			if name == models.ColTemplateStructure {
				rec[name] = strings.TrimSpace(record[col])
			} else {
				rec[name] = record[col]
			}
		}
		rows = append(rows, models.RowFromRecord(rec))
	}
	return rows, nil
}

// locateColumns maps each input column name to its position in the header.
func locateColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	index := make(map[string]int, len(models.InputColumns))
	var missing []string
	for _, name := range models.InputColumns {
		col, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		index[name] = col
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns: %s", models.ErrInputFormat, strings.Join(missing, ", "))
	}
	return index, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Encode writes rows as a single-sheet workbook in models.OutputColumns order.
func Encode(w io.Writer, rows []models.ProcessedRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet != DefaultSheet {
		if err := f.SetSheetName(sheet, DefaultSheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	if err := writeRow(f, 1, models.OutputColumns); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(f, i+2, row.Values()); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", n, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(DefaultSheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", n, err)
	}
	return nil
}
