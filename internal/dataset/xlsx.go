package dataset

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"
)

func readXLSX(path, sheet string) (string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", nil, err
	}
	return sheet, rows, nil
}

// writeXLSX rewrites the sheet's cells in place so the rest of the
// workbook is kept.
func writeXLSX(path, sheet string, headers []string, records [][]string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	write := func(row int, values []string, numbers bool) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			var value any = v
			if n, ok := cellNumber(v); ok && numbers {
				value = n
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write(1, headers, false); err != nil {
		return err
	}
	for i, rec := range records {
		if err := write(i+2, rec, true); err != nil {
			return err
		}
	}
	return f.Save()
}

// cellNumber reports whether v is a number that reads back as the same
// text, so values like "007" stay strings.
func cellNumber(v string) (float64, bool) {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	if strconv.FormatFloat(n, 'f', -1, 64) != v {
		return 0, false
	}
	return n, true
}
