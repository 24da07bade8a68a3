package reports

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteCSV streams the trial balance as CSV.
func WriteCSV(w io.Writer, tb TrialBalance) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"Group", "Nature", "Debit", "Credit"}); err != nil {
		return fmt.Errorf("reports: write csv header: %w", err)
	}
	for _, row := range tb.Rows {
		if err := writer.Write([]string{
			row.GroupName,
			string(row.Nature),
			fmt.Sprintf("%.2f", row.Debit),
			fmt.Sprintf("%.2f", row.Credit),
		}); err != nil {
			return fmt.Errorf("reports: write csv row: %w", err)
		}
	}
	if err := writer.Write([]string{"Total", "",
		fmt.Sprintf("%.2f", tb.TotalDebit), fmt.Sprintf("%.2f", tb.TotalCredit)}); err != nil {
		return fmt.Errorf("reports: write csv total: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

const xlsxSheet = "Trial Balance"

// BuildXLSX renders the trial balance as a spreadsheet.
func BuildXLSX(tb TrialBalance) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("reports: xlsx sheet: %w", err)
	}

	headers := []string{"Group", "Nature", "Debit", "Credit"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(xlsxSheet, cell, header); err != nil {
			return nil, fmt.Errorf("reports: xlsx header: %w", err)
		}
	}

	for i, row := range tb.Rows {
		values := []any{row.GroupName, string(row.Nature), row.Debit, row.Credit}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(xlsxSheet, cell, val); err != nil {
				return nil, fmt.Errorf("reports: xlsx cell: %w", err)
			}
		}
	}

	totalRow := len(tb.Rows) + 2
	for col, val := range []any{"Total", "", tb.TotalDebit, tb.TotalCredit} {
		cell, _ := excelize.CoordinatesToCellName(col+1, totalRow)
		if err := f.SetCellValue(xlsxSheet, cell, val); err != nil {
			return nil, fmt.Errorf("reports: xlsx total: %w", err)
		}
	}
	return f, nil
}
