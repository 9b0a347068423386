// Package export renders the budget ledger as an Excel workbook for
// download. Pending cells and the totals row are written as formulas so the
// sheet stays live when edited offline.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/morales/invitations/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

const budgetSheet = "Budget"

// headerRow is the spreadsheet row holding the column titles; data rows
// start immediately below it.
const headerRow = 2

// WriteBudgetWorkbook writes the ledger as an .xlsx workbook to w.
func WriteBudgetWorkbook(w io.Writer, items []domain.BudgetItem, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), budgetSheet)

	if err := f.SetCellValue(budgetSheet, "A1", "Budget as of "+generatedAt.Format("2006-01-02")); err != nil {
		return fmt.Errorf("write title: %w", err)
	}

	headers := []string{"Concept", "Budgeted", "Paid", "Pending"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(budgetSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(budgetSheet, headerRow, headerRow, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i := range items {
		row := headerRow + 1 + i
		if err := f.SetCellValue(budgetSheet, fmt.Sprintf("A%d", row), items[i].Concept); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellValue(budgetSheet, fmt.Sprintf("B%d", row), items[i].Budgeted); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellValue(budgetSheet, fmt.Sprintf("C%d", row), items[i].Paid); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellFormula(budgetSheet, fmt.Sprintf("D%d", row), fmt.Sprintf("B%d-C%d", row, row)); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
	}

	firstData := headerRow + 1
	lastData := headerRow + len(items)
	totalRow := lastData + 1
	if err := f.SetCellValue(budgetSheet, fmt.Sprintf("A%d", totalRow), "Total"); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}
	for _, col := range []string{"B", "C", "D"} {
		formula := fmt.Sprintf("SUM(%s%d:%s%d)", col, firstData, col, lastData)
		if len(items) == 0 {
			formula = "0"
		}
		if err := f.SetCellFormula(budgetSheet, fmt.Sprintf("%s%d", col, totalRow), formula); err != nil {
			return fmt.Errorf("write totals: %w", err)
		}
	}
	if err := f.SetRowStyle(budgetSheet, totalRow, totalRow, bold); err != nil {
		return fmt.Errorf("style totals: %w", err)
	}

	if err := f.SetColWidth(budgetSheet, "A", "A", 32); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	if err := f.SetColWidth(budgetSheet, "B", "D", 16); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
