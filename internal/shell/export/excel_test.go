package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/morales/invitations/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testItems() []domain.BudgetItem {
	return []domain.BudgetItem{
		{ID: "fin_1", Concept: "Flores", Budgeted: 1500000, Paid: 500000},
		{ID: "fin_2", Concept: "Catering", Budgeted: 8000000, Paid: 8000000},
	}
}

func TestWriteBudgetWorkbook_CellsAndFormulas(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBudgetWorkbook(&buf, testItems(), time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(budgetSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Budget as of 2026-02-14", title)

	concept, err := f.GetCellValue(budgetSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Flores", concept)

	budgeted, err := f.GetCellValue(budgetSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "1500000", budgeted)

	pending, err := f.GetCellFormula(budgetSheet, "D3")
	require.NoError(t, err)
	assert.Equal(t, "B3-C3", pending)

	totalLabel, err := f.GetCellValue(budgetSheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Total", totalLabel)

	totalBudgeted, err := f.GetCellFormula(budgetSheet, "B5")
	require.NoError(t, err)
	assert.Equal(t, "SUM(B3:B4)", totalBudgeted)
}

func TestWriteBudgetWorkbook_EmptyLedger(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBudgetWorkbook(&buf, nil, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	totalLabel, err := f.GetCellValue(budgetSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Total", totalLabel)
}
