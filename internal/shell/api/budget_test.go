package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCreateBudgetItem_SanitizesAmounts(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/budget", token, BudgetItemRequest{
		Concept:  "Flores",
		Budgeted: "$ 1.500.000",
		Paid:     "500000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[BudgetItemResponse](t, rec)
	assert.Equal(t, int64(1500000), resp.Budgeted)
	assert.Equal(t, int64(500000), resp.Paid)
	assert.Equal(t, int64(1000000), resp.Pending)
}

func TestListBudget_Totals(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)

	for _, req := range []BudgetItemRequest{
		{Concept: "Flores", Budgeted: "1000", Paid: "400"},
		{Concept: "Catering", Budgeted: "2000", Paid: "2000"},
	} {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/budget", token, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, h, http.MethodGet, "/api/v1/admin/budget", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[ListBudgetResponse](t, rec)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, int64(3000), resp.Budgeted)
	assert.Equal(t, int64(2400), resp.Paid)
	assert.Equal(t, int64(600), resp.Pending)
}

func TestUpdateBudgetItem(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/budget", token, BudgetItemRequest{
		Concept: "Flores",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decodeBody[BudgetItemResponse](t, rec)

	rec = doRequest(t, h, http.MethodPut, "/api/v1/admin/budget/"+item.ID, token, BudgetItemRequest{
		Concept:  "Flores y decoración",
		Budgeted: "no es un número",
		Paid:     "100",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[BudgetItemResponse](t, rec)
	assert.Equal(t, "Flores y decoración", resp.Concept)
	assert.Zero(t, resp.Budgeted)
	assert.Equal(t, int64(100), resp.Paid)
}

func TestDeleteBudgetItem_NotFound(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)

	rec := doRequest(t, h, http.MethodDelete, "/api/v1/admin/budget/fin_missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportBudget_ReturnsWorkbook(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/budget", token, BudgetItemRequest{
		Concept:  "Flores",
		Budgeted: "1000",
		Paid:     "400",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/admin/budget/export", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	concept, err := f.GetCellValue("Budget", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Flores", concept)
}
