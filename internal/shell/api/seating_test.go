package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTable_Validation(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/tables", token, CreateTableRequest{
		Label:    "Mesa 1",
		Capacity: 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/v1/admin/tables", token, CreateTableRequest{
		Capacity: 8,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignGuest_CapacityEnforced(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)
	ctx := context.Background()

	family := createFamilyViaAPI(t, h, token, "Familia Pérez", "Ana", "Luis", "Pedro")
	rec := doRequest(t, h, http.MethodPost, "/api/v1/families/slug/"+family.Slug+"/confirm", "", ConfirmRequest{
		Guests: []string{"Ana", "Luis", "Pedro"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	table := createTableViaAPI(t, h, token, "Mesa 1", 2)

	guests, err := s.ListGuestsByFamily(ctx, family.ID)
	require.NoError(t, err)
	require.Len(t, guests, 3)

	for i := 0; i < 2; i++ {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+table.ID+"/assign", token, AssignGuestRequest{
			GuestID: guests[i].ID,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	// The third seat does not exist.
	rec = doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+table.ID+"/assign", token, AssignGuestRequest{
		GuestID: guests[2].ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "table_full", resp.Code)
}

func TestAssignGuest_RepeatIsIdempotent(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)
	ctx := context.Background()

	family := createFamilyViaAPI(t, h, token, "Familia Pérez", "Ana")
	doRequest(t, h, http.MethodPost, "/api/v1/families/slug/"+family.Slug+"/confirm", "", ConfirmRequest{})
	table := createTableViaAPI(t, h, token, "Mesa 1", 1)

	guests, err := s.ListGuestsByFamily(ctx, family.ID)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+table.ID+"/assign", token, AssignGuestRequest{
			GuestID: guests[0].ID,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	count, err := s.CountTableOccupants(ctx, table.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAssignGuest_SeatedElsewhereRejected(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)
	ctx := context.Background()

	family := createFamilyViaAPI(t, h, token, "Familia Pérez", "Ana")
	doRequest(t, h, http.MethodPost, "/api/v1/families/slug/"+family.Slug+"/confirm", "", ConfirmRequest{})
	first := createTableViaAPI(t, h, token, "Mesa 1", 4)
	second := createTableViaAPI(t, h, token, "Mesa 2", 4)

	guests, err := s.ListGuestsByFamily(ctx, family.ID)
	require.NoError(t, err)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+first.ID+"/assign", token, AssignGuestRequest{
		GuestID: guests[0].ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+second.ID+"/assign", token, AssignGuestRequest{
		GuestID: guests[0].ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "guest_already_seated", resp.Code)
}

func TestUnassignGuest(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)
	ctx := context.Background()

	family := createFamilyViaAPI(t, h, token, "Familia Pérez", "Ana")
	doRequest(t, h, http.MethodPost, "/api/v1/families/slug/"+family.Slug+"/confirm", "", ConfirmRequest{})
	table := createTableViaAPI(t, h, token, "Mesa 1", 4)

	guests, err := s.ListGuestsByFamily(ctx, family.ID)
	require.NoError(t, err)
	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+table.ID+"/assign", token, AssignGuestRequest{
		GuestID: guests[0].ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+table.ID+"/unassign", token, AssignGuestRequest{
		GuestID: guests[0].ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[GuestResponse](t, rec)
	assert.Nil(t, resp.TableID)

	// Unassigning twice is a conflict, the guest no longer sits here.
	rec = doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+table.ID+"/unassign", token, AssignGuestRequest{
		GuestID: guests[0].ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteTable_VacatesSeats(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)
	ctx := context.Background()

	family := createFamilyViaAPI(t, h, token, "Familia Pérez", "Ana")
	doRequest(t, h, http.MethodPost, "/api/v1/families/slug/"+family.Slug+"/confirm", "", ConfirmRequest{})
	table := createTableViaAPI(t, h, token, "Mesa 1", 4)

	guests, err := s.ListGuestsByFamily(ctx, family.ID)
	require.NoError(t, err)
	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+table.ID+"/assign", token, AssignGuestRequest{
		GuestID: guests[0].ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, "/api/v1/admin/tables/"+table.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// The guest survives, unseated.
	got, err := s.GetGuest(ctx, guests[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got.TableID)
}

func TestListTables_Occupancy(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)
	ctx := context.Background()

	family := createFamilyViaAPI(t, h, token, "Familia Pérez", "Ana", "Luis")
	doRequest(t, h, http.MethodPost, "/api/v1/families/slug/"+family.Slug+"/confirm", "", ConfirmRequest{
		Guests: []string{"Ana", "Luis"},
	})
	table := createTableViaAPI(t, h, token, "Mesa 1", 8)

	guests, err := s.ListGuestsByFamily(ctx, family.ID)
	require.NoError(t, err)
	for _, g := range guests {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+table.ID+"/assign", token, AssignGuestRequest{
			GuestID: g.ID,
		})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(t, h, http.MethodGet, "/api/v1/admin/tables", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[ListTablesResponse](t, rec)
	require.Len(t, resp.Tables, 1)
	assert.Equal(t, 2, resp.Tables[0].Seated)
	assert.Equal(t, 6, resp.Tables[0].Available)
	assert.Len(t, resp.Tables[0].Guests, 2)
	assert.Equal(t, family.Name, resp.Tables[0].Guests[0].FamilyName)
}

func TestListUnseatedGuests_Search(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)
	ctx := context.Background()

	perez := createFamilyViaAPI(t, h, token, "Familia Pérez", "Ana")
	gomez := createFamilyViaAPI(t, h, token, "Familia Gómez", "Pedro")
	doRequest(t, h, http.MethodPost, "/api/v1/families/slug/"+perez.Slug+"/confirm", "", ConfirmRequest{})
	doRequest(t, h, http.MethodPost, "/api/v1/families/slug/"+gomez.Slug+"/confirm", "", ConfirmRequest{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/admin/guests/unseated", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[UnseatedGuestsResponse](t, rec)
	assert.Equal(t, 2, resp.Total)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/admin/guests/unseated?q=pedro", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[UnseatedGuestsResponse](t, rec)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Pedro", resp.Guests[0].Name)

	// Seated guests fall out of the pool.
	table := createTableViaAPI(t, h, token, "Mesa 1", 8)
	guests, err := s.ListGuestsByFamily(ctx, perez.ID)
	require.NoError(t, err)
	rec = doRequest(t, h, http.MethodPost, "/api/v1/admin/tables/"+table.ID+"/assign", token, AssignGuestRequest{
		GuestID: guests[0].ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/admin/guests/unseated", token, nil)
	resp = decodeBody[UnseatedGuestsResponse](t, rec)
	assert.Equal(t, 1, resp.Total)
}
