package restapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerDuplicatesHandlerReturnsRankedCandidates(t *testing.T) {
	api := createTestApi(t)
	tenantID := apiTestTenant(t, api)

	subjectID := apiTestCustomer(t, api, tenantID, "田中太郎", "090-1234-5678", "a@example.com")
	dupID := apiTestCustomer(t, api, tenantID, "田中 太郎", "090-1234-5678", "")

	rec := serveRequest(t, api, http.MethodGet,
		fmt.Sprintf("/api/v1/customers/%d/duplicates?key=test", subjectID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := envelopeList(t, rec)
	require.Len(t, list, 1)

	candidate := list[0].(map[string]interface{})
	assert.Equal(t, float64(dupID), candidate["id"])
	assert.Equal(t, float64(90), candidate["score"])
	assert.Equal(t, "highest", candidate["confidence"])
}

func TestCustomerDuplicatesHandlerUnknownCustomer(t *testing.T) {
	api := createTestApi(t)

	rec := serveRequest(t, api, http.MethodGet, "/api/v1/customers/9999/duplicates?key=test", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomerDuplicatesHandlerRejectsBadID(t *testing.T) {
	api := createTestApi(t)

	rec := serveRequest(t, api, http.MethodGet, "/api/v1/customers/abc/duplicates?key=test", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerDuplicatesHandlerRequiresAPIKey(t *testing.T) {
	api := createTestApi(t)
	tenantID := apiTestTenant(t, api)
	subjectID := apiTestCustomer(t, api, tenantID, "田中太郎", "", "a@example.com")

	rec := serveRequest(t, api, http.MethodGet,
		fmt.Sprintf("/api/v1/customers/%d/duplicates", subjectID), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuildingDuplicatesHandler(t *testing.T) {
	api := createTestApi(t)
	tenantID := apiTestTenant(t, api)

	subjectID := apiTestBuilding(t, api, tenantID, "サクラハイツ", "東京都渋谷区神南1-2-3")
	dupID := apiTestBuilding(t, api, tenantID, "サクラハイツ", "渋谷区神南1-2-3")

	rec := serveRequest(t, api, http.MethodGet,
		fmt.Sprintf("/api/v1/buildings/%d/duplicates?key=test", subjectID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := envelopeList(t, rec)
	require.Len(t, list, 1)

	candidate := list[0].(map[string]interface{})
	assert.Equal(t, float64(dupID), candidate["id"])

	reasons := candidate["reasons"].([]interface{})
	assert.Contains(t, reasons, "名前一致")
	assert.Contains(t, reasons, "住所一致")
}

func TestDuplicateGroupsHandler(t *testing.T) {
	api := createTestApi(t)
	tenantID := apiTestTenant(t, api)

	apiTestCustomer(t, api, tenantID, "田中太郎", "090-1234-5678", "a@example.com")
	apiTestCustomer(t, api, tenantID, "田中 太郎", "09012345678", "")
	apiTestCustomer(t, api, tenantID, "佐藤花子", "080-0000-0000", "")

	rec := serveRequest(t, api, http.MethodGet,
		fmt.Sprintf("/api/v1/customers/duplicate-groups?tenantId=%d&key=test", tenantID), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	list := envelopeList(t, rec)
	require.Len(t, list, 1)

	group := list[0].(map[string]interface{})
	assert.Equal(t, "09012345678", group["identifier"])
	assert.Len(t, group["customers"].([]interface{}), 2)
}

func TestDuplicateGroupsHandlerRequiresTenantID(t *testing.T) {
	api := createTestApi(t)

	rec := serveRequest(t, api, http.MethodGet, "/api/v1/customers/duplicate-groups?key=test", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
