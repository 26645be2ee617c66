package restapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"bukken.rehub.jp/coredb"
	"bukken.rehub.jp/internal/app"
	"bukken.rehub.jp/internal/appconf"
	"bukken.rehub.jp/internal/clock"
	"bukken.rehub.jp/internal/logging"
	"bukken.rehub.jp/internal/match"
	"bukken.rehub.jp/internal/metrics"
)

func createTestApi(t *testing.T) *RestAPI {
	t.Helper()

	logger := logging.NewStructuredLogger(io.Discard, slog.LevelError)
	client, err := coredb.NewClient(coredb.NewConfig(":memory:", appconf.Test, false), logger)
	require.NoError(t, err)

	cfg := appconf.Config{
		Env:       appconf.Test,
		ApiKeys:   []string{"test"},
		RateLimit: 1000,
	}
	api := NewRestAPI(app.NewApplication(cfg, client, logger, clock.SystemClock{}, metrics.New()))

	t.Cleanup(func() {
		api.Shutdown()
		logging.SafeCloseWithLogging(client, logger, "test database")
	})
	return api
}

func serveRequest(t *testing.T, api *RestAPI, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	api.SetupAPIRoutes().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func envelopeList(t *testing.T, rec *httptest.ResponseRecorder) []interface{} {
	t.Helper()

	envelope := decodeEnvelope(t, rec)
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "expected data object in envelope")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "expected list in data")
	return list
}

func envelopeEntry(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	envelope := decodeEnvelope(t, rec)
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "expected data object in envelope")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "expected entry in data")
	return entry
}

func apiTestTenant(t *testing.T, api *RestAPI) int64 {
	t.Helper()
	id, err := api.DB.Queries.CreateTenant(context.Background(), "テスト不動産")
	require.NoError(t, err)
	return id
}

func apiTestCustomer(t *testing.T, api *RestAPI, tenantID int64, name, phone, email string) int64 {
	t.Helper()
	id, err := api.DB.Queries.CreateCustomer(context.Background(), coredb.CreateCustomerParams{
		TenantID:        tenantID,
		Name:            name,
		NameNormalized:  match.NormalizeName(name),
		Phone:           sql.NullString{String: phone, Valid: phone != ""},
		PhoneNormalized: sql.NullString{String: match.NormalizePhone(phone), Valid: phone != ""},
		Email:           sql.NullString{String: email, Valid: email != ""},
		Status:          coredb.CustomerStatusActive,
	})
	require.NoError(t, err)
	return id
}

func apiTestBuilding(t *testing.T, api *RestAPI, tenantID int64, name, address string) int64 {
	t.Helper()
	id, err := api.DB.Queries.CreateBuilding(context.Background(), coredb.CreateBuildingParams{
		TenantID:          tenantID,
		Name:              name,
		NameNormalized:    match.NormalizeName(name),
		Address:           sql.NullString{String: address, Valid: address != ""},
		AddressNormalized: sql.NullString{String: match.NormalizeAddress(address), Valid: address != ""},
	})
	require.NoError(t, err)
	return id
}
