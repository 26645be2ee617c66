package coredb

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukken.rehub.jp/internal/appconf"
	"bukken.rehub.jp/internal/logging"
	"bukken.rehub.jp/internal/match"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	logger := logging.NewStructuredLogger(io.Discard, slog.LevelError)
	client, err := NewClient(NewConfig(":memory:", appconf.Test, false), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		logging.SafeCloseWithLogging(client, logger, "test database")
	})
	return client
}

func testTenant(t *testing.T, client *Client) int64 {
	t.Helper()
	id, err := client.Queries.CreateTenant(context.Background(), "テスト不動産")
	require.NoError(t, err)
	return id
}

func testCustomer(t *testing.T, client *Client, tenantID int64, name, phone, email string) int64 {
	t.Helper()
	id, err := client.Queries.CreateCustomer(context.Background(), CreateCustomerParams{
		TenantID:        tenantID,
		Name:            name,
		NameNormalized:  match.NormalizeName(name),
		Phone:           sql.NullString{String: phone, Valid: phone != ""},
		PhoneNormalized: sql.NullString{String: match.NormalizePhone(phone), Valid: phone != ""},
		Email:           sql.NullString{String: email, Valid: email != ""},
		Status:          CustomerStatusActive,
	})
	require.NoError(t, err)
	return id
}

func TestTenantRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	id := testTenant(t, client)

	tenant, err := client.Queries.GetTenant(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, tenant.ID)
	assert.Equal(t, "テスト不動産", tenant.Name)
	assert.False(t, tenant.CreatedAt.IsZero())
}

func TestNewClientAppliesSchema(t *testing.T) {
	client := newTestClient(t)

	counts, err := client.TableCounts()
	require.NoError(t, err)

	for _, table := range []string{"tenants", "customers", "buildings", "inquiries", "merge_records", "dismissed_pairs"} {
		_, ok := counts[table]
		assert.True(t, ok, "expected table %s in counts", table)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	client := newTestClient(t)

	_, err := client.DB.Exec(schema)
	assert.NoError(t, err)
}

func TestGetCustomerRoundTrip(t *testing.T) {
	client := newTestClient(t)
	tenantID := testTenant(t, client)

	id := testCustomer(t, client, tenantID, "田中太郎", "090-1234-5678", "tanaka@example.com")

	customer, err := client.Queries.GetCustomer(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "田中太郎", customer.Name)
	assert.Equal(t, "田中太郎", customer.NameNormalized)
	assert.Equal(t, "09012345678", customer.PhoneNormalized.String)
	assert.Equal(t, tenantID, customer.TenantID)
	assert.False(t, customer.CreatedAt.IsZero())
}

func TestTouchCustomerReportsMissingRow(t *testing.T) {
	client := newTestClient(t)
	tenantID := testTenant(t, client)
	id := testCustomer(t, client, tenantID, "田中太郎", "", "a@example.com")

	affected, err := client.Queries.TouchCustomer(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = client.Queries.TouchCustomer(context.Background(), 9999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestUniqueEmailPerTenant(t *testing.T) {
	client := newTestClient(t)
	tenantA := testTenant(t, client)
	tenantB := testTenant(t, client)

	testCustomer(t, client, tenantA, "田中太郎", "", "dup@example.com")

	// Same email in another tenant is fine.
	testCustomer(t, client, tenantB, "佐藤花子", "", "dup@example.com")

	// Same email in the same tenant is rejected.
	_, err := client.Queries.CreateCustomer(context.Background(), CreateCustomerParams{
		TenantID:       tenantA,
		Name:           "鈴木一郎",
		NameNormalized: "鈴木一郎",
		Email:          sql.NullString{String: "dup@example.com", Valid: true},
		Status:         CustomerStatusActive,
	})
	assert.Error(t, err)
}

func TestCountCustomersWithEmailExcludesMergePair(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	tenantID := testTenant(t, client)

	a := testCustomer(t, client, tenantID, "田中太郎", "", "shared@example.com")
	b := testCustomer(t, client, tenantID, "田中 太郎", "", "")

	count, err := client.Queries.CountCustomersWithEmail(ctx, UniqueFieldCollisionParams{
		TenantID: tenantID,
		Value:    "shared@example.com",
		ExcludeA: a,
		ExcludeB: b,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = client.Queries.CountCustomersWithEmail(ctx, UniqueFieldCollisionParams{
		TenantID: tenantID,
		Value:    "shared@example.com",
		ExcludeA: b,
		ExcludeB: 9999,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestInsertCustomerWithIDRestoresRow(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	tenantID := testTenant(t, client)

	id := testCustomer(t, client, tenantID, "田中太郎", "090-1234-5678", "a@example.com")
	original, err := client.Queries.GetCustomer(ctx, id)
	require.NoError(t, err)

	require.NoError(t, client.Queries.DeleteCustomer(ctx, id))

	require.NoError(t, client.Queries.InsertCustomerWithID(ctx, original))

	restored, err := client.Queries.GetCustomer(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, original.Name, restored.Name)
	assert.Equal(t, original.Phone, restored.Phone)
}

func TestListCustomersByNameContains(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	tenantID := testTenant(t, client)

	testCustomer(t, client, tenantID, "田中太郎", "", "a@example.com")
	testCustomer(t, client, tenantID, "田中次郎", "", "b@example.com")
	testCustomer(t, client, tenantID, "佐藤花子", "", "c@example.com")

	rows, err := client.Queries.ListCustomersByNameContains(ctx, ListCustomersByNameContainsParams{
		TenantID:       tenantID,
		NameNormalized: "田中",
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
