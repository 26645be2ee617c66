package mergeengine

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukken.rehub.jp/coredb"
)

func TestMergeThenUndoRestoresBothSides(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{
		name:  "田中太郎",
		email: "tanaka@example.com",
		notes: "本命",
	})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{
		name:  "田中 太郎",
		phone: "090-1234-5678",
		notes: "重複疑い",
	})

	secondaryInquiry, err := client.Queries.CreateInquiry(ctx, coredb.CreateInquiryParams{
		TenantID: tenantID, CustomerID: secondaryID, Status: "open",
	})
	require.NoError(t, err)

	record, err := engine.Merge(ctx, MergeRequest{
		PrimaryID:   primaryID,
		SecondaryID: secondaryID,
		Operator:    "operator-1",
	})
	require.NoError(t, err)

	require.NoError(t, engine.Undo(ctx, record.ID, "operator-2"))

	// The secondary row is back under its original id with its original values.
	secondary, err := client.Queries.GetCustomer(ctx, secondaryID)
	require.NoError(t, err)
	assert.Equal(t, "田中 太郎", secondary.Name)
	assert.Equal(t, "090-1234-5678", secondary.Phone.String)
	assert.Equal(t, "重複疑い", secondary.Notes.String)

	// The primary's pre-merge values are restored.
	primary, err := client.Queries.GetCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.False(t, primary.Phone.Valid)
	assert.Equal(t, "本命", primary.Notes.String)

	// The recorded dependent went back to the secondary.
	inquiryIDs, err := client.Queries.InquiryIDsForCustomer(ctx, secondaryID)
	require.NoError(t, err)
	assert.Equal(t, []int64{secondaryInquiry}, inquiryIDs)

	// The record is flagged undone with the undo operator.
	reloaded, err := client.Queries.GetMergeRecord(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, coredb.MergeStatusUndone, reloaded.Status)
	assert.Equal(t, "operator-2", reloaded.UndoneBy.String)
	assert.True(t, reloaded.UndoneAt.Valid)
}

func TestUndoKeepsDependentsCreatedAfterMerge(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", email: "a@example.com"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎"})

	record, err := engine.Merge(ctx, MergeRequest{PrimaryID: primaryID, SecondaryID: secondaryID, Operator: "op"})
	require.NoError(t, err)

	// A new inquiry arrives between merge and undo.
	newInquiry, err := client.Queries.CreateInquiry(ctx, coredb.CreateInquiryParams{
		TenantID: tenantID, CustomerID: primaryID, Status: "open",
	})
	require.NoError(t, err)

	require.NoError(t, engine.Undo(ctx, record.ID, "op"))

	// Only snapshotted ids move back; the new inquiry stays with the primary.
	primaryInquiries, err := client.Queries.InquiryIDsForCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.Contains(t, primaryInquiries, newInquiry)
}

func TestUndoTwiceFails(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", email: "a@example.com"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎"})

	record, err := engine.Merge(ctx, MergeRequest{PrimaryID: primaryID, SecondaryID: secondaryID, Operator: "op"})
	require.NoError(t, err)

	require.NoError(t, engine.Undo(ctx, record.ID, "op"))

	err = engine.Undo(ctx, record.ID, "op")
	var mergeErr *MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, ReasonAlreadyUndone, mergeErr.Reason)

	// The restored secondary was not duplicated.
	var count int
	row := client.DB.QueryRow("SELECT COUNT(*) FROM customers WHERE id = ?", secondaryID)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUndoUnknownRecordFails(t *testing.T) {
	engine, _ := newTestEngine(t)

	err := engine.Undo(context.Background(), "no-such-record", "op")

	var mergeErr *MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, ReasonNotFound, mergeErr.Reason)
}

func TestUndoAfterMergeThatKeptSecondaryEmail(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", lineID: "line-tanaka"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎", email: "tanaka@example.com"})

	record, err := engine.Merge(ctx, MergeRequest{PrimaryID: primaryID, SecondaryID: secondaryID, Operator: "op"})
	require.NoError(t, err)

	// The primary now carries the secondary's email; undo has to hand it
	// back without tripping the tenant-scoped unique index.
	require.NoError(t, engine.Undo(ctx, record.ID, "op-2"))

	primary, err := client.Queries.GetCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.False(t, primary.Email.Valid)
	assert.Equal(t, "line-tanaka", primary.LineUserID.String)

	secondary, err := client.Queries.GetCustomer(ctx, secondaryID)
	require.NoError(t, err)
	assert.Equal(t, "tanaka@example.com", secondary.Email.String)
}

func TestUndoFailsWhenPrimaryDeleted(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", email: "a@example.com"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎"})

	record, err := engine.Merge(ctx, MergeRequest{PrimaryID: primaryID, SecondaryID: secondaryID, Operator: "op"})
	require.NoError(t, err)

	// Detach the merge audit note so the row delete passes foreign keys.
	_, err = client.DB.Exec("DELETE FROM activity_logs WHERE customer_id = ?", primaryID)
	require.NoError(t, err)
	require.NoError(t, client.Queries.DeleteCustomer(ctx, primaryID))

	err = engine.Undo(ctx, record.ID, "op")
	var mergeErr *MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, ReasonNotFound, mergeErr.Reason)

	_, err = client.Queries.GetCustomer(ctx, secondaryID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
