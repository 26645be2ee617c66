package mergeengine

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukken.rehub.jp/coredb"
	"bukken.rehub.jp/internal/appconf"
	"bukken.rehub.jp/internal/clock"
	"bukken.rehub.jp/internal/logging"
	"bukken.rehub.jp/internal/match"
	"bukken.rehub.jp/internal/metrics"
)

func newTestEngine(t *testing.T) (*Engine, *coredb.Client) {
	t.Helper()

	logger := logging.NewStructuredLogger(io.Discard, slog.LevelError)
	client, err := coredb.NewClient(coredb.NewConfig(":memory:", appconf.Test, false), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		logging.SafeCloseWithLogging(client, logger, "test database")
	})

	return NewEngine(client, logger, clock.SystemClock{}, metrics.New()), client
}

func seedTenant(t *testing.T, client *coredb.Client) int64 {
	t.Helper()
	id, err := client.Queries.CreateTenant(context.Background(), "テスト不動産")
	require.NoError(t, err)
	return id
}

type customerSeed struct {
	name   string
	kana   string
	phone  string
	email  string
	lineID string
	status string
	notes  string
	tags   string
}

func seedCustomer(t *testing.T, client *coredb.Client, tenantID int64, seed customerSeed) int64 {
	t.Helper()

	if seed.status == "" {
		seed.status = coredb.CustomerStatusActive
	}

	id, err := client.Queries.CreateCustomer(context.Background(), coredb.CreateCustomerParams{
		TenantID:        tenantID,
		Name:            seed.name,
		NameNormalized:  match.NormalizeName(seed.name),
		NameKana:        sql.NullString{String: seed.kana, Valid: seed.kana != ""},
		Phone:           sql.NullString{String: seed.phone, Valid: seed.phone != ""},
		PhoneNormalized: sql.NullString{String: match.NormalizePhone(seed.phone), Valid: seed.phone != ""},
		Email:           sql.NullString{String: seed.email, Valid: seed.email != ""},
		LineUserID:      sql.NullString{String: seed.lineID, Valid: seed.lineID != ""},
		Status:          seed.status,
		Notes:           sql.NullString{String: seed.notes, Valid: seed.notes != ""},
		Tags:            sql.NullString{String: seed.tags, Valid: seed.tags != ""},
	})
	require.NoError(t, err)
	return id
}

func TestMergeCombinesDependentRecords(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", email: "tanaka@example.com"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎", phone: "090-1234-5678"})

	primaryInquiry, err := client.Queries.CreateInquiry(ctx, coredb.CreateInquiryParams{
		TenantID: tenantID, CustomerID: primaryID, Status: "open",
	})
	require.NoError(t, err)
	secondaryInquiry, err := client.Queries.CreateInquiry(ctx, coredb.CreateInquiryParams{
		TenantID: tenantID, CustomerID: secondaryID, Status: "open",
	})
	require.NoError(t, err)
	_, err = client.Queries.CreateActivityLog(ctx, coredb.CreateActivityLogParams{
		TenantID: tenantID, CustomerID: secondaryID, Body: "内見の相談",
	})
	require.NoError(t, err)
	_, err = client.Queries.CreateAccessGrant(ctx, secondaryID, 42)
	require.NoError(t, err)
	_, err = client.Queries.CreateMessageDraft(ctx, secondaryID,
		sql.NullString{String: "ご案内", Valid: true}, sql.NullString{String: "本文", Valid: true})
	require.NoError(t, err)

	record, err := engine.Merge(ctx, MergeRequest{
		PrimaryID:   primaryID,
		SecondaryID: secondaryID,
		Operator:    "operator-1",
		Reason:      "明らかな重複",
	})
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, coredb.MergeStatusCompleted, record.Status)
	assert.Equal(t, primaryID, record.PrimaryCustomerID)
	assert.Equal(t, "operator-1", record.Operator)
	assert.NotEmpty(t, record.Snapshot)

	// The secondary row is gone.
	_, err = client.Queries.GetCustomer(ctx, secondaryID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// Every dependent record now points at the primary.
	inquiryIDs, err := client.Queries.InquiryIDsForCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{primaryInquiry, secondaryInquiry}, inquiryIDs)

	grantIDs, err := client.Queries.AccessGrantIDsForCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.Len(t, grantIDs, 1)

	draftIDs, err := client.Queries.MessageDraftIDsForCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.Len(t, draftIDs, 1)
}

func TestMergeDefaultFieldResolution(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{
		name:  "田中太郎",
		email: "tanaka@example.com",
		notes: "初回面談済み",
		tags:  `["購入検討"]`,
	})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{
		name:   "田中 太郎",
		phone:  "090-1234-5678",
		status: coredb.CustomerStatusInactive,
		notes:  "電話で問い合わせ",
		tags:   `["賃貸検討","購入検討"]`,
	})

	_, err := engine.Merge(ctx, MergeRequest{
		PrimaryID:   primaryID,
		SecondaryID: secondaryID,
		Operator:    "operator-1",
	})
	require.NoError(t, err)

	merged, err := client.Queries.GetCustomer(ctx, primaryID)
	require.NoError(t, err)

	// Blank primary fields are filled from the secondary.
	assert.Equal(t, "090-1234-5678", merged.Phone.String)
	assert.Equal(t, "tanaka@example.com", merged.Email.String)
	// Either side active keeps the result active.
	assert.Equal(t, coredb.CustomerStatusActive, merged.Status)
	// Notes concatenate, tags union with primary first.
	assert.Equal(t, "初回面談済み\n---\n電話で問い合わせ", merged.Notes.String)
	assert.Equal(t, `["購入検討","賃貸検討"]`, merged.Tags.String)
	// Normalized columns track the merged values.
	assert.Equal(t, "09012345678", merged.PhoneNormalized.String)
}

func TestMergeExplicitResolutionOverridesDefault(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", phone: "090-0000-0000", email: "a@example.com"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎", phone: "090-1234-5678"})

	_, err := engine.Merge(ctx, MergeRequest{
		PrimaryID:   primaryID,
		SecondaryID: secondaryID,
		Resolutions: Resolutions{FieldPhone: ChoiceSecondary, FieldName: ChoiceSecondary},
		Operator:    "operator-1",
	})
	require.NoError(t, err)

	merged, err := client.Queries.GetCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.Equal(t, "090-1234-5678", merged.Phone.String)
	assert.Equal(t, "田中 太郎", merged.Name)
}

func TestMergeRecordsDiscardedUniqueValues(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", email: "keep@example.com"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎", email: "discard@example.com"})

	_, err := engine.Merge(ctx, MergeRequest{
		PrimaryID:   primaryID,
		SecondaryID: secondaryID,
		Operator:    "operator-1",
	})
	require.NoError(t, err)

	merged, err := client.Queries.GetCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.Equal(t, "keep@example.com", merged.Email.String)
	assert.Contains(t, merged.Notes.String, "統合で破棄: メールアドレス discard@example.com")
}

func TestMergeSameEntityFails(t *testing.T) {
	engine, client := newTestEngine(t)
	tenantID := seedTenant(t, client)
	id := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", email: "a@example.com"})

	_, err := engine.Merge(context.Background(), MergeRequest{PrimaryID: id, SecondaryID: id, Operator: "op"})

	var mergeErr *MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, ReasonSameEntity, mergeErr.Reason)
}

func TestMergeUnknownCustomerFails(t *testing.T) {
	engine, client := newTestEngine(t)
	tenantID := seedTenant(t, client)
	id := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", email: "a@example.com"})

	_, err := engine.Merge(context.Background(), MergeRequest{PrimaryID: id, SecondaryID: 9999, Operator: "op"})

	var mergeErr *MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, ReasonNotFound, mergeErr.Reason)
}

func TestMergeCrossTenantFails(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantA := seedTenant(t, client)
	tenantB := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantA, customerSeed{name: "田中太郎", email: "a@example.com"})
	secondaryID := seedCustomer(t, client, tenantB, customerSeed{name: "田中太郎", email: "b@example.com"})

	_, err := engine.Merge(ctx, MergeRequest{PrimaryID: primaryID, SecondaryID: secondaryID, Operator: "op"})

	var mergeErr *MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, ReasonCrossTenant, mergeErr.Reason)

	// Validation failure leaves both rows untouched.
	_, err = client.Queries.GetCustomer(ctx, secondaryID)
	assert.NoError(t, err)
}

func TestMergeUncontactableResultFails(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", phone: "090-1234-5678"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎", phone: "090-1234-5678"})

	_, err := engine.Merge(ctx, MergeRequest{PrimaryID: primaryID, SecondaryID: secondaryID, Operator: "op"})

	var mergeErr *MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, ReasonUncontactable, mergeErr.Reason)

	// No writes happened.
	secondary, err := client.Queries.GetCustomer(ctx, secondaryID)
	require.NoError(t, err)
	assert.Equal(t, "田中 太郎", secondary.Name)
}

func TestMergeUnknownResolutionFieldFails(t *testing.T) {
	engine, client := newTestEngine(t)
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", email: "a@example.com"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎"})

	_, err := engine.Merge(context.Background(), MergeRequest{
		PrimaryID:   primaryID,
		SecondaryID: secondaryID,
		Resolutions: Resolutions{"favorite_color": ChoicePrimary},
		Operator:    "op",
	})

	var mergeErr *MergeError
	require.ErrorAs(t, err, &mergeErr)
	assert.Equal(t, ReasonInvalidResolution, mergeErr.Reason)
}

func TestMergeWritesAuditNote(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", email: "a@example.com"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎"})

	inquiryID, err := client.Queries.CreateInquiry(ctx, coredb.CreateInquiryParams{
		TenantID: tenantID, CustomerID: primaryID, Status: "open",
	})
	require.NoError(t, err)

	_, err = engine.Merge(ctx, MergeRequest{PrimaryID: primaryID, SecondaryID: secondaryID, Operator: "op"})
	require.NoError(t, err)

	logIDs, err := client.Queries.ActivityLogIDsForCustomer(ctx, primaryID)
	require.NoError(t, err)
	require.NotEmpty(t, logIDs)

	// The audit note is tied to the latest open inquiry.
	inquiry, err := client.Queries.LatestOpenInquiryForCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.Equal(t, inquiryID, inquiry.ID)
}

func TestMergeKeepsSecondaryEmailUnderUniqueIndex(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	// The kept email comes from the secondary: the default non-blank policy
	// must move it onto the primary despite the tenant-scoped unique index.
	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", lineID: "line-tanaka"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎", email: "tanaka@example.com"})

	_, err := engine.Merge(ctx, MergeRequest{PrimaryID: primaryID, SecondaryID: secondaryID, Operator: "op"})
	require.NoError(t, err)

	primary, err := client.Queries.GetCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.Equal(t, "tanaka@example.com", primary.Email.String)
	assert.Equal(t, "line-tanaka", primary.LineUserID.String)

	_, err = client.Queries.GetCustomer(ctx, secondaryID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMergeChoiceSecondaryLineUserIDUnderUniqueIndex(t *testing.T) {
	engine, client := newTestEngine(t)
	ctx := context.Background()
	tenantID := seedTenant(t, client)

	primaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中太郎", lineID: "line-old"})
	secondaryID := seedCustomer(t, client, tenantID, customerSeed{name: "田中 太郎", lineID: "line-new"})

	_, err := engine.Merge(ctx, MergeRequest{
		PrimaryID:   primaryID,
		SecondaryID: secondaryID,
		Resolutions: Resolutions{FieldLineUserID: ChoiceSecondary},
		Operator:    "op",
	})
	require.NoError(t, err)

	primary, err := client.Queries.GetCustomer(ctx, primaryID)
	require.NoError(t, err)
	assert.Equal(t, "line-new", primary.LineUserID.String)
	assert.Contains(t, primary.Notes.String, "統合で破棄: LINE ID line-old")
}

func TestMergeErrorWrapsReason(t *testing.T) {
	err := newMergeError(ReasonUncontactable, "customer %d has no contact channel", 7)
	assert.Contains(t, err.Error(), "uncontactable")
	assert.Contains(t, err.Error(), "7")

	var mergeErr *MergeError
	assert.True(t, errors.As(err, &mergeErr))
}
