package mergeengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"bukken.rehub.jp/coredb"
	"bukken.rehub.jp/internal/clock"
	"bukken.rehub.jp/internal/match"
	"bukken.rehub.jp/internal/metrics"
)

// Engine performs reversible customer merges. Each merge or undo runs as a
// single database transaction; entity rows are never mutated anywhere else.
type Engine struct {
	client  *coredb.Client
	logger  *slog.Logger
	clock   clock.Clock
	metrics *metrics.Metrics
}

func NewEngine(client *coredb.Client, logger *slog.Logger, clk clock.Clock, m *metrics.Metrics) *Engine {
	return &Engine{
		client:  client,
		logger:  logger,
		clock:   clk,
		metrics: m,
	}
}

// MergeRequest describes one merge operation.
type MergeRequest struct {
	PrimaryID   int64
	SecondaryID int64
	Resolutions Resolutions
	Operator    string
	Reason      string
}

// Merge merges the secondary customer into the primary: validates, locks
// both rows in ascending-id order, snapshots both sides, reassigns every
// dependent record, deletes the secondary, applies the field resolutions,
// and records a reversible merge record. Validation failures return a
// MergeError and cause no writes.
func (e *Engine) Merge(ctx context.Context, req MergeRequest) (*coredb.MergeRecord, error) {
	if req.PrimaryID == req.SecondaryID {
		return nil, newMergeError(ReasonSameEntity,
			"customer %d cannot be merged with itself", req.PrimaryID)
	}

	timer := e.startTransactionTimer()
	defer timer.observe()

	q := e.client.Queries

	primary, err := e.getCustomer(ctx, q, req.PrimaryID)
	if err != nil {
		return nil, err
	}
	secondary, err := e.getCustomer(ctx, q, req.SecondaryID)
	if err != nil {
		return nil, err
	}

	// All validation happens before any lock is taken.
	if err := e.validate(ctx, q, primary, secondary, req.Resolutions); err != nil {
		e.countMerge("validation_failed")
		return nil, err
	}

	tx, err := e.client.BeginTx(ctx)
	if err != nil {
		e.countMerge("error")
		return nil, fmt.Errorf("beginning merge transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	qtx := q.WithTx(tx)

	// Lock both rows in ascending-id order so two concurrent merges of the
	// same pair in opposite roles cannot deadlock.
	if err := e.lockCustomers(ctx, qtx, req.PrimaryID, req.SecondaryID); err != nil {
		e.countMerge("error")
		return nil, err
	}

	// Re-read and re-validate under the lock; another operator may have
	// edited or merged either side since the first read.
	primary, err = e.getCustomer(ctx, qtx, req.PrimaryID)
	if err != nil {
		e.countMerge("error")
		return nil, err
	}
	secondary, err = e.getCustomer(ctx, qtx, req.SecondaryID)
	if err != nil {
		e.countMerge("error")
		return nil, err
	}
	if err := e.validate(ctx, qtx, primary, secondary, req.Resolutions); err != nil {
		e.countMerge("validation_failed")
		return nil, err
	}

	merged, err := resolveFields(fieldsFromCustomer(primary), fieldsFromCustomer(secondary), req.Resolutions)
	if err != nil {
		e.countMerge("validation_failed")
		return nil, err
	}
	merged.Notes = appendDiscardedValues(merged, fieldsFromCustomer(primary), fieldsFromCustomer(secondary))

	// Snapshot both sides and every dependent-record id before mutating.
	snap := mergeSnapshot{
		SchemaVersion: snapshotSchemaVersion,
		PrimaryFields: fieldsFromCustomer(primary),
		Secondary:     rowFromCustomer(secondary),
		Dependents:    make(map[string][]int64, len(dependentTypes)),
		Resolutions:   resolutionStrings(req.Resolutions),
	}
	for _, dep := range dependentTypes {
		ids, err := dep.ids(ctx, qtx, secondary.ID)
		if err != nil {
			e.countMerge("error")
			return nil, fmt.Errorf("snapshotting %s: %w", dep.name, err)
		}
		snap.Dependents[dep.name] = ids
	}

	for _, dep := range dependentTypes {
		if err := dep.reassignAll(ctx, qtx, secondary.ID, primary.ID); err != nil {
			e.countMerge("error")
			return nil, fmt.Errorf("reassigning %s: %w", dep.name, err)
		}
	}

	// The secondary row must be gone before the merged fields land on the
	// primary: a kept email or LINE id taken from the secondary would
	// otherwise collide with the secondary's own unique index entry.
	if err := qtx.DeleteCustomer(ctx, secondary.ID); err != nil {
		e.countMerge("error")
		return nil, fmt.Errorf("deleting secondary customer: %w", err)
	}

	if err := qtx.UpdateCustomerMergeFields(ctx, updateParams(primary.ID, merged)); err != nil {
		e.countMerge("error")
		return nil, fmt.Errorf("applying merged fields: %w", err)
	}

	snapshot, err := encodeSnapshot(snap)
	if err != nil {
		e.countMerge("error")
		return nil, err
	}

	recordID := uuid.NewString()
	if err := qtx.CreateMergeRecord(ctx, coredb.CreateMergeRecordParams{
		ID:                recordID,
		TenantID:          primary.TenantID,
		PrimaryCustomerID: primary.ID,
		Operator:          req.Operator,
		Reason:            req.Reason,
		Snapshot:          snapshot,
	}); err != nil {
		e.countMerge("error")
		return nil, fmt.Errorf("creating merge record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		e.countMerge("error")
		return nil, fmt.Errorf("committing merge: %w", err)
	}

	e.countMerge("completed")
	e.logger.Info("customer merge completed",
		slog.String("merge_record_id", recordID),
		slog.Int64("primary_id", primary.ID),
		slog.Int64("secondary_id", secondary.ID),
		slog.String("operator", req.Operator))

	e.appendAuditNote(ctx, primary.TenantID, primary.ID,
		fmt.Sprintf("顧客統合: #%d を #%d に統合しました (操作者: %s)", secondary.ID, primary.ID, req.Operator))

	record, err := q.GetMergeRecord(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("reloading merge record: %w", err)
	}
	return &record, nil
}

func (e *Engine) getCustomer(ctx context.Context, q *coredb.Queries, id int64) (coredb.Customer, error) {
	customer, err := q.GetCustomer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return coredb.Customer{}, newMergeError(ReasonNotFound, "customer %d not found", id)
	}
	if err != nil {
		return coredb.Customer{}, fmt.Errorf("loading customer %d: %w", id, err)
	}
	return customer, nil
}

// validate enforces every pre-lock invariant: same tenant, a contactable
// result, and no unique-field collision with a third customer.
func (e *Engine) validate(ctx context.Context, q *coredb.Queries, primary, secondary coredb.Customer, resolutions Resolutions) error {
	if primary.TenantID != secondary.TenantID {
		return newMergeError(ReasonCrossTenant,
			"customers %d and %d belong to different tenants", primary.ID, secondary.ID)
	}

	merged, err := resolveFields(fieldsFromCustomer(primary), fieldsFromCustomer(secondary), resolutions)
	if err != nil {
		return err
	}

	if merged.Email == "" && merged.LineUserID == "" {
		return newMergeError(ReasonUncontactable,
			"merge would leave customer %d with no contact channel", primary.ID)
	}

	if merged.Email != "" {
		count, err := q.CountCustomersWithEmail(ctx, coredb.UniqueFieldCollisionParams{
			TenantID: primary.TenantID,
			Value:    merged.Email,
			ExcludeA: primary.ID,
			ExcludeB: secondary.ID,
		})
		if err != nil {
			return fmt.Errorf("checking email collision: %w", err)
		}
		if count > 0 {
			return newMergeError(ReasonUniqueCollision,
				"email %q already belongs to another customer", merged.Email)
		}
	}

	if merged.LineUserID != "" {
		count, err := q.CountCustomersWithLineUserID(ctx, coredb.UniqueFieldCollisionParams{
			TenantID: primary.TenantID,
			Value:    merged.LineUserID,
			ExcludeA: primary.ID,
			ExcludeB: secondary.ID,
		})
		if err != nil {
			return fmt.Errorf("checking LINE id collision: %w", err)
		}
		if count > 0 {
			return newMergeError(ReasonUniqueCollision,
				"LINE user id %q already belongs to another customer", merged.LineUserID)
		}
	}

	return nil
}

// lockCustomers takes both row locks in ascending-id order.
func (e *Engine) lockCustomers(ctx context.Context, q *coredb.Queries, idA, idB int64) error {
	first, second := idA, idB
	if first > second {
		first, second = second, first
	}
	for _, id := range []int64{first, second} {
		affected, err := q.TouchCustomer(ctx, id)
		if err != nil {
			return fmt.Errorf("locking customer %d: %w", id, err)
		}
		if affected == 0 {
			return newMergeError(ReasonNotFound, "customer %d not found", id)
		}
	}
	return nil
}

// appendDiscardedValues keeps discarded unique-field values discoverable by
// recording them in the merged notes. Blank values are dropped silently.
func appendDiscardedValues(merged, primary, secondary customerFields) string {
	notes := merged.Notes
	for _, v := range []struct {
		label string
		kept  string
		sides [2]string
	}{
		{"メールアドレス", merged.Email, [2]string{primary.Email, secondary.Email}},
		{"LINE ID", merged.LineUserID, [2]string{primary.LineUserID, secondary.LineUserID}},
	} {
		for _, side := range v.sides {
			if side == "" || side == v.kept {
				continue
			}
			line := fmt.Sprintf("統合で破棄: %s %s", v.label, side)
			if notes == "" {
				notes = line
			} else {
				notes = notes + notesSeparator + line
			}
		}
	}
	return notes
}

func updateParams(id int64, fields customerFields) coredb.UpdateCustomerMergeFieldsParams {
	return coredb.UpdateCustomerMergeFieldsParams{
		Name:            fields.Name,
		NameNormalized:  match.NormalizeName(fields.Name),
		NameKana:        toNullString(fields.NameKana),
		Phone:           toNullString(fields.Phone),
		PhoneNormalized: toNullString(match.NormalizePhone(fields.Phone)),
		Email:           toNullString(fields.Email),
		LineUserID:      toNullString(fields.LineUserID),
		Status:          fields.Status,
		Notes:           toNullString(fields.Notes),
		Tags:            toNullString(fields.Tags),
		BudgetMin:       toNullInt64(fields.BudgetMin),
		BudgetMax:       toNullInt64(fields.BudgetMax),
		LastContactedAt: toNullTime(fields.LastContactedAt),
		LastEmailedAt:   toNullTime(fields.LastEmailedAt),
		ID:              id,
	}
}

// appendAuditNote writes a best-effort activity entry after commit, tied to
// the customer's most recent open inquiry when one exists. Failures are
// logged and swallowed: the audit note is not required for correctness.
func (e *Engine) appendAuditNote(ctx context.Context, tenantID, customerID int64, body string) {
	inquiryID := sql.NullInt64{}
	inquiry, err := e.client.Queries.LatestOpenInquiryForCustomer(ctx, customerID)
	if err == nil {
		inquiryID = sql.NullInt64{Int64: inquiry.ID, Valid: true}
	} else if !errors.Is(err, sql.ErrNoRows) {
		e.logger.Warn("failed to look up open inquiry for audit note",
			slog.Int64("customer_id", customerID),
			slog.String("error", err.Error()))
	}

	if _, err := e.client.Queries.CreateActivityLog(ctx, coredb.CreateActivityLogParams{
		TenantID:   tenantID,
		CustomerID: customerID,
		InquiryID:  inquiryID,
		Body:       body,
	}); err != nil {
		e.logger.Warn("failed to write audit note",
			slog.Int64("customer_id", customerID),
			slog.String("error", err.Error()))
	}
}

func (e *Engine) countMerge(outcome string) {
	if e.metrics != nil {
		e.metrics.MergesTotal.WithLabelValues(outcome).Inc()
	}
}

func (e *Engine) countUndo(outcome string) {
	if e.metrics != nil {
		e.metrics.UndosTotal.WithLabelValues(outcome).Inc()
	}
}

type transactionTimer struct {
	engine *Engine
	start  int64
}

func (e *Engine) startTransactionTimer() *transactionTimer {
	return &transactionTimer{engine: e, start: e.clock.Now().UnixNano()}
}

func (t *transactionTimer) observe() {
	if t.engine.metrics == nil {
		return
	}
	elapsed := float64(t.engine.clock.Now().UnixNano()-t.start) / 1e9
	t.engine.metrics.MergeTransactionTime.Observe(elapsed)
}
