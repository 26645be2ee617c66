package mergeengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"bukken.rehub.jp/coredb"
	"bukken.rehub.jp/internal/match"
)

// Undo reverses a completed merge: the secondary customer is reconstructed
// verbatim from its snapshot, the primary's pre-merge field values are
// restored, and the recorded dependent ids are moved back. A record can be
// undone exactly once.
//
// Undo is a true inverse only for the snapshotted fields: edits made to the
// primary between merge and undo are overwritten by the snapshot.
func (e *Engine) Undo(ctx context.Context, mergeRecordID, operator string) error {
	timer := e.startTransactionTimer()
	defer timer.observe()

	q := e.client.Queries

	record, err := q.GetMergeRecord(ctx, mergeRecordID)
	if errors.Is(err, sql.ErrNoRows) {
		e.countUndo("validation_failed")
		return newMergeError(ReasonNotFound, "merge record %s not found", mergeRecordID)
	}
	if err != nil {
		e.countUndo("error")
		return fmt.Errorf("loading merge record: %w", err)
	}

	if record.Status == coredb.MergeStatusUndone {
		e.countUndo("validation_failed")
		return newMergeError(ReasonAlreadyUndone,
			"merge record %s has already been undone", mergeRecordID)
	}

	snap, err := decodeSnapshot(record.Snapshot)
	if err != nil {
		e.countUndo("error")
		return err
	}

	tx, err := e.client.BeginTx(ctx)
	if err != nil {
		e.countUndo("error")
		return fmt.Errorf("beginning undo transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	qtx := q.WithTx(tx)

	affected, err := qtx.TouchCustomer(ctx, record.PrimaryCustomerID)
	if err != nil {
		e.countUndo("error")
		return fmt.Errorf("locking primary customer: %w", err)
	}
	if affected == 0 {
		e.countUndo("validation_failed")
		return newMergeError(ReasonNotFound,
			"primary customer %d no longer exists", record.PrimaryCustomerID)
	}

	// Restore the primary's pre-merge values before re-inserting the
	// secondary: the primary may still hold a unique email or LINE id the
	// merge took from the secondary.
	if err := qtx.UpdateCustomerMergeFields(ctx,
		updateParams(record.PrimaryCustomerID, snap.PrimaryFields)); err != nil {
		e.countUndo("error")
		return fmt.Errorf("restoring primary fields: %w", err)
	}

	// Restore the secondary row verbatim, original id included. This
	// bypasses normal write validation on purpose: it re-creates a prior
	// valid state.
	if err := qtx.InsertCustomerWithID(ctx, customerFromRow(snap.Secondary)); err != nil {
		e.countUndo("error")
		return fmt.Errorf("restoring secondary customer: %w", err)
	}

	for _, dep := range dependentTypes {
		ids := snap.Dependents[dep.name]
		if err := dep.reassignIDs(ctx, qtx, ids, snap.Secondary.ID); err != nil {
			e.countUndo("error")
			return fmt.Errorf("restoring %s: %w", dep.name, err)
		}
	}

	// The status guard makes a racing second undo fail here and roll back.
	flipped, err := qtx.MarkMergeRecordUndone(ctx, coredb.MarkMergeRecordUndoneParams{
		ID:       record.ID,
		UndoneAt: e.clock.Now(),
		UndoneBy: operator,
	})
	if err != nil {
		e.countUndo("error")
		return fmt.Errorf("marking merge record undone: %w", err)
	}
	if flipped == 0 {
		e.countUndo("validation_failed")
		return newMergeError(ReasonAlreadyUndone,
			"merge record %s has already been undone", mergeRecordID)
	}

	if err := tx.Commit(); err != nil {
		e.countUndo("error")
		return fmt.Errorf("committing undo: %w", err)
	}

	e.countUndo("completed")
	e.logger.Info("customer merge undone",
		slog.String("merge_record_id", record.ID),
		slog.Int64("primary_id", record.PrimaryCustomerID),
		slog.Int64("restored_secondary_id", snap.Secondary.ID),
		slog.String("operator", operator))

	e.appendAuditNote(ctx, record.TenantID, record.PrimaryCustomerID,
		fmt.Sprintf("統合取消: #%d を復元しました (操作者: %s)", snap.Secondary.ID, operator))

	return nil
}

func customerFromRow(row customerRow) coredb.Customer {
	return coredb.Customer{
		ID:              row.ID,
		TenantID:        row.TenantID,
		Name:            row.Name,
		NameNormalized:  match.NormalizeName(row.Name),
		NameKana:        toNullString(row.NameKana),
		Phone:           toNullString(row.Phone),
		PhoneNormalized: toNullString(match.NormalizePhone(row.Phone)),
		Email:           toNullString(row.Email),
		LineUserID:      toNullString(row.LineUserID),
		Status:          row.Status,
		Notes:           toNullString(row.Notes),
		Tags:            toNullString(row.Tags),
		BudgetMin:       toNullInt64(row.BudgetMin),
		BudgetMax:       toNullInt64(row.BudgetMax),
		LastContactedAt: toNullTime(row.LastContactedAt),
		LastEmailedAt:   toNullTime(row.LastEmailedAt),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
