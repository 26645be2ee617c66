package coredb

import (
	"context"
	"time"
)

const createMergeRecord = `
INSERT INTO merge_records (id, tenant_id, primary_customer_id, operator, reason, status, snapshot)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateMergeRecordParams struct {
	ID                string
	TenantID          int64
	PrimaryCustomerID int64
	Operator          string
	Reason            string
	Snapshot          []byte
}

func (q *Queries) CreateMergeRecord(ctx context.Context, arg CreateMergeRecordParams) error {
	_, err := q.exec(ctx, nil, createMergeRecord,
		arg.ID,
		arg.TenantID,
		arg.PrimaryCustomerID,
		arg.Operator,
		arg.Reason,
		MergeStatusCompleted,
		arg.Snapshot,
	)
	return err
}

const getMergeRecord = `
SELECT id, tenant_id, primary_customer_id, operator, reason, status, snapshot, created_at, undone_at, undone_by
FROM merge_records
WHERE id = ?
`

func (q *Queries) GetMergeRecord(ctx context.Context, id string) (MergeRecord, error) {
	var i MergeRecord
	err := q.queryRow(ctx, nil, getMergeRecord, id).Scan(
		&i.ID,
		&i.TenantID,
		&i.PrimaryCustomerID,
		&i.Operator,
		&i.Reason,
		&i.Status,
		&i.Snapshot,
		&i.CreatedAt,
		&i.UndoneAt,
		&i.UndoneBy,
	)
	return i, err
}

const listMergeRecordsByPrimary = `
SELECT id, tenant_id, primary_customer_id, operator, reason, status, snapshot, created_at, undone_at, undone_by
FROM merge_records
WHERE primary_customer_id = ?
ORDER BY created_at DESC, id
`

func (q *Queries) ListMergeRecordsByPrimary(ctx context.Context, primaryCustomerID int64) ([]MergeRecord, error) {
	rows, err := q.query(ctx, nil, listMergeRecordsByPrimary, primaryCustomerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []MergeRecord
	for rows.Next() {
		var i MergeRecord
		if err := rows.Scan(
			&i.ID,
			&i.TenantID,
			&i.PrimaryCustomerID,
			&i.Operator,
			&i.Reason,
			&i.Status,
			&i.Snapshot,
			&i.CreatedAt,
			&i.UndoneAt,
			&i.UndoneBy,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markMergeRecordUndone = `
UPDATE merge_records
SET status = ?, undone_at = ?, undone_by = ?
WHERE id = ? AND status = ?
`

type MarkMergeRecordUndoneParams struct {
	ID       string
	UndoneAt time.Time
	UndoneBy string
}

// MarkMergeRecordUndone flips a completed record to undone. The status guard
// in the WHERE clause makes the transition single-use: the returned count is
// zero if the record was already undone.
func (q *Queries) MarkMergeRecordUndone(ctx context.Context, arg MarkMergeRecordUndoneParams) (int64, error) {
	result, err := q.exec(ctx, nil, markMergeRecordUndone,
		MergeStatusUndone,
		arg.UndoneAt,
		arg.UndoneBy,
		arg.ID,
		MergeStatusCompleted,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
