package coredb

import (
	"context"
)

const upsertDismissedPair = `
INSERT INTO dismissed_pairs (tenant_id, entity_type, entity_id_low, entity_id_high)
VALUES (?, ?, ?, ?)
ON CONFLICT (tenant_id, entity_type, entity_id_low, entity_id_high) DO NOTHING
`

type UpsertDismissedPairParams struct {
	TenantID   int64
	EntityType string
	IDA        int64
	IDB        int64
}

// UpsertDismissedPair records a dismissal, storing the pair canonically as
// (min id, max id) so lookups are independent of argument order.
func (q *Queries) UpsertDismissedPair(ctx context.Context, arg UpsertDismissedPairParams) error {
	low, high := arg.IDA, arg.IDB
	if low > high {
		low, high = high, low
	}
	_, err := q.exec(ctx, nil, upsertDismissedPair, arg.TenantID, arg.EntityType, low, high)
	return err
}

const listDismissedPairs = `
SELECT id, tenant_id, entity_type, entity_id_low, entity_id_high, created_at
FROM dismissed_pairs
WHERE tenant_id = ? AND entity_type = ?
ORDER BY id
`

type ListDismissedPairsParams struct {
	TenantID   int64
	EntityType string
}

func (q *Queries) ListDismissedPairs(ctx context.Context, arg ListDismissedPairsParams) ([]DismissedPair, error) {
	rows, err := q.query(ctx, nil, listDismissedPairs, arg.TenantID, arg.EntityType)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []DismissedPair
	for rows.Next() {
		var i DismissedPair
		if err := rows.Scan(
			&i.ID,
			&i.TenantID,
			&i.EntityType,
			&i.EntityIDLow,
			&i.EntityIDHigh,
			&i.CreatedAt,
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
