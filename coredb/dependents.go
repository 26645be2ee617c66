package coredb

// Queries over the dependent-record tables: every table that foreign-keys
// a customer. Each type supports an id lookup (for merge snapshots), a bulk
// reassignment by customer (for merge), and a reassignment of specific ids
// (for undo).

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func (q *Queries) listIDs(ctx context.Context, query string, customerID int64) ([]int64, error) {
	rows, err := q.query(ctx, nil, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// reassignByIDs rewrites customer_id for the given row ids of one table.
// The table name is always one of the fixed constants below, never input.
func (q *Queries) reassignByIDs(ctx context.Context, table string, ids []int64, toCustomerID int64) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf("UPDATE %s SET customer_id = ? WHERE id IN (%s)", table, placeholders)

	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, toCustomerID)
	for _, id := range ids {
		args = append(args, id)
	}
	_, err := q.exec(ctx, nil, query, args...)
	return err
}

const inquiryIDsForCustomer = `
SELECT id FROM inquiries WHERE customer_id = ? ORDER BY id
`

func (q *Queries) InquiryIDsForCustomer(ctx context.Context, customerID int64) ([]int64, error) {
	return q.listIDs(ctx, inquiryIDsForCustomer, customerID)
}

const reassignInquiries = `
UPDATE inquiries SET customer_id = ? WHERE customer_id = ?
`

type ReassignParams struct {
	ToCustomerID   int64
	FromCustomerID int64
}

func (q *Queries) ReassignInquiries(ctx context.Context, arg ReassignParams) error {
	_, err := q.exec(ctx, nil, reassignInquiries, arg.ToCustomerID, arg.FromCustomerID)
	return err
}

func (q *Queries) ReassignInquiriesByIDs(ctx context.Context, ids []int64, toCustomerID int64) error {
	return q.reassignByIDs(ctx, "inquiries", ids, toCustomerID)
}

const activityLogIDsForCustomer = `
SELECT id FROM activity_logs WHERE customer_id = ? ORDER BY id
`

func (q *Queries) ActivityLogIDsForCustomer(ctx context.Context, customerID int64) ([]int64, error) {
	return q.listIDs(ctx, activityLogIDsForCustomer, customerID)
}

const reassignActivityLogs = `
UPDATE activity_logs SET customer_id = ? WHERE customer_id = ?
`

func (q *Queries) ReassignActivityLogs(ctx context.Context, arg ReassignParams) error {
	_, err := q.exec(ctx, nil, reassignActivityLogs, arg.ToCustomerID, arg.FromCustomerID)
	return err
}

func (q *Queries) ReassignActivityLogsByIDs(ctx context.Context, ids []int64, toCustomerID int64) error {
	return q.reassignByIDs(ctx, "activity_logs", ids, toCustomerID)
}

const accessGrantIDsForCustomer = `
SELECT id FROM access_grants WHERE customer_id = ? ORDER BY id
`

func (q *Queries) AccessGrantIDsForCustomer(ctx context.Context, customerID int64) ([]int64, error) {
	return q.listIDs(ctx, accessGrantIDsForCustomer, customerID)
}

const reassignAccessGrants = `
UPDATE access_grants SET customer_id = ? WHERE customer_id = ?
`

func (q *Queries) ReassignAccessGrants(ctx context.Context, arg ReassignParams) error {
	_, err := q.exec(ctx, nil, reassignAccessGrants, arg.ToCustomerID, arg.FromCustomerID)
	return err
}

func (q *Queries) ReassignAccessGrantsByIDs(ctx context.Context, ids []int64, toCustomerID int64) error {
	return q.reassignByIDs(ctx, "access_grants", ids, toCustomerID)
}

const messageDraftIDsForCustomer = `
SELECT id FROM message_drafts WHERE customer_id = ? ORDER BY id
`

func (q *Queries) MessageDraftIDsForCustomer(ctx context.Context, customerID int64) ([]int64, error) {
	return q.listIDs(ctx, messageDraftIDsForCustomer, customerID)
}

const reassignMessageDrafts = `
UPDATE message_drafts SET customer_id = ? WHERE customer_id = ?
`

func (q *Queries) ReassignMessageDrafts(ctx context.Context, arg ReassignParams) error {
	_, err := q.exec(ctx, nil, reassignMessageDrafts, arg.ToCustomerID, arg.FromCustomerID)
	return err
}

func (q *Queries) ReassignMessageDraftsByIDs(ctx context.Context, ids []int64, toCustomerID int64) error {
	return q.reassignByIDs(ctx, "message_drafts", ids, toCustomerID)
}

const latestOpenInquiryForCustomer = `
SELECT id, tenant_id, customer_id, building_id, status, subject, created_at
FROM inquiries
WHERE customer_id = ? AND status = 'open'
ORDER BY created_at DESC, id DESC
LIMIT 1
`

func (q *Queries) LatestOpenInquiryForCustomer(ctx context.Context, customerID int64) (Inquiry, error) {
	var i Inquiry
	err := q.queryRow(ctx, nil, latestOpenInquiryForCustomer, customerID).Scan(
		&i.ID,
		&i.TenantID,
		&i.CustomerID,
		&i.BuildingID,
		&i.Status,
		&i.Subject,
		&i.CreatedAt,
	)
	return i, err
}

const createInquiry = `
INSERT INTO inquiries (tenant_id, customer_id, building_id, status, subject)
VALUES (?, ?, ?, ?, ?)
`

type CreateInquiryParams struct {
	TenantID   int64
	CustomerID int64
	BuildingID sql.NullInt64
	Status     string
	Subject    sql.NullString
}

func (q *Queries) CreateInquiry(ctx context.Context, arg CreateInquiryParams) (int64, error) {
	result, err := q.exec(ctx, nil, createInquiry,
		arg.TenantID, arg.CustomerID, arg.BuildingID, arg.Status, arg.Subject)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const createActivityLog = `
INSERT INTO activity_logs (tenant_id, customer_id, inquiry_id, body)
VALUES (?, ?, ?, ?)
`

type CreateActivityLogParams struct {
	TenantID   int64
	CustomerID int64
	InquiryID  sql.NullInt64
	Body       string
}

func (q *Queries) CreateActivityLog(ctx context.Context, arg CreateActivityLogParams) (int64, error) {
	result, err := q.exec(ctx, nil, createActivityLog,
		arg.TenantID, arg.CustomerID, arg.InquiryID, arg.Body)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const createAccessGrant = `
INSERT INTO access_grants (customer_id, user_id) VALUES (?, ?)
`

func (q *Queries) CreateAccessGrant(ctx context.Context, customerID, userID int64) (int64, error) {
	result, err := q.exec(ctx, nil, createAccessGrant, customerID, userID)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const createMessageDraft = `
INSERT INTO message_drafts (customer_id, subject, body) VALUES (?, ?, ?)
`

func (q *Queries) CreateMessageDraft(ctx context.Context, customerID int64, subject, body sql.NullString) (int64, error) {
	result, err := q.exec(ctx, nil, createMessageDraft, customerID, subject, body)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
