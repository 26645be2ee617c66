package mergeengine

// The fixed, explicit list of record types that foreign-key a customer.
// The engine only needs an id lookup (for snapshots), a bulk reassignment
// (for merge), and an id-list reassignment (for undo) per type.

import (
	"context"

	"bukken.rehub.jp/coredb"
)

type dependentType struct {
	name        string
	ids         func(ctx context.Context, q *coredb.Queries, customerID int64) ([]int64, error)
	reassignAll func(ctx context.Context, q *coredb.Queries, fromID, toID int64) error
	reassignIDs func(ctx context.Context, q *coredb.Queries, ids []int64, toID int64) error
}

var dependentTypes = []dependentType{
	{
		name: "inquiries",
		ids: func(ctx context.Context, q *coredb.Queries, customerID int64) ([]int64, error) {
			return q.InquiryIDsForCustomer(ctx, customerID)
		},
		reassignAll: func(ctx context.Context, q *coredb.Queries, fromID, toID int64) error {
			return q.ReassignInquiries(ctx, coredb.ReassignParams{ToCustomerID: toID, FromCustomerID: fromID})
		},
		reassignIDs: func(ctx context.Context, q *coredb.Queries, ids []int64, toID int64) error {
			return q.ReassignInquiriesByIDs(ctx, ids, toID)
		},
	},
	{
		name: "activity_logs",
		ids: func(ctx context.Context, q *coredb.Queries, customerID int64) ([]int64, error) {
			return q.ActivityLogIDsForCustomer(ctx, customerID)
		},
		reassignAll: func(ctx context.Context, q *coredb.Queries, fromID, toID int64) error {
			return q.ReassignActivityLogs(ctx, coredb.ReassignParams{ToCustomerID: toID, FromCustomerID: fromID})
		},
		reassignIDs: func(ctx context.Context, q *coredb.Queries, ids []int64, toID int64) error {
			return q.ReassignActivityLogsByIDs(ctx, ids, toID)
		},
	},
	{
		name: "access_grants",
		ids: func(ctx context.Context, q *coredb.Queries, customerID int64) ([]int64, error) {
			return q.AccessGrantIDsForCustomer(ctx, customerID)
		},
		reassignAll: func(ctx context.Context, q *coredb.Queries, fromID, toID int64) error {
			return q.ReassignAccessGrants(ctx, coredb.ReassignParams{ToCustomerID: toID, FromCustomerID: fromID})
		},
		reassignIDs: func(ctx context.Context, q *coredb.Queries, ids []int64, toID int64) error {
			return q.ReassignAccessGrantsByIDs(ctx, ids, toID)
		},
	},
	{
		name: "message_drafts",
		ids: func(ctx context.Context, q *coredb.Queries, customerID int64) ([]int64, error) {
			return q.MessageDraftIDsForCustomer(ctx, customerID)
		},
		reassignAll: func(ctx context.Context, q *coredb.Queries, fromID, toID int64) error {
			return q.ReassignMessageDrafts(ctx, coredb.ReassignParams{ToCustomerID: toID, FromCustomerID: fromID})
		},
		reassignIDs: func(ctx context.Context, q *coredb.Queries, ids []int64, toID int64) error {
			return q.ReassignMessageDraftsByIDs(ctx, ids, toID)
		},
	},
}
