package coredb

import (
	"database/sql"
	"time"
)

// Tenant is the owning organization for all records.
type Tenant struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// Customer is the mergeable entity of the back office.
// Normalized columns are maintained by callers at write time so that
// duplicate-detection lookups can be done with plain index scans.
type Customer struct {
	ID              int64
	TenantID        int64
	Name            string
	NameNormalized  string
	NameKana        sql.NullString
	Phone           sql.NullString
	PhoneNormalized sql.NullString
	Email           sql.NullString
	LineUserID      sql.NullString
	Status          string
	Notes           sql.NullString
	Tags            sql.NullString // JSON array of strings
	BudgetMin       sql.NullInt64
	BudgetMax       sql.NullInt64
	LastContactedAt sql.NullTime
	LastEmailedAt   sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Building is matchable (candidate detection only), never merged.
type Building struct {
	ID                int64
	TenantID          int64
	Name              string
	NameNormalized    string
	Address           sql.NullString
	AddressNormalized sql.NullString
	Lat               sql.NullFloat64
	Lng               sql.NullFloat64
	CreatedAt         time.Time
}

// Inquiry is a customer inquiry about a building.
type Inquiry struct {
	ID         int64
	TenantID   int64
	CustomerID int64
	BuildingID sql.NullInt64
	Status     string
	Subject    sql.NullString
	CreatedAt  time.Time
}

// ActivityLog is an append-only activity feed entry for a customer.
type ActivityLog struct {
	ID         int64
	TenantID   int64
	CustomerID int64
	InquiryID  sql.NullInt64
	Body       string
	CreatedAt  time.Time
}

// AccessGrant gives a staff user access to a customer record.
type AccessGrant struct {
	ID         int64
	CustomerID int64
	UserID     int64
	CreatedAt  time.Time
}

// MessageDraft is an unsent message attached to a customer.
type MessageDraft struct {
	ID         int64
	CustomerID int64
	Subject    sql.NullString
	Body       sql.NullString
	CreatedAt  time.Time
}

// DismissedPair records a "never suggest this pair again" decision.
// Pairs are stored canonically with EntityIDLow < EntityIDHigh so lookups
// are order-independent.
type DismissedPair struct {
	ID           int64
	TenantID     int64
	EntityType   string
	EntityIDLow  int64
	EntityIDHigh int64
	CreatedAt    time.Time
}

// MergeRecord is the immutable audit/undo unit for a customer merge.
// Snapshot is a gzip-compressed JSON document owned exclusively by the
// merge and undo engines.
type MergeRecord struct {
	ID                string
	TenantID          int64
	PrimaryCustomerID int64
	Operator          string
	Reason            sql.NullString
	Status            string
	Snapshot          []byte
	CreatedAt         time.Time
	UndoneAt          sql.NullTime
	UndoneBy          sql.NullString
}

// MergeRecord status values.
const (
	MergeStatusCompleted = "completed"
	MergeStatusUndone    = "undone"
)

// Customer status values.
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)
