package coredb

// Hand-written customer query implementations, kept in the same shape as
// generated query code so the two styles read identically at call sites.

import (
	"context"
	"database/sql"
)

const customerColumns = `
    id, tenant_id, name, name_normalized, name_kana,
    phone, phone_normalized, email, line_user_id,
    status, notes, tags, budget_min, budget_max,
    last_contacted_at, last_emailed_at, created_at, updated_at
`

func scanCustomer(row interface{ Scan(...interface{}) error }) (Customer, error) {
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.TenantID,
		&i.Name,
		&i.NameNormalized,
		&i.NameKana,
		&i.Phone,
		&i.PhoneNormalized,
		&i.Email,
		&i.LineUserID,
		&i.Status,
		&i.Notes,
		&i.Tags,
		&i.BudgetMin,
		&i.BudgetMax,
		&i.LastContactedAt,
		&i.LastEmailedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) scanCustomers(rows *sql.Rows) ([]Customer, error) {
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []Customer
	for rows.Next() {
		i, err := scanCustomer(rows)
		if err != nil {
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

const getCustomer = `
SELECT` + customerColumns + `FROM customers WHERE id = ?
`

func (q *Queries) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	row := q.queryRow(ctx, nil, getCustomer, id)
	return scanCustomer(row)
}

const listCustomersByTenant = `
SELECT` + customerColumns + `FROM customers WHERE tenant_id = ? ORDER BY id
`

func (q *Queries) ListCustomersByTenant(ctx context.Context, tenantID int64) ([]Customer, error) {
	rows, err := q.query(ctx, nil, listCustomersByTenant, tenantID)
	if err != nil {
		return nil, err
	}
	return q.scanCustomers(rows)
}

const listCustomersByPhone = `
SELECT` + customerColumns + `
FROM customers
WHERE tenant_id = ? AND phone_normalized = ? AND phone_normalized <> ''
ORDER BY id
`

type ListCustomersByPhoneParams struct {
	TenantID        int64
	PhoneNormalized string
}

func (q *Queries) ListCustomersByPhone(ctx context.Context, arg ListCustomersByPhoneParams) ([]Customer, error) {
	rows, err := q.query(ctx, nil, listCustomersByPhone, arg.TenantID, arg.PhoneNormalized)
	if err != nil {
		return nil, err
	}
	return q.scanCustomers(rows)
}

const listCustomersByNameContains = `
SELECT` + customerColumns + `
FROM customers
WHERE tenant_id = ? AND name_normalized LIKE '%' || ? || '%'
ORDER BY id
`

type ListCustomersByNameContainsParams struct {
	TenantID       int64
	NameNormalized string
}

func (q *Queries) ListCustomersByNameContains(ctx context.Context, arg ListCustomersByNameContainsParams) ([]Customer, error) {
	rows, err := q.query(ctx, nil, listCustomersByNameContains, arg.TenantID, arg.NameNormalized)
	if err != nil {
		return nil, err
	}
	return q.scanCustomers(rows)
}

const countCustomersWithEmail = `
SELECT COUNT(*)
FROM customers
WHERE tenant_id = ? AND email = ? AND id NOT IN (?, ?)
`

type UniqueFieldCollisionParams struct {
	TenantID int64
	Value    string
	ExcludeA int64
	ExcludeB int64
}

func (q *Queries) CountCustomersWithEmail(ctx context.Context, arg UniqueFieldCollisionParams) (int64, error) {
	var count int64
	err := q.queryRow(ctx, nil, countCustomersWithEmail, arg.TenantID, arg.Value, arg.ExcludeA, arg.ExcludeB).Scan(&count)
	return count, err
}

const countCustomersWithLineUserID = `
SELECT COUNT(*)
FROM customers
WHERE tenant_id = ? AND line_user_id = ? AND id NOT IN (?, ?)
`

func (q *Queries) CountCustomersWithLineUserID(ctx context.Context, arg UniqueFieldCollisionParams) (int64, error) {
	var count int64
	err := q.queryRow(ctx, nil, countCustomersWithLineUserID, arg.TenantID, arg.Value, arg.ExcludeA, arg.ExcludeB).Scan(&count)
	return count, err
}

const createCustomer = `
INSERT INTO customers (
    tenant_id, name, name_normalized, name_kana,
    phone, phone_normalized, email, line_user_id,
    status, notes, tags, budget_min, budget_max,
    last_contacted_at, last_emailed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateCustomerParams struct {
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
	Tags            sql.NullString
	BudgetMin       sql.NullInt64
	BudgetMax       sql.NullInt64
	LastContactedAt sql.NullTime
	LastEmailedAt   sql.NullTime
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (int64, error) {
	result, err := q.exec(ctx, nil, createCustomer,
		arg.TenantID,
		arg.Name,
		arg.NameNormalized,
		arg.NameKana,
		arg.Phone,
		arg.PhoneNormalized,
		arg.Email,
		arg.LineUserID,
		arg.Status,
		arg.Notes,
		arg.Tags,
		arg.BudgetMin,
		arg.BudgetMax,
		arg.LastContactedAt,
		arg.LastEmailedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const insertCustomerWithID = `
INSERT INTO customers (
    id, tenant_id, name, name_normalized, name_kana,
    phone, phone_normalized, email, line_user_id,
    status, notes, tags, budget_min, budget_max,
    last_contacted_at, last_emailed_at, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// InsertCustomerWithID restores a customer row verbatim, including its
// original primary key. Used exclusively by the undo engine.
func (q *Queries) InsertCustomerWithID(ctx context.Context, arg Customer) error {
	_, err := q.exec(ctx, nil, insertCustomerWithID,
		arg.ID,
		arg.TenantID,
		arg.Name,
		arg.NameNormalized,
		arg.NameKana,
		arg.Phone,
		arg.PhoneNormalized,
		arg.Email,
		arg.LineUserID,
		arg.Status,
		arg.Notes,
		arg.Tags,
		arg.BudgetMin,
		arg.BudgetMax,
		arg.LastContactedAt,
		arg.LastEmailedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updateCustomerMergeFields = `
UPDATE customers SET
    name = ?,
    name_normalized = ?,
    name_kana = ?,
    phone = ?,
    phone_normalized = ?,
    email = ?,
    line_user_id = ?,
    status = ?,
    notes = ?,
    tags = ?,
    budget_min = ?,
    budget_max = ?,
    last_contacted_at = ?,
    last_emailed_at = ?,
    updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

type UpdateCustomerMergeFieldsParams struct {
	Name            string
	NameNormalized  string
	NameKana        sql.NullString
	Phone           sql.NullString
	PhoneNormalized sql.NullString
	Email           sql.NullString
	LineUserID      sql.NullString
	Status          string
	Notes           sql.NullString
	Tags            sql.NullString
	BudgetMin       sql.NullInt64
	BudgetMax       sql.NullInt64
	LastContactedAt sql.NullTime
	LastEmailedAt   sql.NullTime
	ID              int64
}

func (q *Queries) UpdateCustomerMergeFields(ctx context.Context, arg UpdateCustomerMergeFieldsParams) error {
	_, err := q.exec(ctx, nil, updateCustomerMergeFields,
		arg.Name,
		arg.NameNormalized,
		arg.NameKana,
		arg.Phone,
		arg.PhoneNormalized,
		arg.Email,
		arg.LineUserID,
		arg.Status,
		arg.Notes,
		arg.Tags,
		arg.BudgetMin,
		arg.BudgetMax,
		arg.LastContactedAt,
		arg.LastEmailedAt,
		arg.ID,
	)
	return err
}

const deleteCustomer = `
DELETE FROM customers WHERE id = ?
`

func (q *Queries) DeleteCustomer(ctx context.Context, id int64) error {
	_, err := q.exec(ctx, nil, deleteCustomer, id)
	return err
}

const touchCustomer = `
UPDATE customers SET updated_at = updated_at WHERE id = ?
`

// TouchCustomer issues a write against the row so the enclosing transaction
// takes its lock. Callers must touch rows in ascending-id order.
func (q *Queries) TouchCustomer(ctx context.Context, id int64) (int64, error) {
	result, err := q.exec(ctx, nil, touchCustomer, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
