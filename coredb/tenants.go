package coredb

import "context"

const createTenant = `
INSERT INTO tenants (name)
VALUES (?)
`

func (q *Queries) CreateTenant(ctx context.Context, name string) (int64, error) {
	result, err := q.exec(ctx, nil, createTenant, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getTenant = `
SELECT id, name, created_at
FROM tenants
WHERE id = ?
`

func (q *Queries) GetTenant(ctx context.Context, id int64) (Tenant, error) {
	row := q.queryRow(ctx, nil, getTenant, id)
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.CreatedAt)
	return t, err
}
