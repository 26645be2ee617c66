package coredb

import (
	"context"
	"database/sql"
)

const buildingColumns = `
    id, tenant_id, name, name_normalized, address, address_normalized, lat, lng, created_at
`

func scanBuilding(row interface{ Scan(...interface{}) error }) (Building, error) {
	var i Building
	err := row.Scan(
		&i.ID,
		&i.TenantID,
		&i.Name,
		&i.NameNormalized,
		&i.Address,
		&i.AddressNormalized,
		&i.Lat,
		&i.Lng,
		&i.CreatedAt,
	)
	return i, err
}

func (q *Queries) scanBuildings(rows *sql.Rows) ([]Building, error) {
	defer rows.Close() //nolint:errcheck // closing is also checked explicitly below
	var items []Building
	for rows.Next() {
		i, err := scanBuilding(rows)
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

const getBuilding = `
SELECT` + buildingColumns + `FROM buildings WHERE id = ?
`

func (q *Queries) GetBuilding(ctx context.Context, id int64) (Building, error) {
	row := q.queryRow(ctx, nil, getBuilding, id)
	return scanBuilding(row)
}

const listBuildingsByTenant = `
SELECT` + buildingColumns + `FROM buildings WHERE tenant_id = ? ORDER BY id
`

func (q *Queries) ListBuildingsByTenant(ctx context.Context, tenantID int64) ([]Building, error) {
	rows, err := q.query(ctx, nil, listBuildingsByTenant, tenantID)
	if err != nil {
		return nil, err
	}
	return q.scanBuildings(rows)
}

const listBuildingsByName = `
SELECT` + buildingColumns + `
FROM buildings
WHERE tenant_id = ? AND name_normalized = ? AND name_normalized <> ''
ORDER BY id
`

type ListBuildingsByNameParams struct {
	TenantID       int64
	NameNormalized string
}

func (q *Queries) ListBuildingsByName(ctx context.Context, arg ListBuildingsByNameParams) ([]Building, error) {
	rows, err := q.query(ctx, nil, listBuildingsByName, arg.TenantID, arg.NameNormalized)
	if err != nil {
		return nil, err
	}
	return q.scanBuildings(rows)
}

const listBuildingsByAddressContains = `
SELECT` + buildingColumns + `
FROM buildings
WHERE tenant_id = ?
  AND address_normalized IS NOT NULL
  AND address_normalized <> ''
  AND (address_normalized LIKE '%' || ? || '%' OR ? LIKE '%' || address_normalized || '%')
ORDER BY id
`

type ListBuildingsByAddressContainsParams struct {
	TenantID          int64
	AddressNormalized string
}

func (q *Queries) ListBuildingsByAddressContains(ctx context.Context, arg ListBuildingsByAddressContainsParams) ([]Building, error) {
	rows, err := q.query(ctx, nil, listBuildingsByAddressContains,
		arg.TenantID, arg.AddressNormalized, arg.AddressNormalized)
	if err != nil {
		return nil, err
	}
	return q.scanBuildings(rows)
}

const listBuildingsWithCoordinates = `
SELECT` + buildingColumns + `
FROM buildings
WHERE tenant_id = ? AND lat IS NOT NULL AND lng IS NOT NULL
ORDER BY id
`

func (q *Queries) ListBuildingsWithCoordinates(ctx context.Context, tenantID int64) ([]Building, error) {
	rows, err := q.query(ctx, nil, listBuildingsWithCoordinates, tenantID)
	if err != nil {
		return nil, err
	}
	return q.scanBuildings(rows)
}

const createBuilding = `
INSERT INTO buildings (
    tenant_id, name, name_normalized, address, address_normalized, lat, lng
) VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateBuildingParams struct {
	TenantID          int64
	Name              string
	NameNormalized    string
	Address           sql.NullString
	AddressNormalized sql.NullString
	Lat               sql.NullFloat64
	Lng               sql.NullFloat64
}

func (q *Queries) CreateBuilding(ctx context.Context, arg CreateBuildingParams) (int64, error) {
	result, err := q.exec(ctx, nil, createBuilding,
		arg.TenantID,
		arg.Name,
		arg.NameNormalized,
		arg.Address,
		arg.AddressNormalized,
		arg.Lat,
		arg.Lng,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
