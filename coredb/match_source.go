package coredb

// MatchSource adapts the query layer to the lookup interfaces the duplicate
// detectors consume. All methods are read-only.

import (
	"context"

	"bukken.rehub.jp/internal/match"
)

type MatchSource struct {
	queries *Queries
}

func NewMatchSource(queries *Queries) *MatchSource {
	return &MatchSource{queries: queries}
}

func (s *MatchSource) CustomersByPhone(ctx context.Context, tenantID int64, phoneNormalized string) ([]match.Customer, error) {
	rows, err := s.queries.ListCustomersByPhone(ctx, ListCustomersByPhoneParams{
		TenantID:        tenantID,
		PhoneNormalized: phoneNormalized,
	})
	if err != nil {
		return nil, err
	}
	return customerViews(rows), nil
}

func (s *MatchSource) CustomersByNameContains(ctx context.Context, tenantID int64, nameNormalized string) ([]match.Customer, error) {
	rows, err := s.queries.ListCustomersByNameContains(ctx, ListCustomersByNameContainsParams{
		TenantID:       tenantID,
		NameNormalized: nameNormalized,
	})
	if err != nil {
		return nil, err
	}
	return customerViews(rows), nil
}

func (s *MatchSource) CustomersByTenant(ctx context.Context, tenantID int64) ([]match.Customer, error) {
	rows, err := s.queries.ListCustomersByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return customerViews(rows), nil
}

func (s *MatchSource) BuildingsByName(ctx context.Context, tenantID int64, nameNormalized string) ([]match.Building, error) {
	rows, err := s.queries.ListBuildingsByName(ctx, ListBuildingsByNameParams{
		TenantID:       tenantID,
		NameNormalized: nameNormalized,
	})
	if err != nil {
		return nil, err
	}
	return buildingViews(rows), nil
}

func (s *MatchSource) BuildingsByAddressContains(ctx context.Context, tenantID int64, addressNormalized string) ([]match.Building, error) {
	rows, err := s.queries.ListBuildingsByAddressContains(ctx, ListBuildingsByAddressContainsParams{
		TenantID:          tenantID,
		AddressNormalized: addressNormalized,
	})
	if err != nil {
		return nil, err
	}
	return buildingViews(rows), nil
}

// BuildingsWithinRadius loads the tenant's geocoded buildings into an R-tree
// and searches it. Building the index per call keeps the source stateless;
// tenants are small enough that this stays cheap.
func (s *MatchSource) BuildingsWithinRadius(ctx context.Context, tenantID int64, lat, lng, radiusMeters float64, limit int) ([]match.BuildingDistance, error) {
	rows, err := s.queries.ListBuildingsWithCoordinates(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return NewBuildingIndex(rows).WithinRadius(lat, lng, radiusMeters, limit), nil
}

func (s *MatchSource) BuildingsByTenant(ctx context.Context, tenantID int64) ([]match.Building, error) {
	rows, err := s.queries.ListBuildingsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return buildingViews(rows), nil
}

func (s *MatchSource) DismissedPairs(ctx context.Context, tenantID int64, entityType string) (match.DismissalSet, error) {
	rows, err := s.queries.ListDismissedPairs(ctx, ListDismissedPairsParams{
		TenantID:   tenantID,
		EntityType: entityType,
	})
	if err != nil {
		return match.DismissalSet{}, err
	}
	pairs := make([][2]int64, len(rows))
	for i, r := range rows {
		pairs[i] = [2]int64{r.EntityIDLow, r.EntityIDHigh}
	}
	return match.NewDismissalSet(pairs), nil
}

func CustomerView(c Customer) match.Customer {
	return match.Customer{
		ID:       c.ID,
		TenantID: c.TenantID,
		Name:     c.Name,
		NameKana: c.NameKana.String,
		Phone:    c.Phone.String,
		Email:    c.Email.String,
	}
}

func customerViews(rows []Customer) []match.Customer {
	views := make([]match.Customer, len(rows))
	for i, r := range rows {
		views[i] = CustomerView(r)
	}
	return views
}

func BuildingView(b Building) match.Building {
	view := match.Building{
		ID:       b.ID,
		TenantID: b.TenantID,
		Name:     b.Name,
		Address:  b.Address.String,
	}
	if b.Lat.Valid && b.Lng.Valid {
		lat, lng := b.Lat.Float64, b.Lng.Float64
		view.Lat = &lat
		view.Lng = &lng
	}
	return view
}

func buildingViews(rows []Building) []match.Building {
	views := make([]match.Building, len(rows))
	for i, r := range rows {
		views[i] = BuildingView(r)
	}
	return views
}
