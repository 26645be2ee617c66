package match

import (
	"context"
	"fmt"
	"sort"
)

// CustomerCluster is a whole-tenant duplicate group keyed by an exact
// identifier (normalized phone).
type CustomerCluster struct {
	Identifier string
	Customers  []Customer
}

// BuildingCluster is a whole-tenant duplicate group keyed by the normalized
// building name.
type BuildingCluster struct {
	Identifier string
	Buildings  []Building
}

// FindTenantClusters scans a tenant's customers and reports every group of
// two or more sharing a normalized phone number. Groups whose every pair has
// been dismissed are dropped.
func (d *CustomerDetector) FindTenantClusters(ctx context.Context, tenantID int64) ([]CustomerCluster, error) {
	customers, err := d.source.CustomersByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	dismissed, err := d.dismissals.DismissedPairs(ctx, tenantID, EntityTypeCustomer)
	if err != nil {
		return nil, fmt.Errorf("loading dismissed pairs: %w", err)
	}

	groups := make(map[string][]Customer)
	for _, c := range customers {
		phone := NormalizePhone(c.Phone)
		if phone == "" {
			continue
		}
		groups[phone] = append(groups[phone], c)
	}

	var clusters []CustomerCluster
	for identifier, members := range groups {
		if len(members) < 2 {
			continue
		}
		if allPairsDismissed(dismissed, customerIDs(members)) {
			continue
		}
		clusters = append(clusters, CustomerCluster{Identifier: identifier, Customers: members})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Identifier < clusters[j].Identifier
	})
	return clusters, nil
}

// FindTenantClusters scans a tenant's buildings and reports every group of
// two or more sharing a normalized name, after dismissal filtering.
func (d *BuildingDetector) FindTenantClusters(ctx context.Context, tenantID int64) ([]BuildingCluster, error) {
	buildings, err := d.source.BuildingsByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing buildings: %w", err)
	}
	dismissed, err := d.dismissals.DismissedPairs(ctx, tenantID, EntityTypeBuilding)
	if err != nil {
		return nil, fmt.Errorf("loading dismissed pairs: %w", err)
	}

	groups := make(map[string][]Building)
	for _, b := range buildings {
		name := NormalizeName(b.Name)
		if name == "" {
			continue
		}
		groups[name] = append(groups[name], b)
	}

	var clusters []BuildingCluster
	for identifier, members := range groups {
		if len(members) < 2 {
			continue
		}
		if allPairsDismissed(dismissed, buildingIDs(members)) {
			continue
		}
		clusters = append(clusters, BuildingCluster{Identifier: identifier, Buildings: members})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Identifier < clusters[j].Identifier
	})
	return clusters, nil
}

func customerIDs(customers []Customer) []int64 {
	ids := make([]int64, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}
	return ids
}

func buildingIDs(buildings []Building) []int64 {
	ids := make([]int64, len(buildings))
	for i, b := range buildings {
		ids[i] = b.ID
	}
	return ids
}

func allPairsDismissed(dismissed DismissalSet, ids []int64) bool {
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if !dismissed.Contains(ids[i], ids[j]) {
				return false
			}
		}
	}
	return true
}
