package models

import "bukken.rehub.jp/internal/match"

// CustomerCandidate is the API shape of one customer duplicate suggestion.
type CustomerCandidate struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	NameKana   string   `json:"nameKana,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Email      string   `json:"email,omitempty"`
	Score      int      `json:"score"`
	Reasons    []string `json:"reasons"`
	Confidence string   `json:"confidence"`
}

func NewCustomerCandidate(c match.CustomerCandidate) CustomerCandidate {
	return CustomerCandidate{
		ID:         c.Customer.ID,
		Name:       c.Customer.Name,
		NameKana:   c.Customer.NameKana,
		Phone:      c.Customer.Phone,
		Email:      c.Customer.Email,
		Score:      c.Score,
		Reasons:    c.Reasons,
		Confidence: string(c.Confidence),
	}
}

func NewCustomerCandidateList(candidates []match.CustomerCandidate) []CustomerCandidate {
	list := make([]CustomerCandidate, len(candidates))
	for i, c := range candidates {
		list[i] = NewCustomerCandidate(c)
	}
	return list
}

// BuildingCandidate is the API shape of one building duplicate suggestion.
type BuildingCandidate struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address,omitempty"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
	Score      int      `json:"score"`
	Reasons    []string `json:"reasons"`
	Confidence string   `json:"confidence"`
}

func NewBuildingCandidate(c match.BuildingCandidate) BuildingCandidate {
	return BuildingCandidate{
		ID:         c.Building.ID,
		Name:       c.Building.Name,
		Address:    c.Building.Address,
		Lat:        c.Building.Lat,
		Lng:        c.Building.Lng,
		Score:      c.Score,
		Reasons:    c.Reasons,
		Confidence: string(c.Confidence),
	}
}

func NewBuildingCandidateList(candidates []match.BuildingCandidate) []BuildingCandidate {
	list := make([]BuildingCandidate, len(candidates))
	for i, c := range candidates {
		list[i] = NewBuildingCandidate(c)
	}
	return list
}

// CustomerClusterEntry is one whole-tenant duplicate group of customers.
type CustomerClusterEntry struct {
	Identifier string              `json:"identifier"`
	Customers  []CustomerCandidate `json:"customers"`
}

func NewCustomerClusterList(clusters []match.CustomerCluster) []CustomerClusterEntry {
	list := make([]CustomerClusterEntry, len(clusters))
	for i, cluster := range clusters {
		members := make([]CustomerCandidate, len(cluster.Customers))
		for j, c := range cluster.Customers {
			members[j] = CustomerCandidate{
				ID:       c.ID,
				Name:     c.Name,
				NameKana: c.NameKana,
				Phone:    c.Phone,
				Email:    c.Email,
			}
		}
		list[i] = CustomerClusterEntry{Identifier: cluster.Identifier, Customers: members}
	}
	return list
}

// BuildingClusterEntry is one whole-tenant duplicate group of buildings.
type BuildingClusterEntry struct {
	Identifier string              `json:"identifier"`
	Buildings  []BuildingCandidate `json:"buildings"`
}

func NewBuildingClusterList(clusters []match.BuildingCluster) []BuildingClusterEntry {
	list := make([]BuildingClusterEntry, len(clusters))
	for i, cluster := range clusters {
		members := make([]BuildingCandidate, len(cluster.Buildings))
		for j, b := range cluster.Buildings {
			members[j] = BuildingCandidate{
				ID:      b.ID,
				Name:    b.Name,
				Address: b.Address,
				Lat:     b.Lat,
				Lng:     b.Lng,
			}
		}
		list[i] = BuildingClusterEntry{Identifier: cluster.Identifier, Buildings: members}
	}
	return list
}
