package match

import (
	"context"
	"fmt"
	"sort"
)

// Candidate list cap and radius tiers for the proximity search.
const (
	MaxCandidates = 5

	DefaultSearchRadiusMeters  = 200.0
	FallbackSearchRadiusMeters = 1000.0
	FallbackSearchResultCap    = 10
)

// CustomerSource provides tenant-scoped customer lookups for the detector.
// Implementations must already maintain the normalized columns the lookups
// run against.
type CustomerSource interface {
	CustomersByPhone(ctx context.Context, tenantID int64, phoneNormalized string) ([]Customer, error)
	CustomersByNameContains(ctx context.Context, tenantID int64, nameNormalized string) ([]Customer, error)
	CustomersByTenant(ctx context.Context, tenantID int64) ([]Customer, error)
}

// BuildingSource provides tenant-scoped building lookups, including the
// spatial "within radius, ordered by distance, capped" query.
type BuildingSource interface {
	BuildingsByName(ctx context.Context, tenantID int64, nameNormalized string) ([]Building, error)
	BuildingsByAddressContains(ctx context.Context, tenantID int64, addressNormalized string) ([]Building, error)
	BuildingsWithinRadius(ctx context.Context, tenantID int64, lat, lng, radiusMeters float64, limit int) ([]BuildingDistance, error)
	BuildingsByTenant(ctx context.Context, tenantID int64) ([]Building, error)
}

// DismissalSource loads the dismissed-pair snapshot consulted on every find.
type DismissalSource interface {
	DismissedPairs(ctx context.Context, tenantID int64, entityType string) (DismissalSet, error)
}

// CustomerDetector finds duplicate candidates for one customer.
type CustomerDetector struct {
	source     CustomerSource
	dismissals DismissalSource
	scorer     *CustomerScorer
}

func NewCustomerDetector(source CustomerSource, dismissals DismissalSource) *CustomerDetector {
	return &CustomerDetector{
		source:     source,
		dismissals: dismissals,
		scorer:     &CustomerScorer{},
	}
}

// Find returns up to MaxCandidates duplicate suggestions for the subject,
// ordered by descending score. Missing optional data on the subject never
// fails the search; the corresponding signal is skipped.
func (d *CustomerDetector) Find(ctx context.Context, subject Customer) ([]CustomerCandidate, error) {
	dismissed, err := d.dismissals.DismissedPairs(ctx, subject.TenantID, EntityTypeCustomer)
	if err != nil {
		return nil, fmt.Errorf("loading dismissed pairs: %w", err)
	}

	type entry struct {
		customer   Customer
		confidence Confidence
	}
	found := make(map[int64]*entry)
	var order []int64

	add := func(c Customer, confidence Confidence) {
		if c.ID == subject.ID || c.TenantID != subject.TenantID {
			return
		}
		if dismissed.Contains(subject.ID, c.ID) {
			return
		}
		if existing, ok := found[c.ID]; ok {
			if confidenceRank(confidence) > confidenceRank(existing.confidence) {
				existing.confidence = confidence
			}
			return
		}
		found[c.ID] = &entry{customer: c, confidence: confidence}
		order = append(order, c.ID)
	}

	// Tier 1: exact normalized-phone equality. A phone match that also
	// matches the normalized name is the strongest signal we have.
	subjectPhone := NormalizePhone(subject.Phone)
	if subjectPhone != "" {
		matches, err := d.source.CustomersByPhone(ctx, subject.TenantID, subjectPhone)
		if err != nil {
			return nil, fmt.Errorf("phone lookup: %w", err)
		}
		subjectName := NormalizeName(subject.Name)
		for _, m := range matches {
			confidence := ConfidenceHigh
			if subjectName != "" && subjectName == NormalizeName(m.Name) {
				confidence = ConfidenceHighest
			}
			add(m, confidence)
		}
	}

	// Tier 2: name containment, only as a fallback when the identifier tier
	// found nothing.
	if len(order) == 0 {
		if subjectName := NormalizeName(subject.Name); subjectName != "" {
			matches, err := d.source.CustomersByNameContains(ctx, subject.TenantID, subjectName)
			if err != nil {
				return nil, fmt.Errorf("name lookup: %w", err)
			}
			for _, m := range matches {
				add(m, ConfidenceMedium)
			}
		}
	}

	candidates := make([]CustomerCandidate, 0, len(order))
	for _, id := range order {
		e := found[id]
		candidates = append(candidates, CustomerCandidate{
			Customer:   e.customer,
			Score:      d.scorer.Score(subject, e.customer),
			Reasons:    d.scorer.Reasons(subject, e.customer),
			Confidence: e.confidence,
		})
	}

	sortAndTruncateCustomers(candidates)
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates, nil
}

// BuildingDetector finds duplicate candidates for one building.
type BuildingDetector struct {
	source     BuildingSource
	dismissals DismissalSource
	scorer     *BuildingScorer
}

func NewBuildingDetector(source BuildingSource, dismissals DismissalSource) *BuildingDetector {
	return &BuildingDetector{
		source:     source,
		dismissals: dismissals,
		scorer:     &BuildingScorer{},
	}
}

// Find returns up to MaxCandidates duplicate suggestions for the subject
// building. A building matched by several tiers appears once, scored once.
func (d *BuildingDetector) Find(ctx context.Context, subject Building) ([]BuildingCandidate, error) {
	dismissed, err := d.dismissals.DismissedPairs(ctx, subject.TenantID, EntityTypeBuilding)
	if err != nil {
		return nil, fmt.Errorf("loading dismissed pairs: %w", err)
	}

	type entry struct {
		building   Building
		confidence Confidence
	}
	found := make(map[int64]*entry)
	var order []int64

	add := func(b Building, confidence Confidence) {
		if b.ID == subject.ID || b.TenantID != subject.TenantID {
			return
		}
		if dismissed.Contains(subject.ID, b.ID) {
			return
		}
		if existing, ok := found[b.ID]; ok {
			if confidenceRank(confidence) > confidenceRank(existing.confidence) {
				existing.confidence = confidence
			}
			return
		}
		found[b.ID] = &entry{building: b, confidence: confidence}
		order = append(order, b.ID)
	}

	// Tier 1: exact normalized-name equality.
	if subjectName := NormalizeName(subject.Name); subjectName != "" {
		matches, err := d.source.BuildingsByName(ctx, subject.TenantID, subjectName)
		if err != nil {
			return nil, fmt.Errorf("name lookup: %w", err)
		}
		for _, m := range matches {
			add(m, ConfidenceHigh)
		}
	}

	// Tier 2: address containment, always attempted as an additional signal.
	if subjectAddr := NormalizeAddress(subject.Address); subjectAddr != "" {
		matches, err := d.source.BuildingsByAddressContains(ctx, subject.TenantID, subjectAddr)
		if err != nil {
			return nil, fmt.Errorf("address lookup: %w", err)
		}
		for _, m := range matches {
			add(m, ConfidenceMedium)
		}
	}

	// Tier 3: proximity at the default radius, with a single wider fallback
	// so a subject with no close match still gets some ranked suggestions.
	if subject.Lat != nil && subject.Lng != nil {
		nearby, err := d.source.BuildingsWithinRadius(ctx, subject.TenantID,
			*subject.Lat, *subject.Lng, DefaultSearchRadiusMeters, MaxCandidates)
		if err != nil {
			return nil, fmt.Errorf("radius lookup: %w", err)
		}
		for _, n := range nearby {
			add(n.Building, ConfidenceLow)
		}

		if len(order) == 0 {
			wider, err := d.source.BuildingsWithinRadius(ctx, subject.TenantID,
				*subject.Lat, *subject.Lng, FallbackSearchRadiusMeters, FallbackSearchResultCap)
			if err != nil {
				return nil, fmt.Errorf("fallback radius lookup: %w", err)
			}
			for _, n := range wider {
				add(n.Building, ConfidenceLow)
			}
		}
	}

	candidates := make([]BuildingCandidate, 0, len(order))
	for _, id := range order {
		e := found[id]
		candidates = append(candidates, BuildingCandidate{
			Building:   e.building,
			Score:      d.scorer.Score(subject, e.building),
			Reasons:    d.scorer.Reasons(subject, e.building),
			Confidence: e.confidence,
		})
	}

	sortAndTruncateBuildings(candidates)
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates, nil
}

func confidenceRank(c Confidence) int {
	switch c {
	case ConfidenceHighest:
		return 3
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// Ordering is score-descending with ascending id as the tie break, so the
// result list is deterministic across runs.

func sortAndTruncateCustomers(candidates []CustomerCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Customer.ID < candidates[j].Customer.ID
	})
}

func sortAndTruncateBuildings(candidates []BuildingCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Building.ID < candidates[j].Building.ID
	})
}
