package match

import (
	"fmt"
	"strings"
)

// Building scoring weights. They sum to 1.0 before the x100 scaling.
const (
	buildingNameWeight      = 0.45
	buildingAddressWeight   = 0.35
	buildingProximityWeight = 0.2
)

// BuildingProximityThresholdMeters is the distance at which the proximity
// signal reaches zero.
const BuildingProximityThresholdMeters = 200.0

// buildingNearbyReasonMeters is the coarse cutoff for the 近接 reason.
const buildingNearbyReasonMeters = 100.0

// BuildingScorer scores a candidate building against a subject.
type BuildingScorer struct{}

// Score returns a weighted confidence score in [0, 100]. Missing addresses
// or coordinates drop their term from the sum without renormalizing.
func (s *BuildingScorer) Score(subject, candidate Building) int {
	var score float64

	score += buildingNameWeight * Similarity(subject.Name, candidate.Name)
	score += buildingAddressWeight * AddressSimilarity(subject.Address, candidate.Address)

	if dist, ok := Distance(subject.Lat, subject.Lng, candidate.Lat, candidate.Lng); ok {
		score += buildingProximityWeight * ProximityScore(dist, BuildingProximityThresholdMeters)
	}

	return clampScore(score * 100)
}

// Reasons returns the human-readable match reasons for a building pair.
func (s *BuildingScorer) Reasons(subject, candidate Building) []string {
	var reasons []string

	subjectName := NormalizeName(subject.Name)
	candidateName := NormalizeName(candidate.Name)
	switch {
	case subjectName != "" && subjectName == candidateName:
		reasons = append(reasons, "名前一致")
	case Similarity(subject.Name, candidate.Name) >= nameSimilarReasonThreshold:
		reasons = append(reasons, "名前類似")
	}

	subjectAddr := NormalizeAddress(subject.Address)
	candidateAddr := NormalizeAddress(candidate.Address)
	switch {
	case subjectAddr != "" && subjectAddr == candidateAddr:
		reasons = append(reasons, "住所一致")
	case subjectAddr != "" && candidateAddr != "" &&
		(strings.Contains(subjectAddr, candidateAddr) || strings.Contains(candidateAddr, subjectAddr)):
		reasons = append(reasons, "住所類似")
	}

	if dist, ok := Distance(subject.Lat, subject.Lng, candidate.Lat, candidate.Lng); ok {
		if dist <= buildingNearbyReasonMeters {
			reasons = append(reasons, fmt.Sprintf("近接(%.0fm)", dist))
		}
	}

	return reasons
}
