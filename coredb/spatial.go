package coredb

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"

	"bukken.rehub.jp/internal/match"
)

// BuildingIndex is an R-tree over building coordinates, used to pre-filter
// radius queries to a bounding box before exact distance filtering.
type BuildingIndex struct {
	tree rtree.RTree
}

// NewBuildingIndex builds an index from the given buildings. Buildings
// without coordinates are skipped.
func NewBuildingIndex(buildings []Building) *BuildingIndex {
	idx := &BuildingIndex{}
	for _, b := range buildings {
		if !b.Lat.Valid || !b.Lng.Valid {
			continue
		}
		point := [2]float64{b.Lat.Float64, b.Lng.Float64}
		idx.tree.Insert(point, point, b)
	}
	return idx
}

// WithinRadius returns buildings within radiusMeters of the point, ordered
// by ascending distance, capped at limit. The R-tree search uses a bounding
// box; exact filtering uses the haversine distance.
func (idx *BuildingIndex) WithinRadius(lat, lng, radiusMeters float64, limit int) []match.BuildingDistance {
	bounds := boundingBox(lat, lng, radiusMeters)

	var results []match.BuildingDistance
	idx.tree.Search(bounds.min, bounds.max, func(min, max [2]float64, data interface{}) bool {
		b, ok := data.(Building)
		if !ok {
			return true
		}
		dist := match.HaversineDistance(lat, lng, b.Lat.Float64, b.Lng.Float64)
		if dist <= radiusMeters {
			results = append(results, match.BuildingDistance{
				Building:       BuildingView(b),
				DistanceMeters: dist,
			})
		}
		return true
	})

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceMeters != results[j].DistanceMeters {
			return results[i].DistanceMeters < results[j].DistanceMeters
		}
		return results[i].Building.ID < results[j].Building.ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

type box struct {
	min [2]float64
	max [2]float64
}

// boundingBox converts a radius in meters to a lat/lng box around the point.
// The box over-approximates near the poles, which is fine: the exact
// distance check runs afterwards.
func boundingBox(lat, lng, radiusMeters float64) box {
	const metersPerDegreeLat = 111320.0
	latDelta := radiusMeters / metersPerDegreeLat

	// Longitude degrees shrink with cos(lat); clamp to avoid a zero divisor.
	cosLat := math.Abs(math.Cos(lat * math.Pi / 180))
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lngDelta := radiusMeters / (metersPerDegreeLat * cosLat)

	return box{
		min: [2]float64{lat - latDelta, lng - lngDelta},
		max: [2]float64{lat + latDelta, lng + lngDelta},
	}
}
