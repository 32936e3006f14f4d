// Package geo computes great-circle distances between stops.
package geo

import (
	"math"

	"github.com/accra-mobility/transitopt/common"
	"gonum.org/v1/gonum/mat"
)

const EARTH_RADIUS_KM = 6371.0

// Distance computes the haversine (great-circle) distance between
// two locations, in kilometers.
// No validation: garbage coordinates yield garbage distances.
func Distance(a, b common.Location) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dlat := (b.Latitude - a.Latitude) * math.Pi / 180
	dlon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return 2 * EARTH_RADIUS_KM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Matrix computes the pairwise distance matrix over locations,
// in kilometers. Symmetric, zero diagonal.
func Matrix(locs []common.Location) *mat.SymDense {
	n := len(locs)
	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m.SetSym(i, j, Distance(locs[i], locs[j]))
		}
	}
	return m
}
