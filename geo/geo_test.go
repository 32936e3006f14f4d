package geo

import (
	"testing"

	"github.com/accra-mobility/transitopt/common"
	"github.com/stretchr/testify/assert"
)

func TestDistanceSymmetry(t *testing.T) {
	pairs := []struct {
		a, b common.Location
	}{
		{common.Location{Latitude: 5.56, Longitude: -0.2057}, common.Location{Latitude: 5.57, Longitude: -0.2157}},
		{common.Location{Latitude: 0, Longitude: 0}, common.Location{Latitude: -33.8688, Longitude: 151.2093}},
		{common.Location{Latitude: 51.5072, Longitude: -0.1276}, common.Location{Latitude: 40.7128, Longitude: -74.006}},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p.a, p.b), Distance(p.b, p.a))
		assert.Zero(t, Distance(p.a, p.a))
		assert.Zero(t, Distance(p.b, p.b))
		assert.GreaterOrEqual(t, Distance(p.a, p.b), 0.0)
	}
}

func TestDistanceKnownPair(t *testing.T) {
	// London to Paris, roughly 344 km great-circle
	london := common.Location{Latitude: 51.5072, Longitude: -0.1276}
	paris := common.Location{Latitude: 48.8566, Longitude: 2.3522}
	assert.InDelta(t, 344, Distance(london, paris), 2)
}

func TestMatrix(t *testing.T) {
	locs := []common.Location{
		{Latitude: 5.56, Longitude: -0.2057},
		{Latitude: 5.57, Longitude: -0.2157},
		{Latitude: 5.58, Longitude: -0.2257},
	}
	m := Matrix(locs)
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	for i := 0; i < 3; i++ {
		assert.Zero(t, m.At(i, i))
		for j := 0; j < 3; j++ {
			assert.Equal(t, m.At(i, j), m.At(j, i))
			assert.InDelta(t, Distance(locs[i], locs[j]), m.At(i, j), 1e-12)
		}
	}
}
