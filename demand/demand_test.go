package demand

import (
	"testing"

	"github.com/accra-mobility/transitopt/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func test_routes() []common.Route {
	stops := func(n int) []common.Stop {
		s := make([]common.Stop, n)
		for i := range s {
			s[i] = common.Stop{
				ID: string(rune('a' + i)),
				Location: common.Location{
					Latitude:  5.56 + 0.01*float64(i),
					Longitude: -0.2 - 0.01*float64(i),
				},
			}
		}
		return s
	}
	return []common.Route{
		{ID: "r1", Stops: stops(5)},
		{ID: "r2", Stops: stops(8)},
	}
}

func TestProfilePeak(t *testing.T) {
	p := Profile{
		"r1": {
			common.MorningPeak: {10, 45, 20},
			common.Night:       {1, 2, 3},
		},
	}
	assert.Equal(t, 45, p.Peak("r1", common.MorningPeak))
	assert.Equal(t, 3, p.Peak("r1", common.Night))
	assert.Zero(t, p.Peak("r1", common.Midday))
	assert.Zero(t, p.Peak("missing", common.MorningPeak))
}

func TestProfileValidate(t *testing.T) {
	good := Profile{"r1": {common.Midday: {0, 1, 2}}}
	assert.NoError(t, good.Validate())

	negative := Profile{"r1": {common.Midday: {0, -1}}}
	assert.Error(t, negative.Validate())

	unknown := Profile{"r1": {common.TimePeriod("rush"): {1}}}
	assert.Error(t, unknown.Validate())
}

func TestEstimatorDeterministic(t *testing.T) {
	routes := test_routes()
	a := Estimator{Seed: 42}.Profile(routes)
	b := Estimator{Seed: 42}.Profile(routes)
	assert.Equal(t, a, b)

	// per-route draws are independent of slice order
	reversed := []common.Route{routes[1], routes[0]}
	c := Estimator{Seed: 42}.Profile(reversed)
	assert.Equal(t, a, c)

	other := Estimator{Seed: 7}.Profile(routes)
	assert.NotEqual(t, a, other)
}

func TestEstimatorProfileShape(t *testing.T) {
	routes := test_routes()
	p := Estimator{Seed: 1}.Profile(routes)
	require.NoError(t, p.Validate())
	for _, r := range routes {
		for _, period := range common.Periods() {
			demands := p.StopDemand(r.ID, period)
			require.Len(t, demands, len(r.Stops))
			for _, d := range demands {
				assert.GreaterOrEqual(t, d, 1)
			}
		}
	}

	// peaks track the period multipliers: morning peak above night
	assert.Greater(
		t,
		p.Peak("r1", common.MorningPeak),
		p.Peak("r1", common.Night),
	)
}

func TestEstimatorRouteDemand(t *testing.T) {
	routes := test_routes()
	e := Estimator{Seed: 42}
	d := e.RouteDemand(routes[0])
	require.Len(t, d, len(routes[0].Stops))
	for _, x := range d {
		assert.GreaterOrEqual(t, x, 10)
		assert.Less(t, x, 150)
	}
	assert.Equal(t, d, e.RouteDemand(routes[0]))
}
