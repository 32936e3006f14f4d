package demand

import (
	"hash/fnv"
	"math/rand"

	"github.com/accra-mobility/transitopt/common"
)

// synthetic demand estimator, used when no forecast profile is supplied.
// deterministic per seed: each route draws from its own source so the
// result does not depend on iteration order. the generated distribution
// is a fixture, not a contract.
type Estimator struct {
	Seed int64
}

const BASE_DEMAND = 20

// period demand multipliers
var period_weight = map[common.TimePeriod]float64{
	common.MorningPeak:   2.5,
	common.Midday:        1.0,
	common.AfternoonPeak: 2.0,
	common.Evening:       1.5,
	common.Night:         0.3,
}

func (e Estimator) route_rng(route string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(route))
	return rand.New(rand.NewSource(e.Seed ^ int64(h.Sum64())))
}

// major stops (first, last, middle) carry heavier demand
func major(i, n int) bool {
	return i == 0 || i == n-1 || i == n/2
}

// Profile generates a full per-period demand profile for all routes
func (e Estimator) Profile(routes []common.Route) Profile {
	p := make(Profile, len(routes))
	for _, r := range routes {
		rng := e.route_rng(r.ID)
		n := len(r.Stops)
		periods := make(map[common.TimePeriod][]int, len(common.Periods()))
		for _, period := range common.Periods() {
			demands := make([]int, n)
			for i := 0; i < n; i++ {
				stop_weight := 1.0
				if major(i, n) {
					stop_weight = 1.5
				}
				jitter := 0.8 + 0.4*rng.Float64()
				d := int(BASE_DEMAND * period_weight[period] * stop_weight * jitter)
				if d < 1 {
					d = 1
				}
				demands[i] = d
			}
			periods[period] = demands
		}
		p[r.ID] = periods
	}
	return p
}

// RouteDemand generates per-stop demand for a single route,
// used as the fallback input to the route solver
func (e Estimator) RouteDemand(r common.Route) []int {
	rng := e.route_rng(r.ID)
	n := len(r.Stops)
	demands := make([]int, n)
	for i := 0; i < n; i++ {
		if major(i, n) {
			demands[i] = 50 + rng.Intn(100)
		} else {
			demands[i] = 10 + rng.Intn(40)
		}
	}
	return demands
}
