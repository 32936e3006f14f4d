package fleet

import (
	"math"
	"testing"
	"time"

	"github.com/accra-mobility/transitopt/common"
	"github.com/accra-mobility/transitopt/demand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func two_route_scheduler() *Scheduler {
	routes := []common.Route{
		{ID: "r1", Stops: make([]common.Stop, 3)},
		{ID: "r2", Stops: make([]common.Stop, 3)},
	}
	return &Scheduler{
		Routes:     routes,
		CycleTimes: map[string]float64{"r1": 30, "r2": 60},
		Demand: demand.Profile{
			"r1": {common.MorningPeak: {10, 45, 20}},
			"r2": {common.MorningPeak: {95, 40, 30}},
		},
		Capacity:     50,
		MinHeadway:   5,
		MaxHeadway:   30,
		MaxFleetSize: 20,
		Timeout:      10 * time.Second,
	}
}

func TestSolveTwoRoutes(t *testing.T) {
	s := two_route_scheduler()
	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)

	// morning peak: r1 covered by one vehicle (45 <= 50), r2 needs
	// ceil(95/50) = 2
	r1 := res.Assignments[Key{RouteID: "r1", Period: common.MorningPeak}]
	r2 := res.Assignments[Key{RouteID: "r2", Period: common.MorningPeak}]
	assert.Equal(t, 1, r1.Vehicles)
	assert.Equal(t, 2, r2.Vehicles)
	assert.Equal(t, 45, r1.PeakDemand)
	assert.Equal(t, 95, r2.PeakDemand)

	// off-peak: r1 falls to the one-vehicle floor, r2 is held at
	// ceil(60/30) = 2 by the max-headway constraint
	assert.Equal(t, 1, res.Assignments[Key{RouteID: "r1", Period: common.Night}].Vehicles)
	assert.Equal(t, 2, res.Assignments[Key{RouteID: "r2", Period: common.Night}].Vehicles)

	// 5 periods x (1 + 2)
	assert.Equal(t, 15, res.TotalVehicles)
}

func TestSolveInvariants(t *testing.T) {
	s := two_route_scheduler()
	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)

	var total int
	for k, a := range res.Assignments {
		assert.Positive(t, a.Vehicles)
		assert.GreaterOrEqual(t, a.Capacity, a.PeakDemand, "cell %v", k)
		assert.Equal(t, a.Vehicles*s.Capacity, a.Capacity)
		assert.GreaterOrEqual(t, a.HeadwayMin, s.MinHeadway, "cell %v", k)
		assert.LessOrEqual(t, a.HeadwayMin, s.MaxHeadway, "cell %v", k)
		assert.InDelta(t, s.CycleTimes[k.RouteID]/float64(a.Vehicles), a.HeadwayMin, 1e-9)
		total += a.Vehicles
	}
	assert.Equal(t, res.TotalVehicles, total)
	assert.LessOrEqual(t, total, s.MaxFleetSize)
}

func TestSolveIdempotent(t *testing.T) {
	a, err := two_route_scheduler().Solve()
	require.NoError(t, err)
	b, err := two_route_scheduler().Solve()
	require.NoError(t, err)
	assert.Equal(t, a.TotalVehicles, b.TotalVehicles)
	assert.Equal(t, a.Assignments, b.Assignments)
}

func TestSolveFleetCapInfeasible(t *testing.T) {
	// minimum floors sum to 15; a cap below that has no assignment
	s := two_route_scheduler()
	s.MaxFleetSize = 10
	res, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, Infeasible, res.Status)
	assert.Empty(t, res.Assignments)
}

func TestSolveHeadwayConflictInfeasible(t *testing.T) {
	// min-headway ceiling floor(30/40) = 0 undercuts the one-vehicle
	// floor on r1
	s := two_route_scheduler()
	s.MinHeadway = 40
	s.MaxHeadway = 50
	res, err := s.Solve()
	require.NoError(t, err)
	assert.Equal(t, Infeasible, res.Status)
}

func TestSolveZeroDemandFloor(t *testing.T) {
	// no demand at all: every cell still gets one vehicle
	s := two_route_scheduler()
	s.Demand = demand.Profile{}
	s.CycleTimes = map[string]float64{"r1": 20, "r2": 25}
	res, err := s.Solve()
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)
	for k, a := range res.Assignments {
		assert.Equal(t, 1, a.Vehicles, "cell %v", k)
	}
	assert.Equal(t, 10, res.TotalVehicles)
}

func TestSolveBadInput(t *testing.T) {
	s := two_route_scheduler()
	s.Capacity = 0
	_, err := s.Solve()
	assert.ErrorIs(t, err, ErrBadInput)

	s = two_route_scheduler()
	s.MinHeadway = 30
	s.MaxHeadway = 5
	_, err = s.Solve()
	assert.ErrorIs(t, err, ErrBadInput)

	s = two_route_scheduler()
	delete(s.CycleTimes, "r2")
	_, err = s.Solve()
	assert.ErrorIs(t, err, ErrBadInput)

	s = two_route_scheduler()
	s.Demand["r1"][common.MorningPeak][0] = -5
	_, err = s.Solve()
	assert.ErrorIs(t, err, ErrBadInput)

	s = two_route_scheduler()
	s.Routes = nil
	_, err = s.Solve()
	assert.ErrorIs(t, err, ErrBadInput)
}

func TestUtilizationRate(t *testing.T) {
	s := two_route_scheduler()
	res, err := s.Solve()
	require.NoError(t, err)

	var capacity, peak float64
	for _, a := range res.Assignments {
		capacity += float64(a.Capacity)
		peak += float64(a.PeakDemand)
	}
	assert.InDelta(t, peak/capacity*100, res.UtilizationRate(), 1e-9)
	assert.False(t, math.IsNaN(res.UtilizationRate()))

	assert.Zero(t, Result{}.UtilizationRate())
}
