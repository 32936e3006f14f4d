// Package vrp solves the single-vehicle capacitated, duration-bounded
// routing problem over one route's stops. The contract is best tour
// found within a wall-clock budget, not global optimality.
package vrp

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/accra-mobility/transitopt/common"
	"github.com/accra-mobility/transitopt/geo"
	log "github.com/sirupsen/logrus"
)

// invalid input, distinct from "no solution"
var ErrBadInput = errors.New("vrp: invalid input")

const DEFAULT_TIME_BUDGET = 30 * time.Second

// schema for solved tour over one route.
// Stops is a permutation of the route's stops starting at the depot;
// the tour closes back at the depot, and DistanceKm includes that leg.
type Solution struct {
	RouteID    string        `json:"route_id"`
	Order      []int         `json:"order"`
	Stops      []common.Stop `json:"stops"`
	DistanceKm float64       `json:"total_distance_km"`
	TimeMin    float64       `json:"total_time_min"`
}

// schema for route solver parameters
type Solver struct {
	Capacity    int           // vehicle capacity (passengers)
	MaxDuration int           // max route duration (minutes)
	SpeedKmh    float64       // average travel speed, converts distance to time
	TimeBudget  time.Duration // wall-clock search budget (0 = default)
}

// Solve finds a minimum-distance tour over the route's stops, starting
// and ending at stop 0, honoring the capacity and duration dimensions.
// Returns (nil, nil) when no feasible tour was found within the budget:
// infeasibility is an expected outcome, not an error.
func (s *Solver) Solve(route common.Route, demands []int) (*Solution, error) {
	if err := s.validate(route, demands); err != nil {
		return nil, err
	}

	n := len(route.Stops)

	// degenerate tour: nothing to order
	if n == 1 {
		if demands[0] > s.Capacity {
			log.Debugf("[vrp] route %s: stop demand %d exceeds capacity %d", route.ID, demands[0], s.Capacity)
			return nil, nil
		}
		return &Solution{
			RouteID: route.ID,
			Order:   []int{0},
			Stops:   []common.Stop{route.Stops[0]},
		}, nil
	}

	// capacity dimension: cumulative onboard load is capped at capacity,
	// so any total demand above capacity rules out every tour
	var total int
	for _, d := range demands {
		total += d
	}
	if total > s.Capacity {
		log.Debugf("[vrp] route %s: total demand %d exceeds capacity %d", route.ID, total, s.Capacity)
		return nil, nil
	}

	// arc costs in fixed-point meters, to keep the search over integers
	dm := geo.Matrix(route.Locations())
	cost := make([][]int, n)
	for i := 0; i < n; i++ {
		cost[i] = make([]int, n)
		for j := 0; j < n; j++ {
			cost[i][j] = int(math.Round(dm.At(i, j) * 1000))
		}
	}

	budget := s.TimeBudget
	if budget <= 0 {
		budget = DEFAULT_TIME_BUDGET
	}
	deadline := time.Now().Add(budget)

	// construct, then improve under the deadline
	tour := cheapest_insertion(cost)
	tour = guided_local_search(cost, tour, deadline)

	meters := tour_cost(cost, tour)
	minutes := s.travel_minutes(meters)

	// time dimension: cumulative time is measured from depot departure,
	// bounded by the max route duration
	if minutes > float64(s.MaxDuration) {
		log.Debugf(
			"[vrp] route %s: best tour takes %0.1f min, exceeds max duration %d",
			route.ID,
			minutes,
			s.MaxDuration,
		)
		return nil, nil
	}

	stops := make([]common.Stop, n)
	for i, idx := range tour {
		stops[i] = route.Stops[idx]
	}
	return &Solution{
		RouteID:    route.ID,
		Order:      tour,
		Stops:      stops,
		DistanceKm: float64(meters) / 1000.0,
		TimeMin:    minutes,
	}, nil
}

func (s *Solver) validate(route common.Route, demands []int) error {
	if len(route.Stops) == 0 {
		return fmt.Errorf("%w: route %s has no stops", ErrBadInput, route.ID)
	}
	if len(demands) != len(route.Stops) {
		return fmt.Errorf(
			"%w: route %s: %d demands for %d stops",
			ErrBadInput, route.ID, len(demands), len(route.Stops),
		)
	}
	for i, d := range demands {
		if d < 0 {
			return fmt.Errorf("%w: route %s: negative demand %d at stop %d", ErrBadInput, route.ID, d, i)
		}
	}
	if s.Capacity <= 0 {
		return fmt.Errorf("%w: capacity %d", ErrBadInput, s.Capacity)
	}
	if s.MaxDuration <= 0 {
		return fmt.Errorf("%w: max duration %d", ErrBadInput, s.MaxDuration)
	}
	if s.SpeedKmh <= 0 {
		return fmt.Errorf("%w: speed %0.1f", ErrBadInput, s.SpeedKmh)
	}
	return nil
}

// convert tour meters to minutes at the configured average speed
func (s *Solver) travel_minutes(meters int) float64 {
	return float64(meters) / 1000.0 / s.SpeedKmh * 60.0
}
