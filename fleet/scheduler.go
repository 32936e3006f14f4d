// Package fleet sizes the vehicle fleet: an integer number of vehicles
// per (route, period) minimizing the total, subject to demand coverage,
// headway bounds, and the global fleet cap. Modeled as an integer
// program and solved by branch and bound over an LP relaxation.
package fleet

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/accra-mobility/transitopt/common"
	"github.com/accra-mobility/transitopt/demand"
	log "github.com/sirupsen/logrus"
)

// invalid input, distinct from an infeasible model
var ErrBadInput = errors.New("fleet: invalid input")

const DEFAULT_TIMEOUT = 60 * time.Second

// solver status
type Status int

const (
	Optimal Status = iota
	Infeasible
	NotSolved
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "Optimal"
	case Infeasible:
		return "Infeasible"
	default:
		return "NotSolved"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// schema for assignment cell key
type Key struct {
	RouteID string            `json:"route_id"`
	Period  common.TimePeriod `json:"period"`
}

// schema for per-(route, period) assignment.
// invariant on Optimal results: Capacity >= PeakDemand
type Assignment struct {
	Vehicles   int     `json:"vehicles"`
	HeadwayMin float64 `json:"headway_min"`
	Capacity   int     `json:"capacity"`
	PeakDemand int     `json:"peak_demand"`
}

// schema for fleet solve result
type Result struct {
	Status        Status             `json:"status"`
	TotalVehicles int                `json:"total_vehicles"`
	Assignments   map[Key]Assignment `json:"-"`
}

// group assignments by route then period
func (r Result) ByRoute() map[string]map[common.TimePeriod]Assignment {
	out := make(map[string]map[common.TimePeriod]Assignment)
	for k, a := range r.Assignments {
		if _, ok := out[k.RouteID]; !ok {
			out[k.RouteID] = make(map[common.TimePeriod]Assignment)
		}
		out[k.RouteID][k.Period] = a
	}
	return out
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status         Status                                      `json:"status"`
		TotalVehicles  int                                         `json:"total_vehicles"`
		RouteSchedules map[string]map[common.TimePeriod]Assignment `json:"route_schedules"`
	}{r.Status, r.TotalVehicles, r.ByRoute()})
}

// fleet utilization rate: served peak demand over realized capacity
func (r Result) UtilizationRate() float64 {
	var capacity, peak int
	for _, a := range r.Assignments {
		capacity += a.Capacity
		peak += a.PeakDemand
	}
	if capacity == 0 {
		return 0
	}
	return float64(peak) / float64(capacity) * 100
}

// schema for fleet scheduler parameters
type Scheduler struct {
	Routes       []common.Route
	CycleTimes   map[string]float64 // avg cycle time per route (minutes)
	Demand       demand.Profile
	Capacity     int     // per-vehicle capacity (passengers)
	MinHeadway   float64 // anti-bunching spacing (minutes)
	MaxHeadway   float64 // service-quality ceiling on waits (minutes)
	MaxFleetSize int     // global cap over all (route, period) cells
	Timeout      time.Duration
}

// Solve decides the minimum-total integer vehicle count per
// (route, period). Infeasibility and timeout surface as statuses;
// errors are reserved for invalid input and solver failure.
// Deterministic: identical inputs yield identical assignments.
func (s *Scheduler) Solve() (Result, error) {
	if err := s.validate(); err != nil {
		return Result{Status: NotSolved}, err
	}

	cells := s.build_cells()
	log.Debugf(
		"[fleet] solving %d cells (%d routes x %d periods), cap %d",
		len(cells),
		len(s.Routes),
		len(common.Periods()),
		s.MaxFleetSize,
	)

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DEFAULT_TIMEOUT
	}
	counts, status, err := branch_and_bound(cells, s.MaxFleetSize, time.Now().Add(timeout))
	if err != nil {
		return Result{Status: NotSolved}, fmt.Errorf("fleet: solver failure: %w", err)
	}
	if status != Optimal {
		log.Warnf("[fleet] no assignment found: %v", status)
		return Result{Status: status}, nil
	}

	result := Result{
		Status:      Optimal,
		Assignments: make(map[Key]Assignment, len(cells)),
	}
	for i, c := range cells {
		vehicles := counts[i]
		result.TotalVehicles += vehicles
		result.Assignments[c.key] = Assignment{
			Vehicles:   vehicles,
			HeadwayMin: s.CycleTimes[c.key.RouteID] / float64(vehicles),
			Capacity:   vehicles * s.Capacity,
			PeakDemand: c.peak,
		}
	}
	log.Printf("[fleet] optimal: %d vehicles total", result.TotalVehicles)
	return result, nil
}

func (s *Scheduler) validate() error {
	if len(s.Routes) == 0 {
		return fmt.Errorf("%w: no routes", ErrBadInput)
	}
	if s.Capacity <= 0 {
		return fmt.Errorf("%w: capacity %d", ErrBadInput, s.Capacity)
	}
	if s.MinHeadway <= 0 || s.MaxHeadway < s.MinHeadway {
		return fmt.Errorf(
			"%w: headway bounds [%0.1f, %0.1f]",
			ErrBadInput, s.MinHeadway, s.MaxHeadway,
		)
	}
	if s.MaxFleetSize <= 0 {
		return fmt.Errorf("%w: max fleet size %d", ErrBadInput, s.MaxFleetSize)
	}
	for _, r := range s.Routes {
		if ct, ok := s.CycleTimes[r.ID]; !ok || ct <= 0 {
			return fmt.Errorf("%w: route %s: cycle time %0.1f", ErrBadInput, r.ID, ct)
		}
	}
	if err := s.Demand.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	return nil
}

// one decision variable per (route, period), with integer bounds:
// lb covers demand and the max-headway floor, ub is the min-headway
// (anti-bunching) ceiling. cells are ordered by route id then
// canonical period order, so the solve is deterministic.
func (s *Scheduler) build_cells() []cell {
	routes := make([]common.Route, len(s.Routes))
	copy(routes, s.Routes)
	sort.Slice(routes, func(i, j int) bool { return routes[i].ID < routes[j].ID })

	var cells []cell
	for _, r := range routes {
		ct := s.CycleTimes[r.ID]
		for _, period := range common.Periods() {
			peak := s.Demand.Peak(r.ID, period)

			// every scheduled route gets at least one vehicle per period
			lb := 1
			if v := int(math.Ceil(float64(peak) / float64(s.Capacity))); v > lb {
				lb = v
			}
			if v := int(math.Ceil(ct / s.MaxHeadway)); v > lb {
				lb = v
			}
			ub := int(math.Floor(ct / s.MinHeadway))

			cells = append(cells, cell{
				key:  Key{RouteID: r.ID, Period: period},
				peak: peak,
				lb:   lb,
				ub:   ub,
			})
		}
	}
	return cells
}
