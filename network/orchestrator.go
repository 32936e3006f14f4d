// Package network drives the two-stage optimization: per-route tour
// solves in parallel, then one global fleet solve over the realized
// cycle times. A run always completes with partial results and an
// explicit failure list; one route's failure never aborts the run.
package network

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/accra-mobility/transitopt/common"
	"github.com/accra-mobility/transitopt/demand"
	"github.com/accra-mobility/transitopt/fleet"
	"github.com/accra-mobility/transitopt/geo"
	"github.com/accra-mobility/transitopt/vrp"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const DEFAULT_FALLBACK_CYCLE_MIN = 30.0

// why a route is missing from the optimized result set
type FailReason string

const (
	FailInvalid    FailReason = "invalid"
	FailInfeasible FailReason = "infeasible" // covers timeout without incumbent
	FailSolver     FailReason = "solver_failure"
)

// schema for excluded route
type Failure struct {
	RouteID string     `json:"route_id"`
	Reason  FailReason `json:"reason"`
	Detail  string     `json:"detail,omitempty"`
}

// schema for aggregate run metrics.
// routes that failed to solve are excluded from both the original and
// optimized totals, so the efficiency figure reflects solved routes only
type Metrics struct {
	OriginalDistanceKm  float64 `json:"original_total_distance_km"`
	OptimizedDistanceKm float64 `json:"optimized_total_distance_km"`
	DistanceSavedKm     float64 `json:"total_distance_saved_km"`
	EfficiencyPct       float64 `json:"efficiency_improvement_pct"`
	TotalVehicles       int     `json:"total_vehicles"`
	UtilizationPct      float64 `json:"utilization_rate_pct"`
}

// schema for one optimization run: a pure value object, owned by the
// caller, replaced on the next run
type Run struct {
	ID        string                   `json:"run_id"`
	StartedAt time.Time                `json:"started_at"`
	Solutions map[string]*vrp.Solution `json:"optimized_routes"`
	Failures  []Failure                `json:"failures"`
	Schedule  fleet.Result             `json:"schedule"`
	Metrics   Metrics                  `json:"metrics"`
}

// schema for orchestrator parameters
type Orchestrator struct {
	Routes       []common.Route
	Demand       demand.Profile    // nil = synthetic fallback
	Estimator    demand.Estimator  // fallback demand generator
	Capacity     int               // vehicle capacity (passengers)
	MaxDuration  int               // max route duration (minutes)
	SpeedKmh     float64           // average travel speed
	SolveBudget  time.Duration     // per-route search budget
	MinHeadway   float64           // minutes
	MaxHeadway   float64           // minutes
	MaxFleetSize int
	FleetTimeout time.Duration
	FallbackCycleMin float64 // cycle time for routes that failed to solve
	Workers          int     // parallel route solves (0 = NumCPU)
}

// per-route solve outcome, collected over the results channel
type route_result struct {
	route    common.Route
	solution *vrp.Solution
	failure  *Failure
}

// Run optimizes every route, then schedules the fleet.
func (o *Orchestrator) Run() Run {
	run := Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Solutions: make(map[string]*vrp.Solution, len(o.Routes)),
	}

	profile := o.Demand
	if profile == nil {
		log.Printf("[network] no demand profile supplied, using synthetic estimator")
		profile = o.Estimator.Profile(o.Routes)
	}

	log.Printf(
		"[network] run %s: optimizing %d routes, capacity %d, budget %v",
		run.ID,
		len(o.Routes),
		o.Capacity,
		o.SolveBudget,
	)

	// stage 1: per-route solves, embarrassingly parallel.
	// every solve owns its own matrix and solver state; results fan in
	// over the channel. the fleet solve waits for all of them.
	results := o.solve_routes(profile)

	cycle_times := make(map[string]float64, len(o.Routes))
	fallback := o.FallbackCycleMin
	if fallback <= 0 {
		fallback = DEFAULT_FALLBACK_CYCLE_MIN
	}
	for _, r := range results {
		if r.failure != nil {
			run.Failures = append(run.Failures, *r.failure)
			cycle_times[r.route.ID] = fallback
			continue
		}
		run.Solutions[r.route.ID] = r.solution
		run.Metrics.OptimizedDistanceKm += r.solution.DistanceKm
		run.Metrics.OriginalDistanceKm += original_distance(r.route)
		ct := r.solution.TimeMin
		if ct <= 0 {
			// degenerate tours have no travel time; schedule on the fallback
			ct = fallback
		}
		cycle_times[r.route.ID] = ct
	}

	run.Metrics.DistanceSavedKm = run.Metrics.OriginalDistanceKm - run.Metrics.OptimizedDistanceKm
	if run.Metrics.OriginalDistanceKm > 0 {
		run.Metrics.EfficiencyPct = run.Metrics.DistanceSavedKm / run.Metrics.OriginalDistanceKm * 100
	}
	log.Printf(
		"[network] run %s: %d/%d routes solved, %0.2f km saved (%0.2f%%)",
		run.ID,
		len(run.Solutions),
		len(o.Routes),
		run.Metrics.DistanceSavedKm,
		run.Metrics.EfficiencyPct,
	)

	// stage 2: single global fleet solve
	scheduler := fleet.Scheduler{
		Routes:       o.Routes,
		CycleTimes:   cycle_times,
		Demand:       profile,
		Capacity:     o.Capacity,
		MinHeadway:   o.MinHeadway,
		MaxHeadway:   o.MaxHeadway,
		MaxFleetSize: o.MaxFleetSize,
		Timeout:      o.FleetTimeout,
	}
	schedule, err := scheduler.Solve()
	if err != nil {
		log.Warnf("[network] run %s: fleet solve failed: %v", run.ID, err)
	}
	run.Schedule = schedule
	if schedule.Status == fleet.Optimal {
		run.Metrics.TotalVehicles = schedule.TotalVehicles
		run.Metrics.UtilizationPct = schedule.UtilizationRate()
	}

	return run
}

// dispatch one solve per route over a bounded worker pool
func (o *Orchestrator) solve_routes(profile demand.Profile) []route_result {
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan common.Route, len(o.Routes))
	out := make(chan route_result, len(o.Routes))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for route := range jobs {
				out <- o.solve_one(route, profile)
			}
		}()
	}
	for _, r := range o.Routes {
		jobs <- r
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]route_result, 0, len(o.Routes))
	for r := range out {
		results = append(results, r)
	}
	return results
}

// solve a single route, isolating panics so one route cannot
// take down the run
func (o *Orchestrator) solve_one(route common.Route, profile demand.Profile) (res route_result) {
	res.route = route
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("[network] route %s: solver panic: %v", route.ID, r)
			res.solution = nil
			res.failure = &Failure{
				RouteID: route.ID,
				Reason:  FailSolver,
				Detail:  fmt.Sprintf("%v", r),
			}
		}
	}()

	solver := vrp.Solver{
		Capacity:    o.Capacity,
		MaxDuration: o.MaxDuration,
		SpeedKmh:    o.SpeedKmh,
		TimeBudget:  o.SolveBudget,
	}
	sol, err := solver.Solve(route, o.route_demand(route, profile))
	switch {
	case errors.Is(err, vrp.ErrBadInput):
		res.failure = &Failure{RouteID: route.ID, Reason: FailInvalid, Detail: err.Error()}
	case err != nil:
		res.failure = &Failure{RouteID: route.ID, Reason: FailSolver, Detail: err.Error()}
	case sol == nil:
		log.Warnf("[network] route %s: no feasible tour", route.ID)
		res.failure = &Failure{RouteID: route.ID, Reason: FailInfeasible}
	default:
		res.solution = sol
	}
	return res
}

// per-stop demand driving the tour's capacity dimension: the worst
// (peak) period load at each stop, so a tour feasible here is feasible
// in every period
func (o *Orchestrator) route_demand(route common.Route, profile demand.Profile) []int {
	n := len(route.Stops)
	demands := make([]int, n)
	var found bool
	for _, period := range common.Periods() {
		sd := profile.StopDemand(route.ID, period)
		if len(sd) != n {
			continue
		}
		found = true
		for i, d := range sd {
			if d > demands[i] {
				demands[i] = d
			}
		}
	}
	if !found {
		return o.Estimator.RouteDemand(route)
	}
	return demands
}

// closed-tour distance of the route in its given stop order,
// the baseline for the savings metrics
func original_distance(route common.Route) float64 {
	locs := route.Locations()
	var total float64
	for i := range locs {
		total += geo.Distance(locs[i], locs[(i+1)%len(locs)])
	}
	return total
}
