// Package demand holds passenger demand profiles consumed by the
// route and fleet solvers. Profiles are supplied externally (by a
// forecasting collaborator) or generated by the synthetic estimator;
// either way they are immutable input to a single optimization run.
package demand

import (
	"fmt"

	"github.com/accra-mobility/transitopt/common"
)

// schema for demand profile:
// route id --> time period --> per-stop-position demand
type Profile map[string]map[common.TimePeriod][]int

// StopDemand returns the per-stop demand for a (route, period),
// or nil if the profile has no entry
func (p Profile) StopDemand(route string, period common.TimePeriod) []int {
	periods, ok := p[route]
	if !ok {
		return nil
	}
	return periods[period]
}

// Peak returns the max per-stop demand for a (route, period),
// used to size capacity
func (p Profile) Peak(route string, period common.TimePeriod) int {
	var peak int
	for _, d := range p.StopDemand(route, period) {
		if d > peak {
			peak = d
		}
	}
	return peak
}

// Validate checks demand invariants: known periods, non-negative values
func (p Profile) Validate() error {
	for route, periods := range p {
		for period, demands := range periods {
			if !period.Valid() {
				return fmt.Errorf("demand: route %s: unknown period %q", route, period)
			}
			for i, d := range demands {
				if d < 0 {
					return fmt.Errorf(
						"demand: route %s, period %s, stop %d: negative demand %d",
						route, period, i, d,
					)
				}
			}
		}
	}
	return nil
}
