package fleet

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// internal decision cell: one integer variable with box bounds
type cell struct {
	key  Key
	peak int
	lb   int
	ub   int
}

// branch-and-bound node: per-cell bound overrides
type node struct {
	lb []int
	ub []int
}

const INT_TOL = 1e-6

// branch and bound over the LP relaxation.
// minimizes the total vehicle count subject to per-cell bounds and the
// fleet cap. depth-first, branching on the first fractional variable,
// so the search order (and the returned assignment) is deterministic.
// on deadline: the incumbent if one exists, NotSolved otherwise.
func branch_and_bound(cells []cell, fleet_cap int, deadline time.Time) ([]int, Status, error) {
	n := len(cells)
	root := node{lb: make([]int, n), ub: make([]int, n)}
	for i, c := range cells {
		root.lb[i] = c.lb
		root.ub[i] = c.ub
	}

	var best []int
	best_obj := math.Inf(1)
	stack := []node{root}

	for len(stack) > 0 {
		if time.Now().After(deadline) {
			if best != nil {
				return best, Optimal, nil
			}
			return nil, NotSolved, nil
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// empty box: the min-headway ceiling undercuts the demand or
		// max-headway floor for some cell
		feasible := true
		base := 0
		for i := 0; i < n; i++ {
			if nd.ub[i] < nd.lb[i] {
				feasible = false
				break
			}
			base += nd.lb[i]
		}
		if !feasible || base > fleet_cap {
			continue
		}

		y, relax_obj, err := solve_lp(nd, fleet_cap)
		if err != nil {
			if errors.Is(err, lp.ErrInfeasible) {
				continue
			}
			return nil, NotSolved, err
		}
		if float64(base)+relax_obj >= best_obj-1e-9 {
			continue
		}

		// fractional variable to branch on
		branch := -1
		for i := 0; i < n; i++ {
			if math.Abs(y[i]-math.Round(y[i])) > INT_TOL {
				branch = i
				break
			}
		}

		if branch == -1 {
			counts := make([]int, n)
			obj := 0
			for i := 0; i < n; i++ {
				counts[i] = nd.lb[i] + int(math.Round(y[i]))
				obj += counts[i]
			}
			if float64(obj) < best_obj {
				best = counts
				best_obj = float64(obj)
			}
			continue
		}

		x := float64(nd.lb[branch]) + y[branch]
		down := node{lb: append([]int(nil), nd.lb...), ub: append([]int(nil), nd.ub...)}
		down.ub[branch] = int(math.Floor(x))
		up := node{lb: append([]int(nil), nd.lb...), ub: append([]int(nil), nd.ub...)}
		up.lb[branch] = int(math.Ceil(x))
		stack = append(stack, up, down)
	}

	if best == nil {
		return nil, Infeasible, nil
	}
	return best, Optimal, nil
}

// LP relaxation of one node, in standard form for the simplex solver.
// variables: y_i = x_i - lb_i, a slack per box, and one slack for the
// fleet cap. minimize sum(y) s.t. y_i + s_i = ub_i - lb_i and
// sum(y) + S = cap - sum(lb).
func solve_lp(nd node, fleet_cap int) ([]float64, float64, error) {
	n := len(nd.lb)
	nvar := 2*n + 1

	c := make([]float64, nvar)
	b := make([]float64, n+1)
	A := mat.NewDense(n+1, nvar, nil)
	base := 0
	for i := 0; i < n; i++ {
		c[i] = 1
		A.Set(i, i, 1)
		A.Set(i, n+i, 1)
		b[i] = float64(nd.ub[i] - nd.lb[i])
		A.Set(n, i, 1)
		base += nd.lb[i]
	}
	A.Set(n, 2*n, 1)
	b[n] = float64(fleet_cap - base)

	obj, x, err := lp.Simplex(c, A, b, 1e-10, nil)
	if err != nil {
		return nil, 0, err
	}
	return x[:n], obj, nil
}
