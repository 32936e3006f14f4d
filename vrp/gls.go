package vrp

import "time"

// guided local search over 2-opt moves.
// the augmented objective adds lambda * penalty on every used arc;
// after each local optimum, the arcs with the highest cost/(1+penalty)
// utility are penalized, steering the search away from them.
// fully deterministic: no randomness, first-improvement move order.

const (
	GLS_ALPHA     = 0.2 // lambda = alpha * local optimum cost / n
	MAX_ROUNDS    = 500
	MAX_NO_IMPROV = 40
)

type gls struct {
	cost   [][]int
	pen    [][]int
	lambda float64
}

func (g *gls) aug(i, j int) float64 {
	return float64(g.cost[i][j]) + g.lambda*float64(g.pen[i][j])
}

// 2-opt descent on the augmented objective.
// reverses tour[i..k], keeping the depot fixed at position 0.
func (g *gls) two_opt(tour []int, abort func() bool) {
	n := len(tour)
	improved := true
	for improved {
		improved = false
		if abort() {
			return
		}
		for i := 1; i < n-1; i++ {
			for k := i + 1; k < n; k++ {
				a, b := tour[i-1], tour[i]
				c, d := tour[k], tour[(k+1)%n]
				delta := g.aug(a, c) + g.aug(b, d) - g.aug(a, b) - g.aug(c, d)
				if delta < -1e-9 {
					reverse(tour, i, k)
					improved = true
				}
			}
		}
	}
}

func reverse(tour []int, i, k int) {
	for i < k {
		tour[i], tour[k] = tour[k], tour[i]
		i, k = i+1, k-1
	}
}

// penalize the max-utility arcs of the current tour
func (g *gls) penalize(tour []int) {
	n := len(tour)
	max_util := -1.0
	for i := 0; i < n; i++ {
		a, b := tour[i], tour[(i+1)%n]
		util := float64(g.cost[a][b]) / float64(1+g.pen[a][b])
		if util > max_util {
			max_util = util
		}
	}
	for i := 0; i < n; i++ {
		a, b := tour[i], tour[(i+1)%n]
		util := float64(g.cost[a][b]) / float64(1+g.pen[a][b])
		if util >= max_util-1e-9 {
			g.pen[a][b]++
			g.pen[b][a]++
		}
	}
}

// improve the tour until the deadline, round cap, or stagnation.
// returns the best tour found by true (unpenalized) cost.
func guided_local_search(cost [][]int, tour []int, deadline time.Time) []int {
	n := len(cost)
	if n < 4 {
		// with the depot fixed, fewer than 4 stops admit a single tour
		return tour
	}

	g := &gls{cost: cost}
	g.pen = make([][]int, n)
	for i := range g.pen {
		g.pen[i] = make([]int, n)
	}

	abort := func() bool { return time.Now().After(deadline) }

	// descend on the true objective first
	g.two_opt(tour, abort)
	best := append([]int(nil), tour...)
	best_cost := tour_cost(cost, best)

	g.lambda = GLS_ALPHA * float64(best_cost) / float64(n)
	no_improv := 0
	for round := 0; round < MAX_ROUNDS && !abort() && no_improv < MAX_NO_IMPROV; round++ {
		g.penalize(tour)
		g.two_opt(tour, abort)
		if c := tour_cost(cost, tour); c < best_cost {
			best = append(best[:0], tour...)
			best_cost = c
			no_improv = 0
		} else {
			no_improv++
		}
	}
	return best
}
