package vrp

// cost of the closed tour (returns to the depot)
func tour_cost(cost [][]int, tour []int) int {
	var total int
	for i := 0; i < len(tour); i++ {
		total += cost[tour[i]][tour[(i+1)%len(tour)]]
	}
	return total
}

// cheapest-arc-insertion construction heuristic.
// grow the tour from the depot, always inserting the (stop, position)
// pair with the smallest detour. ties break on the lower stop index,
// so construction is deterministic.
func cheapest_insertion(cost [][]int) []int {
	n := len(cost)
	tour := []int{0}
	inserted := make([]bool, n)
	inserted[0] = true

	for len(tour) < n {
		best_stop := -1
		best_pos := -1
		best_delta := 0
		for v := 1; v < n; v++ {
			if inserted[v] {
				continue
			}
			for i := 0; i < len(tour); i++ {
				a := tour[i]
				b := tour[(i+1)%len(tour)]
				delta := cost[a][v] + cost[v][b] - cost[a][b]
				if best_stop == -1 || delta < best_delta {
					best_stop = v
					best_pos = i + 1
					best_delta = delta
				}
			}
		}

		// insert at position
		tour = append(tour, 0)
		copy(tour[best_pos+1:], tour[best_pos:])
		tour[best_pos] = best_stop
		inserted[best_stop] = true
	}
	return tour
}
