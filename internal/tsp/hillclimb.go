package tsp

import (
	"math"
	"math/rand"
)

// BestSwapNeighbor scans every pairwise swap and returns the best strictly
// improving neighbour, or tour itself when none improves.
func BestSwapNeighbor(tour []int, m Matrix) ([]int, float64) {
	best := tour
	bestLen := TourLength(tour, m)
	for i := 0; i < len(tour)-1; i++ {
		for j := i + 1; j < len(tour); j++ {
			neighbor := swapped(tour, i, j)
			if length := TourLength(neighbor, m); length < bestLen {
				best, bestLen = neighbor, length
			}
		}
	}
	return best, bestLen
}

// HillClimb applies best-improving swaps until a local optimum is reached.
func HillClimb(start []int, m Matrix) ([]int, float64) {
	current := start
	currentLen := TourLength(current, m)
	for {
		neighbor, neighborLen := BestSwapNeighbor(current, m)
		if neighborLen >= currentLen {
			return current, currentLen
		}
		current, currentLen = neighbor, neighborLen
	}
}

// IterativeHillClimb restarts HillClimb from starts random tours and keeps the best.
func IterativeHillClimb(m Matrix, starts int, rng *rand.Rand) ([]int, float64) {
	var best []int
	bestLen := math.Inf(1)
	for i := 0; i < starts; i++ {
		tour, length := HillClimb(RandomTour(m.Size(), rng), m)
		if length < bestLen {
			best, bestLen = tour, length
		}
	}
	return best, bestLen
}
