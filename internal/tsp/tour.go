package tsp

import (
	"fmt"
	"math/rand"
)

// TourLength is the length of the closed cycle visiting tour in order.
func TourLength(tour []int, m Matrix) float64 {
	n := len(tour)
	total := 0.0
	for i := 0; i < n; i++ {
		total += m[tour[i]][tour[(i+1)%n]]
	}
	return total
}

func RandomTour(n int, rng *rand.Rand) []int {
	return rng.Perm(n)
}

// NearestNeighbor builds a tour greedily from start, always moving to the
// closest unvisited city. Ties go to the lowest index.
func NearestNeighbor(m Matrix, start int) ([]int, error) {
	n := m.Size()
	if n == 0 {
		return []int{}, nil
	}
	if start < 0 || start >= n {
		return nil, fmt.Errorf("start city %d outside [0, %d)", start, n)
	}
	visited := make([]bool, n)
	tour := make([]int, 0, n)
	current := start
	visited[current] = true
	tour = append(tour, current)

	for len(tour) < n {
		next := -1
		for candidate := 0; candidate < n; candidate++ {
			if visited[candidate] {
				continue
			}
			if next < 0 || m[current][candidate] < m[current][next] {
				next = candidate
			}
		}
		visited[next] = true
		tour = append(tour, next)
		current = next
	}
	return tour, nil
}

func swapped(tour []int, i, j int) []int {
	neighbor := append([]int(nil), tour...)
	neighbor[i], neighbor[j] = neighbor[j], neighbor[i]
	return neighbor
}
