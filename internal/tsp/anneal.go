package tsp

import (
	"errors"
	"math"
	"math/rand"
)

type AnnealConfig struct {
	StartTemp float64
	EndTemp   float64
	Alpha     float64
	ItersPerT int
	// StartTour seeds the search; a random tour is used when empty.
	StartTour []int
}

func DefaultAnnealConfig() AnnealConfig {
	return AnnealConfig{
		StartTemp: 1000,
		EndTemp:   1e-3,
		Alpha:     0.995,
		ItersPerT: 100,
	}
}

func (c AnnealConfig) Validate() error {
	switch {
	case c.StartTemp <= 0 || c.EndTemp <= 0:
		return errors.New("anneal temperatures must be > 0")
	case c.EndTemp >= c.StartTemp:
		return errors.New("anneal end temperature must be below start temperature")
	case c.Alpha <= 0 || c.Alpha >= 1:
		return errors.New("anneal alpha must be in (0, 1)")
	case c.ItersPerT <= 0:
		return errors.New("anneal iterations per temperature must be > 0")
	}
	return nil
}

// Iterations estimates the number of candidate evaluations the schedule performs.
func (c AnnealConfig) Iterations() int {
	steps := math.Ceil(math.Log(c.EndTemp/c.StartTemp) / math.Log(c.Alpha))
	return int(steps) * c.ItersPerT
}

// SimulatedAnnealing runs a geometric cooling schedule over random swap moves.
func SimulatedAnnealing(m Matrix, cfg AnnealConfig, rng *rand.Rand) ([]int, float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	n := m.Size()
	current := append([]int(nil), cfg.StartTour...)
	if len(current) == 0 {
		current = RandomTour(n, rng)
	}
	if len(current) != n {
		return nil, 0, errors.New("anneal start tour does not cover the matrix")
	}
	currentLen := TourLength(current, m)
	best := append([]int(nil), current...)
	bestLen := currentLen
	if n < 2 {
		return best, bestLen, nil
	}

	for temp := cfg.StartTemp; temp > cfg.EndTemp; temp *= cfg.Alpha {
		for k := 0; k < cfg.ItersPerT; k++ {
			i := rng.Intn(n)
			j := rng.Intn(n - 1)
			if j >= i {
				j++
			}
			candidate := swapped(current, i, j)
			candidateLen := TourLength(candidate, m)
			delta := candidateLen - currentLen
			if delta < 0 || rng.Float64() < math.Exp(-delta/temp) {
				current, currentLen = candidate, candidateLen
			}
			if currentLen < bestLen {
				best = append(best[:0], current...)
				bestLen = currentLen
			}
		}
	}
	return best, bestLen, nil
}
