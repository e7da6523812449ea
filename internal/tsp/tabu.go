package tsp

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

const (
	NeighborhoodSwap   = "swap"
	NeighborhoodInsert = "insert"
	NeighborhoodTwoOpt = "two_opt"
)

type TabuConfig struct {
	Neighborhood string
	MaxIters     int
	// MaxNoImprove stops the search after that many consecutive non-improving
	// moves; zero disables the limit.
	MaxNoImprove int
	Tenure       int
	// MaxCandidates samples that many distinct moves per iteration instead of
	// scanning the full neighbourhood; zero scans everything.
	MaxCandidates int
	StartTour     []int
}

func DefaultTabuConfig() TabuConfig {
	return TabuConfig{
		Neighborhood: NeighborhoodTwoOpt,
		MaxIters:     2000,
		MaxNoImprove: 400,
		Tenure:       20,
	}
}

func (c TabuConfig) Validate() error {
	switch {
	case c.MaxIters <= 0:
		return errors.New("tabu max iterations must be > 0")
	case c.Tenure <= 0:
		return errors.New("tabu tenure must be > 0")
	case c.MaxNoImprove < 0:
		return errors.New("tabu max non-improving iterations must be > 0 when set")
	case c.MaxCandidates < 0:
		return errors.New("tabu max candidates must not be negative")
	}
	if _, err := moveFunc(c.Neighborhood); err != nil {
		return err
	}
	return nil
}

type move struct{ i, j int }

// TabuSearch walks to the best admissible neighbour each iteration. A move
// stays tabu for Tenure iterations unless applying it beats the best tour found
// so far. It returns the best tour, its length and the iterations performed.
func TabuSearch(m Matrix, cfg TabuConfig, rng *rand.Rand) ([]int, float64, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, 0, err
	}
	apply, _ := moveFunc(cfg.Neighborhood)
	n := m.Size()
	current := append([]int(nil), cfg.StartTour...)
	if len(current) == 0 {
		current = RandomTour(n, rng)
	}
	if len(current) != n {
		return nil, 0, 0, errors.New("tabu start tour does not cover the matrix")
	}
	best := append([]int(nil), current...)
	bestLen := TourLength(current, m)
	if n < 2 {
		return best, bestLen, 0, nil
	}

	tabu := make(map[move]int)
	noImprove := 0
	iterations := 0
	for iter := 0; iter < cfg.MaxIters; iter++ {
		iterations = iter + 1
		for mv, expires := range tabu {
			if expires <= iter {
				delete(tabu, mv)
			}
		}

		var (
			next    []int
			nextLen = math.Inf(1)
			nextMv  move
		)
		for _, mv := range candidateMoves(n, cfg.Neighborhood, cfg.MaxCandidates, rng) {
			neighbor := apply(current, mv.i, mv.j)
			length := TourLength(neighbor, m)
			if expires, ok := tabu[mv]; ok && expires > iter && length >= bestLen {
				continue
			}
			if length < nextLen {
				next, nextLen, nextMv = neighbor, length, mv
			}
		}
		if next == nil {
			break
		}

		current = next
		tabu[nextMv] = iter + cfg.Tenure
		if nextLen < bestLen {
			best = append(best[:0], current...)
			bestLen = nextLen
			noImprove = 0
			continue
		}
		noImprove++
		if cfg.MaxNoImprove > 0 && noImprove >= cfg.MaxNoImprove {
			break
		}
	}
	return best, bestLen, iterations, nil
}

func moveFunc(neighborhood string) (func([]int, int, int) []int, error) {
	switch neighborhood {
	case NeighborhoodSwap:
		return swapped, nil
	case NeighborhoodInsert:
		return inserted, nil
	case NeighborhoodTwoOpt:
		return reversed, nil
	default:
		return nil, fmt.Errorf("unsupported tabu neighborhood: %q", neighborhood)
	}
}

// candidateMoves lists (i, j) pairs: i < j for swap and two_opt, any i != j
// for insert. With limit > 0 it samples up to limit distinct pairs.
func candidateMoves(n int, neighborhood string, limit int, rng *rand.Rand) []move {
	ordered := neighborhood != NeighborhoodInsert
	total := n * (n - 1)
	if ordered {
		total /= 2
	}

	if limit <= 0 {
		moves := make([]move, 0, total)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j || (ordered && j < i) {
					continue
				}
				moves = append(moves, move{i, j})
			}
		}
		return moves
	}

	target := min(limit, total)
	seen := make(map[move]struct{}, target)
	moves := make([]move, 0, target)
	for attempts := 0; len(moves) < target && attempts < target*50+100; attempts++ {
		var mv move
		if ordered {
			mv.i = rng.Intn(n - 1)
			mv.j = mv.i + 1 + rng.Intn(n-mv.i-1)
		} else {
			mv.i, mv.j = rng.Intn(n), rng.Intn(n)
			if mv.i == mv.j {
				continue
			}
		}
		if _, dup := seen[mv]; dup {
			continue
		}
		seen[mv] = struct{}{}
		moves = append(moves, mv)
	}
	return moves
}

// inserted moves the city at position i so that it ends up at position j.
func inserted(tour []int, i, j int) []int {
	neighbor := append([]int(nil), tour...)
	if i == j {
		return neighbor
	}
	city := neighbor[i]
	if i < j {
		copy(neighbor[i:j], neighbor[i+1:j+1])
	} else {
		copy(neighbor[j+1:i+1], neighbor[j:i])
	}
	neighbor[j] = city
	return neighbor
}

// reversed reverses the segment [i, j].
func reversed(tour []int, i, j int) []int {
	neighbor := append([]int(nil), tour...)
	for ; i < j; i, j = i+1, j-1 {
		neighbor[i], neighbor[j] = neighbor[j], neighbor[i]
	}
	return neighbor
}
