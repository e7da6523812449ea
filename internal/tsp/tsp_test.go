package tsp

import (
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Four cities on a unit square: the optimal cycle is the perimeter, length 4.
var square = Matrix{
	{0, 1, 1.4142, 1},
	{1, 0, 1, 1.4142},
	{1.4142, 1, 0, 1},
	{1, 1.4142, 1, 0},
}

func TestReadMatrixAcceptsDecimalCommas(t *testing.T) {
	m, err := ReadMatrix(strings.NewReader("0;12,5;3\n12,5;0;4.25\n3;4.25;0\n"))
	require.NoError(t, err)
	require.Equal(t, 3, m.Size())
	assert.Equal(t, 12.5, m[0][1])
	assert.Equal(t, 4.25, m[1][2])
}

func TestReadMatrixRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"ragged":     "0;1\n1;0;2\n",
		"not square": "0;1;2\n1;0;2\n",
		"non number": "0;x\n1;0\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMatrix(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestLoadMatrixFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TSP_3.csv")
	require.NoError(t, os.WriteFile(path, []byte("0;1;2\n1;0;3\n2;3;0\n"), 0o644))

	m, err := LoadMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Size())

	_, err = LoadMatrix(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTourLengthClosesCycle(t *testing.T) {
	assert.InDelta(t, 4.0, TourLength([]int{0, 1, 2, 3}, square), 1e-9)
	assert.InDelta(t, 2+2*1.4142, TourLength([]int{0, 2, 1, 3}, square), 1e-9)
}

func TestNearestNeighborVisitsEveryCity(t *testing.T) {
	tour, err := NearestNeighbor(square, 0)
	require.NoError(t, err)
	assertPermutation(t, tour, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, tour)

	empty, err := NearestNeighbor(Matrix{}, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestNearestNeighborRejectsStartOutsideMatrix(t *testing.T) {
	for _, start := range []int{-1, 4, 100} {
		_, err := NearestNeighbor(square, start)
		assert.Error(t, err, "start %d", start)
	}
}

func TestHillClimbReachesOptimumOnSquare(t *testing.T) {
	tour, length := HillClimb([]int{0, 2, 1, 3}, square)
	assertPermutation(t, tour, 4)
	assert.InDelta(t, 4.0, length, 1e-9)
}

func TestIterativeHillClimbKeepsBest(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tour, length := IterativeHillClimb(square, 5, rng)
	assertPermutation(t, tour, 4)
	assert.InDelta(t, 4.0, length, 1e-9)
	assert.InDelta(t, TourLength(tour, square), length, 1e-9)
}

func TestSimulatedAnnealingFindsPerimeter(t *testing.T) {
	cfg := DefaultAnnealConfig()
	cfg.StartTemp = 10
	cfg.ItersPerT = 10
	cfg.Alpha = 0.9
	rng := rand.New(rand.NewSource(1))

	tour, length, err := SimulatedAnnealing(square, cfg, rng)
	require.NoError(t, err)
	assertPermutation(t, tour, 4)
	assert.InDelta(t, 4.0, length, 1e-9)
}

func TestSimulatedAnnealingValidatesConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bad := DefaultAnnealConfig()
	bad.Alpha = 1
	_, _, err := SimulatedAnnealing(square, bad, rng)
	assert.Error(t, err)

	short := DefaultAnnealConfig()
	short.StartTour = []int{0, 1}
	_, _, err = SimulatedAnnealing(square, short, rng)
	assert.Error(t, err)
}

func TestAnnealIterationsEstimate(t *testing.T) {
	// ceil(ln(1e-6)/ln(0.995)) = 2757 temperature steps.
	assert.Equal(t, 275700, DefaultAnnealConfig().Iterations())
}

func TestTabuSearchNeighborhoodsReachPerimeter(t *testing.T) {
	for _, neighborhood := range []string{NeighborhoodSwap, NeighborhoodInsert, NeighborhoodTwoOpt} {
		t.Run(neighborhood, func(t *testing.T) {
			cfg := DefaultTabuConfig()
			cfg.Neighborhood = neighborhood
			cfg.MaxNoImprove = 3
			cfg.StartTour = []int{0, 2, 1, 3}

			tour, length, iterations, err := TabuSearch(square, cfg, rand.New(rand.NewSource(3)))
			require.NoError(t, err)
			assertPermutation(t, tour, 4)
			assert.InDelta(t, 4.0, length, 1e-9)
			assert.InDelta(t, TourLength(tour, square), length, 1e-9)
			// One improving move, then three non-improving ones.
			assert.Equal(t, 4, iterations)
		})
	}
}

func TestTabuSearchStopsAtMaxIters(t *testing.T) {
	cfg := DefaultTabuConfig()
	cfg.Neighborhood = NeighborhoodSwap
	cfg.MaxIters = 7
	cfg.MaxNoImprove = 0
	cfg.Tenure = 2

	tour, length, iterations, err := TabuSearch(square, cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assertPermutation(t, tour, 4)
	assert.InDelta(t, 4.0, length, 1e-9)
	assert.Equal(t, 7, iterations)
}

func TestTabuSearchSamplesCandidates(t *testing.T) {
	cfg := DefaultTabuConfig()
	cfg.MaxCandidates = 2
	cfg.MaxIters = 50

	tour, length, iterations, err := TabuSearch(square, cfg, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	assertPermutation(t, tour, 4)
	assert.InDelta(t, TourLength(tour, square), length, 1e-9)
	assert.Positive(t, iterations)
	assert.LessOrEqual(t, iterations, 50)

	moves := candidateMoves(4, NeighborhoodInsert, 100, rand.New(rand.NewSource(1)))
	assert.Len(t, moves, 12)
	for _, mv := range moves {
		assert.NotEqual(t, mv.i, mv.j)
	}
}

func TestTabuSearchValidatesConfig(t *testing.T) {
	mutate := map[string]func(*TabuConfig){
		"max iters":      func(c *TabuConfig) { c.MaxIters = 0 },
		"tenure":         func(c *TabuConfig) { c.Tenure = 0 },
		"max no improve": func(c *TabuConfig) { c.MaxNoImprove = -1 },
		"neighborhood":   func(c *TabuConfig) { c.Neighborhood = "three_opt" },
		"start tour":     func(c *TabuConfig) { c.StartTour = []int{0, 1} },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultTabuConfig()
			fn(&cfg)
			_, _, _, err := TabuSearch(square, cfg, rand.New(rand.NewSource(1)))
			assert.Error(t, err)
		})
	}
}

func TestNeighborhoodMoves(t *testing.T) {
	tour := []int{0, 1, 2, 3, 4}
	assert.Equal(t, []int{0, 2, 3, 1, 4}, inserted(tour, 1, 3))
	assert.Equal(t, []int{0, 3, 1, 2, 4}, inserted(tour, 3, 1))
	assert.Equal(t, []int{0, 3, 2, 1, 4}, reversed(tour, 1, 3))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, tour)
}

func TestMeasureReturnsResult(t *testing.T) {
	value, elapsed := Measure(func() int {
		time.Sleep(2 * time.Millisecond)
		return 42
	})
	assert.Equal(t, 42, value)
	assert.GreaterOrEqual(t, elapsed, 2*time.Millisecond)
}

func assertPermutation(t *testing.T, tour []int, n int) {
	t.Helper()
	sorted := append([]int(nil), tour...)
	sort.Ints(sorted)
	require.Len(t, sorted, n)
	for i := range sorted {
		require.Equal(t, i, sorted[i])
	}
}
