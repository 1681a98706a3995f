package rank

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrInvalidSteps is returned when a step count is out of range for the
// requested algorithm.
var ErrInvalidSteps = errors.New("invalid step count")

// ErrInvalidStart is returned when the starting node is outside [0, n).
var ErrInvalidStart = errors.New("start node out of range")

// SurfOptions configures the random-surfer simulation.
type SurfOptions struct {
	// Start is the node the surfer begins on.
	Start int

	// Rand is the random source for next-node draws. Injecting a seeded
	// source makes runs reproducible; nil uses a time-seeded source.
	Rand *rand.Rand
}

// DefaultSurfOptions returns the standard configuration: start at node 0
// with a time-seeded random source.
func DefaultSurfOptions() SurfOptions {
	return SurfOptions{Start: 0}
}

// Surf simulates a single random surfer walking t for steps moves and
// returns the empirical visit frequency of each node, an estimate of the
// stationary distribution. steps must be at least 1.
//
// Each move draws r uniform in [0, 1) and scans the current row's
// cumulative probabilities left to right until the sum reaches r; the
// first qualifying column wins. If floating-point truncation exhausts the
// row before the sum reaches r, the last column is selected.
func Surf(t *Matrix, steps int, opts SurfOptions) ([]float64, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: %d (need at least 1)", ErrInvalidSteps, steps)
	}
	n := t.NumNodes()
	if opts.Start < 0 || opts.Start >= n {
		return nil, fmt.Errorf("%w: %d (n=%d)", ErrInvalidStart, opts.Start, n)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	visits := make([]int, n)
	node := opts.Start
	for s := 0; s < steps; s++ {
		node = nextNode(t.Row(node), rng.Float64())
		visits[node]++
	}

	ranks := make([]float64, n)
	for i, v := range visits {
		ranks[i] = float64(v) / float64(steps)
	}
	return ranks, nil
}

// nextNode selects a column from the probability row by inverse-CDF
// linear scan against the draw r. Falls back to the last column if the
// cumulative sum never reaches r.
func nextNode(row []float64, r float64) int {
	sum := 0.0
	for j, p := range row {
		sum += p
		if sum >= r {
			return j
		}
	}
	return len(row) - 1
}
