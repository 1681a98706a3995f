package rank

import "fmt"

// MixOptions configures the Markov mixing solver.
type MixOptions struct {
	// Start is the node holding all probability mass initially.
	Start int
}

// DefaultMixOptions returns the standard configuration: all initial mass
// on node 0.
func DefaultMixOptions() MixOptions {
	return MixOptions{Start: 0}
}

// Mix computes node ranks by power iteration: the probability distribution
// starts with all mass on opts.Start and is left-multiplied by t once per
// step. With steps = 0 the initial distribution is returned unchanged. As
// steps grows the result converges to the unique stationary distribution
// of t.
//
// Mix is deterministic: the same matrix and step count always produce the
// same output. The inner sum runs over source nodes in ascending order, so
// floating-point summation order is fixed.
func Mix(t *Matrix, steps int, opts MixOptions) ([]float64, error) {
	if steps < 0 {
		return nil, fmt.Errorf("%w: %d (need at least 0)", ErrInvalidSteps, steps)
	}
	n := t.NumNodes()
	if opts.Start < 0 || opts.Start >= n {
		return nil, fmt.Errorf("%w: %d (n=%d)", ErrInvalidStart, opts.Start, n)
	}

	dist := make([]float64, n)
	dist[opts.Start] = 1.0

	for s := 0; s < steps; s++ {
		next := make([]float64, n)
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				sum += dist[j] * t.At(j, i)
			}
			next[i] = sum
		}
		dist = next
	}

	return dist, nil
}
