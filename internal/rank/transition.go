// Package rank computes the relative importance of nodes in a directed
// link graph. It builds a row-stochastic transition matrix from raw edge
// counts and estimates the stationary distribution two ways: a stochastic
// random-surfer walk (Surf) and deterministic power iteration (Mix).
package rank

import (
	"errors"
	"fmt"

	"github.com/papapumpkin/pulsar/internal/graph"
)

// ErrInvalidDamping is returned when the damping factor is outside [0, 1].
var ErrInvalidDamping = errors.New("damping factor out of range")

// ErrDanglingNode is returned by Transition under DanglingReject when a
// node has out-degree zero and therefore no link-following distribution.
var ErrDanglingNode = errors.New("dangling node")

// DanglingPolicy selects how Transition handles nodes with out-degree
// zero, whose link-following probabilities would otherwise divide by zero.
type DanglingPolicy int

const (
	// DanglingReject fails fast with ErrDanglingNode naming the first
	// offending node. This is the default: a dangling node usually means
	// the input graph is not what the caller intended.
	DanglingReject DanglingPolicy = iota

	// DanglingUniform gives dangling nodes a uniform row: the surfer
	// teleports anywhere with equal probability. This is the standard
	// PageRank treatment of dangling mass.
	DanglingUniform

	// DanglingSelfLoop treats a dangling node as having a single link to
	// itself.
	DanglingSelfLoop
)

// TransitionOptions configures transition-matrix construction.
type TransitionOptions struct {
	// Damping is the probability of following an outbound link; the
	// remaining 1-Damping mass teleports uniformly. Must be in [0, 1].
	Damping float64

	// Dangling selects the out-degree-zero policy.
	Dangling DanglingPolicy
}

// DefaultTransitionOptions returns the standard configuration: damping 0.9
// with dangling nodes rejected.
func DefaultTransitionOptions() TransitionOptions {
	return TransitionOptions{
		Damping:  0.9,
		Dangling: DanglingReject,
	}
}

// Matrix is a dense row-stochastic transition matrix: entry (i, j) is the
// probability that a surfer on node i visits node j next. Every entry is
// strictly positive whenever damping < 1, which makes the chain
// irreducible and aperiodic, so a unique stationary distribution exists.
// A Matrix is immutable after construction.
type Matrix struct {
	n    int
	rows [][]float64
}

// NumNodes returns the matrix dimension n.
func (m *Matrix) NumNodes() int {
	return m.n
}

// At returns entry (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.rows[i][j]
}

// Row returns row i. The returned slice shares the matrix backing array
// and must not be modified.
func (m *Matrix) Row(i int) []float64 {
	return m.rows[i]
}

// Transition builds the transition matrix for g:
//
//	T[i][j] = Damping * counts[i][j]/outDegree[i] + (1-Damping)/n
//
// Dangling nodes are handled per opts.Dangling before any division
// occurs, so the result never contains NaN or Inf.
func Transition(g *graph.Graph, opts TransitionOptions) (*Matrix, error) {
	if opts.Damping < 0 || opts.Damping > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDamping, opts.Damping)
	}

	n := g.NumNodes()
	teleport := (1 - opts.Damping) / float64(n)
	uniform := 1 / float64(n)

	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		out := g.OutDegree(i)

		if out == 0 {
			switch opts.Dangling {
			case DanglingUniform:
				for j := range row {
					row[j] = uniform
				}
			case DanglingSelfLoop:
				for j := range row {
					row[j] = teleport
				}
				row[i] += opts.Damping
			default:
				return nil, fmt.Errorf("%w: node %d has out-degree 0", ErrDanglingNode, i)
			}
			rows[i] = row
			continue
		}

		for j := 0; j < n; j++ {
			row[j] = opts.Damping*float64(g.Count(i, j))/float64(out) + teleport
		}
		rows[i] = row
	}

	return &Matrix{n: n, rows: rows}, nil
}
