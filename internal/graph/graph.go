// Package graph provides the directed link-graph model consumed by the
// ranking algorithms: a dense edge-count matrix plus per-node out-degrees,
// and a loader for the whitespace-separated edge-pair file format.
package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrBadNodeCount is returned when the first token of a graph description
// is not a positive integer node count.
var ErrBadNodeCount = errors.New("bad node count")

// ErrOddTokens is returned when the edge list contains an odd number of
// tokens, meaning the final pair is incomplete.
var ErrOddTokens = errors.New("odd number of edge tokens")

// ErrNodeOutOfRange is returned when an edge references a node outside
// [0, n).
var ErrNodeOutOfRange = errors.New("node out of range")

// Graph is a directed multigraph over n nodes identified by zero-based
// integer indices. It stores raw link counts: counts[u][v] is the number of
// links from u to v, and out-degree[u] is the total outbound links from u.
// Repeated links accumulate; they are never deduplicated.
type Graph struct {
	n         int
	counts    [][]int
	outDegree []int
}

// New creates an empty graph with n nodes and no links. n must be at
// least 1.
func New(n int) (*Graph, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadNodeCount, n)
	}
	counts := make([][]int, n)
	for i := range counts {
		counts[i] = make([]int, n)
	}
	return &Graph{
		n:         n,
		counts:    counts,
		outDegree: make([]int, n),
	}, nil
}

// AddLink records one directed link from u to v, incrementing both the
// edge count and u's out-degree. Adding the same pair again strengthens
// that edge.
func (g *Graph) AddLink(u, v int) error {
	if u < 0 || u >= g.n {
		return fmt.Errorf("%w: source %d (n=%d)", ErrNodeOutOfRange, u, g.n)
	}
	if v < 0 || v >= g.n {
		return fmt.Errorf("%w: target %d (n=%d)", ErrNodeOutOfRange, v, g.n)
	}
	g.counts[u][v]++
	g.outDegree[u]++
	return nil
}

// NumNodes returns the number of nodes n.
func (g *Graph) NumNodes() int {
	return g.n
}

// NumLinks returns the total number of directed links, counting
// multiplicity.
func (g *Graph) NumLinks() int {
	total := 0
	for _, d := range g.outDegree {
		total += d
	}
	return total
}

// Count returns the number of links from u to v. Out-of-range indices
// return 0.
func (g *Graph) Count(u, v int) int {
	if u < 0 || u >= g.n || v < 0 || v >= g.n {
		return 0
	}
	return g.counts[u][v]
}

// OutDegree returns the total outbound links from u. Out-of-range indices
// return 0.
func (g *Graph) OutDegree(u int) int {
	if u < 0 || u >= g.n {
		return 0
	}
	return g.outDegree[u]
}

// Dangling returns the nodes with out-degree zero, in ascending order.
// These nodes have no defined link-following distribution and must be
// handled by an explicit policy when building a transition matrix.
func (g *Graph) Dangling() []int {
	var dangling []int
	for i, d := range g.outDegree {
		if d == 0 {
			dangling = append(dangling, i)
		}
	}
	return dangling
}

// Parse reads a graph description from r. The first token is the node
// count n; the remaining tokens are whitespace-separated integer pairs
// (u, v), each meaning "u links to v". The pair sequence may span any
// number of lines.
func Parse(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("graph: read node count: %w", err)
		}
		return nil, fmt.Errorf("%w: empty input", ErrBadNodeCount)
	}
	n, err := strconv.Atoi(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadNodeCount, sc.Text())
	}

	g, err := New(n)
	if err != nil {
		return nil, err
	}

	var tokens []int
	for sc.Scan() {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("graph: bad edge token %q", sc.Text())
		}
		tokens = append(tokens, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("graph: read edges: %w", err)
	}
	if len(tokens)%2 != 0 {
		return nil, fmt.Errorf("%w: %d tokens", ErrOddTokens, len(tokens))
	}

	for i := 0; i < len(tokens); i += 2 {
		if err := g.AddLink(tokens[i], tokens[i+1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Load reads a graph description from the file at path. I/O failures are
// wrapped with the path; format failures are returned as Parse returns
// them.
func Load(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("graph: open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("graph: load %s: %w", path, err)
	}
	return g, nil
}
