// Package report reads and writes TOML result catalogs: the parameters
// and per-node scores of a ranking run, in a format meant for diffing and
// cross-run comparison outside the tool.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// NodeRank is one node's score within a report.
type NodeRank struct {
	Node  int     `toml:"node"`
	Score float64 `toml:"score"`
}

// Report captures one ranking run: where the graph came from, how it was
// ranked, and the resulting score per node.
type Report struct {
	Graph       string     `toml:"graph"`
	Method      string     `toml:"method"`
	Steps       int        `toml:"steps"`
	Damping     float64    `toml:"damping"`
	GeneratedAt time.Time  `toml:"generated_at"`
	Ranks       []NodeRank `toml:"ranks"`
}

// New builds a Report from a score vector, preserving node order.
func New(graphPath, method string, steps int, damping float64, scores []float64) *Report {
	ranks := make([]NodeRank, len(scores))
	for i, s := range scores {
		ranks[i] = NodeRank{Node: i, Score: s}
	}
	return &Report{
		Graph:       graphPath,
		Method:      method,
		Steps:       steps,
		Damping:     damping,
		GeneratedAt: time.Now().UTC(),
		Ranks:       ranks,
	}
}

// Scores returns the report's score vector indexed by node.
func (r *Report) Scores() []float64 {
	scores := make([]float64, len(r.Ranks))
	for _, nr := range r.Ranks {
		if nr.Node >= 0 && nr.Node < len(scores) {
			scores[nr.Node] = nr.Score
		}
	}
	return scores
}

// Save writes the report to the given path as TOML, creating parent
// directories as needed.
func Save(path string, r *Report) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: create directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

// Load reads a report from the given TOML file.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("report: read %s: %w", path, err)
	}

	var r Report
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("report: parse %s: %w", path, err)
	}
	return &r, nil
}
