// Package ui renders rank vectors and graph summaries for the terminal.
// The canonical output format is a single line of three-decimal scores;
// the pretty renderers add a styled table with score bars on top of it.
package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/pulsar/internal/graph"
)

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan — headers
	colorAccent  = lipgloss.Color("#FFD700") // Gold — score bars
	colorDanger  = lipgloss.Color("#FF5252") // Red — dangling warnings
	colorMuted   = lipgloss.Color("#8C8C8C") // Gray — de-emphasized
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleBar    = lipgloss.NewStyle().Foreground(colorAccent)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleDanger = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
)

// barWidth is the width of a full score bar in the pretty table.
const barWidth = 30

// Printer renders ranking output to a writer pair: results on out,
// diagnostics on errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

// New creates a Printer writing results to out and diagnostics to errOut.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

// Ranks prints the canonical rank line: every score to three decimal
// places followed by a space, then a trailing newline.
func (p *Printer) Ranks(scores []float64) {
	for _, s := range scores {
		fmt.Fprintf(p.out, "%.3f ", s)
	}
	fmt.Fprintln(p.out)
}

// Table prints a styled rank table sorted by score descending, with a
// proportional score bar per node.
func (p *Printer) Table(scores []float64) {
	type row struct {
		node  int
		score float64
	}
	rows := make([]row, len(scores))
	for i, s := range scores {
		rows[i] = row{node: i, score: s}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].score > rows[j].score
	})

	maxScore := 0.0
	for _, r := range rows {
		if r.score > maxScore {
			maxScore = r.score
		}
	}

	fmt.Fprintln(p.out, styleHeader.Render(fmt.Sprintf("%6s  %8s  %s", "node", "rank", "")))
	for _, r := range rows {
		width := 0
		if maxScore > 0 {
			width = int(r.score / maxScore * barWidth)
		}
		bar := styleBar.Render(strings.Repeat("█", width))
		fmt.Fprintf(p.out, "%6d  %8.3f  %s\n", r.node, r.score, bar)
	}
}

// Summary prints an overview of a graph: node and link totals, the
// out-degree of every node, and a warning listing dangling nodes.
func (p *Printer) Summary(path string, g *graph.Graph) {
	fmt.Fprintln(p.out, styleHeader.Render(path))
	fmt.Fprintf(p.out, "nodes: %d  links: %d\n", g.NumNodes(), g.NumLinks())

	for i := 0; i < g.NumNodes(); i++ {
		line := fmt.Sprintf("  node %3d  out-degree %d", i, g.OutDegree(i))
		if g.OutDegree(i) == 0 {
			line += "  " + styleDanger.Render("(dangling)")
		}
		fmt.Fprintln(p.out, line)
	}

	if dangling := g.Dangling(); len(dangling) > 0 {
		fmt.Fprintln(p.out, styleDanger.Render(
			fmt.Sprintf("%d dangling node(s): ranking requires --dangling uniform or selfloop", len(dangling))))
	}
}

// Verbose prints a de-emphasized diagnostic line to the error stream.
func (p *Printer) Verbose(format string, args ...any) {
	fmt.Fprintln(p.errOut, styleMuted.Render(fmt.Sprintf(format, args...)))
}
