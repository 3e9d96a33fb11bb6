package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/liegraph/pkg/adjacency"
	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/snapshot"
)

// ColorMode selects how the two halves of an edge color map to endpoints.
type ColorMode string

const (
	// ColorAligned colors each half by the endpoint drawn at that end.
	ColorAligned ColorMode = "aligned"
	// ColorRecorded colors the halves in reporting order (first reporter first).
	ColorRecorded ColorMode = "recorded"
)

// RankDir is the Graphviz rank direction.
type RankDir string

const (
	RankTB RankDir = "TB"
	RankBT RankDir = "BT"
	RankLR RankDir = "LR"
	RankRL RankDir = "RL"
)

// Options configures DOT generation. The zero value renders top-to-bottom
// with aligned colors.
type Options struct {
	ColorMode ColorMode
	RankDir   RankDir
}

// ParseColorMode parses a color mode name. The empty string selects
// [ColorAligned].
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ColorAligned, nil
	case ColorAligned, ColorRecorded:
		return m, nil
	}
	return "", lgerrors.New(lgerrors.ErrCodeInvalidFormat,
		"unknown color mode %q (want aligned or recorded)", s)
}

// ParseRankDir parses a rank direction. The empty string selects [RankTB].
func ParseRankDir(s string) (RankDir, error) {
	switch d := RankDir(strings.ToUpper(strings.TrimSpace(s))); d {
	case "":
		return RankTB, nil
	case RankTB, RankBT, RankLR, RankRL:
		return d, nil
	}
	return "", lgerrors.New(lgerrors.ErrCodeInvalidFormat,
		"unknown rank direction %q (want TB, BT, LR or RL)", s)
}

func (o Options) normalized() (Options, error) {
	mode, err := ParseColorMode(string(o.ColorMode))
	if err != nil {
		return o, err
	}
	dir, err := ParseRankDir(string(o.RankDir))
	if err != nil {
		return o, err
	}
	return Options{ColorMode: mode, RankDir: dir}, nil
}

var stateColors = map[snapshot.State]string{
	snapshot.StateOneWay:                "green",
	snapshot.StateTwoWay:                "blue",
	snapshot.StateThreeWay:              "black",
	snapshot.StateMultipleNeighborsWait: "orange",
	snapshot.StateUnknown:               "white",
}

// Color returns the color for an adjacency state. Matching is exact and
// case-sensitive.
func Color(s snapshot.State) (string, error) {
	c, ok := stateColors[s]
	if !ok {
		return "", lgerrors.New(lgerrors.ErrCodeUnknownState,
			"no color for adjacency state %q", string(s))
	}
	return c, nil
}

// ToDOT converts a topology to Graphviz DOT text. Output is deterministic:
// vertices follow snapshot order and edges follow reconciliation order.
// An edge whose state has no color aborts rendering with no output.
func ToDOT(t *adjacency.Topology, opts Options) (string, error) {
	opts, err := opts.normalized()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.RankDir)
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white];\n")
	buf.WriteString("\n")

	for _, n := range t.Nodes() {
		fmt.Fprintf(&buf, "  %s [label=%s];\n", quote(n.Name), quote(label(n)))
	}

	buf.WriteString("\n")
	for _, e := range t.Edges() {
		line, err := edgeLine(e, opts.ColorMode)
		if err != nil {
			return "", err
		}
		buf.WriteString(line)
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func label(n adjacency.ProcessedNode) string {
	return n.Name + "\nlevel " + n.Level.String()
}

// orient returns the edge endpoints as (origin, target) and reports whether
// they are swapped relative to the stored a/b order.
func orient(e *adjacency.Edge) (origin, target string, swapped bool) {
	if c, ok := e.LevelA.Compare(e.LevelB); ok && c < 0 {
		return e.B, e.A, true
	}
	return e.A, e.B, false
}

func edgeLine(e *adjacency.Edge, mode ColorMode) (string, error) {
	colorA, err := Color(e.StateA)
	if err != nil {
		return "", fmt.Errorf("edge %s-%s: %w", e.A, e.B, err)
	}
	colorB, err := Color(e.StateB)
	if err != nil {
		return "", fmt.Errorf("edge %s-%s: %w", e.A, e.B, err)
	}

	origin, target, swapped := orient(e)
	if swapped && mode == ColorAligned {
		colorA, colorB = colorB, colorA
	}

	dir := "forward"
	if e.BothReported() {
		dir = "both"
	}
	return fmt.Sprintf("  %s -> %s [dir=%s, color=\"%s:%s\"];\n",
		quote(origin), quote(target), dir, colorA, colorB), nil
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// quote renders s as a DOT double-quoted string. Backslashes and quotes
// are escaped; newlines become the DOT line break escape.
func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}
