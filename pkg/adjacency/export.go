package adjacency

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/liegraph/pkg/snapshot"
)

type topologyJSON struct {
	Nodes []nodeJSON `json:"nodes"`
	Edges []edgeJSON `json:"edges"`
	Stats Stats      `json:"stats"`
}

type nodeJSON struct {
	Name    string         `json:"name"`
	Level   snapshot.Level `json:"level"`
	Dropped int            `json:"dropped_links,omitempty"`
}

type edgeJSON struct {
	A            string         `json:"a"`
	B            string         `json:"b"`
	LevelA       snapshot.Level `json:"level_a"`
	LevelB       snapshot.Level `json:"level_b"`
	StateA       snapshot.State `json:"state_a"`
	StateB       snapshot.State `json:"state_b"`
	BothReported bool           `json:"both_reported"`
	Phase        string         `json:"phase"`
}

// WriteJSON encodes t as indented JSON: nodes with their effective levels,
// edges with both endpoints' levels and states, and summary stats.
// Undefined levels are written as null.
func WriteJSON(t *Topology, w io.Writer) error {
	out := topologyJSON{
		Nodes: make([]nodeJSON, len(t.nodes)),
		Edges: make([]edgeJSON, len(t.edges)),
		Stats: t.Stats(),
	}
	for i, n := range t.nodes {
		out.Nodes[i] = nodeJSON{Name: n.Name, Level: n.Level, Dropped: n.Dropped}
	}
	for i, e := range t.edges {
		out.Edges[i] = edgeJSON{
			A:            e.A,
			B:            e.B,
			LevelA:       e.LevelA,
			LevelB:       e.LevelB,
			StateA:       e.StateA,
			StateB:       e.StateB,
			BothReported: e.BothReported(),
			Phase:        e.Phase.String(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
