package adjacency

import (
	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/snapshot"
)

// Observation is what one node sees toward one neighbor.
type Observation struct {
	Neighbor      string
	NeighborLevel snapshot.Level // level the neighbor advertised to us
	State         snapshot.State // our local adjacency state
}

// ProcessedNode is a node with its effective level and retained
// observations.
type ProcessedNode struct {
	Name string
	// Level is the configured level, or the level reported by the first
	// retained link. It stays Undefined for unconfigured nodes without
	// retained links.
	Level snapshot.Level
	// Observations holds one entry per neighbor, in order of first report.
	Observations []Observation
	// Dropped counts links that had no neighbor yet.
	Dropped int
}

// Observation returns the observation toward neighbor, if any.
func (p ProcessedNode) Observation(neighbor string) (Observation, bool) {
	for _, o := range p.Observations {
		if o.Neighbor == neighbor {
			return o, true
		}
	}
	return Observation{}, false
}

// ProcessNode derives the effective level of n and its observations.
//
// Links without a neighbor are skipped. When a neighbor is reported on
// several links, the last report wins and keeps the first report's
// position. Every retained link must advertise the effective level;
// otherwise ProcessNode returns an ErrCodeLevelMismatch error.
func ProcessNode(n snapshot.Node) (ProcessedNode, error) {
	out := ProcessedNode{Name: n.Name, Level: n.ConfiguredLevel}
	levelSet := n.ConfiguredLevel.IsDefined()
	index := make(map[string]int)

	for i, l := range n.Links {
		nb := l.LIE.Neighbor
		if nb == nil {
			out.Dropped++
			continue
		}

		if !levelSet {
			out.Level = l.LIE.Level
			levelSet = true
		} else if l.LIE.Level != out.Level {
			return ProcessedNode{}, lgerrors.New(lgerrors.ErrCodeLevelMismatch,
				"node %s reports level %s on link %d (to %s), expected %s",
				n.Name, l.LIE.Level, i, nb.Name, out.Level)
		}

		obs := Observation{
			Neighbor:      nb.Name,
			NeighborLevel: nb.Level,
			State:         l.LIE.AdjacencyState(),
		}
		if j, ok := index[nb.Name]; ok {
			out.Observations[j] = obs
			continue
		}
		index[nb.Name] = len(out.Observations)
		out.Observations = append(out.Observations, obs)
	}

	return out, nil
}
