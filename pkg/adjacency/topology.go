package adjacency

import "github.com/matzehuels/liegraph/pkg/snapshot"

// Topology is the reconciled graph of one snapshot: processed nodes in
// snapshot order and edges in creation order.
type Topology struct {
	nodes  []ProcessedNode
	edges  []*Edge
	levels map[string]snapshot.Level
	byKey  map[PairKey]*Edge
}

func newTopology(nodes []ProcessedNode, edges []*Edge) *Topology {
	t := &Topology{
		nodes:  nodes,
		edges:  edges,
		levels: make(map[string]snapshot.Level, len(nodes)),
		byKey:  make(map[PairKey]*Edge, len(edges)),
	}
	for _, n := range nodes {
		t.levels[n.Name] = n.Level
	}
	for _, e := range edges {
		t.byKey[e.Key()] = e
	}
	return t
}

// Nodes returns the processed nodes in snapshot order.
func (t *Topology) Nodes() []ProcessedNode { return t.nodes }

// Edges returns the reconciled edges in creation order.
func (t *Topology) Edges() []*Edge { return t.edges }

// Level returns the effective level of a snapshot node.
// ok is false for names that are not snapshot nodes.
func (t *Topology) Level(name string) (lvl snapshot.Level, ok bool) {
	lvl, ok = t.levels[name]
	return lvl, ok
}

// Edge returns the edge between a and b in either order.
func (t *Topology) Edge(a, b string) (*Edge, bool) {
	e, ok := t.byKey[NewPairKey(a, b)]
	return e, ok
}

// NodeCount returns the number of snapshot nodes.
func (t *Topology) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of reconciled edges.
func (t *Topology) EdgeCount() int { return len(t.edges) }

// Stats summarizes a topology.
type Stats struct {
	Nodes        int `json:"nodes"`
	Edges        int `json:"edges"`
	Complete     int `json:"complete"`
	OneSided     int `json:"one_sided"`
	DroppedLinks int `json:"dropped_links"`
}

// Stats counts nodes, complete and one-sided edges, and links dropped for
// lack of a neighbor.
func (t *Topology) Stats() Stats {
	s := Stats{Nodes: len(t.nodes), Edges: len(t.edges)}
	for _, n := range t.nodes {
		s.DroppedLinks += n.Dropped
	}
	for _, e := range t.edges {
		if e.BothReported() {
			s.Complete++
		} else {
			s.OneSided++
		}
	}
	return s
}
