package adjacency

import (
	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/snapshot"
)

// Phase is the reconciliation state of an edge.
type Phase int

const (
	// PhaseAwaitingReciprocal means only endpoint A has reported the link.
	PhaseAwaitingReciprocal Phase = iota
	// PhaseComplete means both endpoints have reported and agree.
	PhaseComplete
)

// String returns the phase name used in logs and JSON output.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingReciprocal:
		return "awaiting_reciprocal"
	case PhaseComplete:
		return "complete"
	}
	return "invalid"
}

// PairKey identifies an unordered pair of nodes. Lo <= Hi always holds.
type PairKey struct {
	Lo, Hi string
}

// NewPairKey returns the canonical key for the pair {a, b}.
func NewPairKey(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{Lo: a, Hi: b}
}

// Edge is the reconciled view of one physical link.
//
// A is the endpoint that reported first, B the other one. LevelA is A's
// effective level and LevelB the level A saw advertised by B; once the edge
// is complete LevelB is also B's own effective level. StateB stays
// [snapshot.StateUnknown] until B reports.
type Edge struct {
	A, B           string
	LevelA, LevelB snapshot.Level
	StateA, StateB snapshot.State
	Phase          Phase
}

// BothReported reports whether both endpoints have reported the link.
func (e *Edge) BothReported() bool { return e.Phase == PhaseComplete }

// Key returns the canonical pair key of the edge.
func (e *Edge) Key() PairKey { return NewPairKey(e.A, e.B) }

// Reconciler merges processed nodes into edges. Nodes must be added in
// snapshot order. A Reconciler is single-use and not safe for concurrent
// use.
type Reconciler struct {
	nodes []ProcessedNode
	edges map[PairKey]*Edge
	order []PairKey
}

// NewReconciler returns an empty Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{edges: make(map[PairKey]*Edge)}
}

// Add merges every observation of n.
//
// The first observation of a pair creates its edge. An observation from
// the edge's B endpoint completes it after checking that:
//   - the edge is still awaiting its reciprocal (ErrCodeDuplicateReport)
//   - B's effective level equals the level A claimed for it, and the level
//     B claims for A equals A's effective level (ErrCodeCrossLevelMismatch)
//
// The level check is deliberately stricter than comparing B's level alone:
// both claims must agree, so whether a snapshot is accepted does not depend
// on which endpoint is listed first.
//
// A second observation from the A endpoint is an ErrCodeDuplicateReport.
// On error the Reconciler must be discarded.
func (r *Reconciler) Add(n ProcessedNode) error {
	for _, obs := range n.Observations {
		key := NewPairKey(n.Name, obs.Neighbor)
		e, ok := r.edges[key]
		if !ok {
			r.edges[key] = &Edge{
				A:      n.Name,
				B:      obs.Neighbor,
				LevelA: n.Level,
				LevelB: obs.NeighborLevel,
				StateA: obs.State,
				StateB: snapshot.StateUnknown,
				Phase:  PhaseAwaitingReciprocal,
			}
			r.order = append(r.order, key)
			continue
		}

		if n.Name != e.B {
			return lgerrors.New(lgerrors.ErrCodeDuplicateReport,
				"link %s -> %s reported twice by %s", e.A, e.B, n.Name)
		}
		if err := complete(e, n, obs); err != nil {
			return err
		}
	}
	r.nodes = append(r.nodes, n)
	return nil
}

// complete records the reciprocal observation of e made by node n.
func complete(e *Edge, n ProcessedNode, obs Observation) error {
	if e.Phase != PhaseAwaitingReciprocal || e.StateB != snapshot.StateUnknown {
		return lgerrors.New(lgerrors.ErrCodeDuplicateReport,
			"reciprocal side of link %s -> %s already recorded (state %s)", e.A, e.B, e.StateB)
	}
	if e.LevelB != n.Level {
		return lgerrors.New(lgerrors.ErrCodeCrossLevelMismatch,
			"%s reported %s at level %s, but %s is at level %s", e.A, e.B, e.LevelB, e.B, n.Level)
	}
	if obs.NeighborLevel != e.LevelA {
		return lgerrors.New(lgerrors.ErrCodeCrossLevelMismatch,
			"%s reported %s at level %s, but %s is at level %s", e.B, e.A, obs.NeighborLevel, e.A, e.LevelA)
	}

	e.StateB = obs.State
	e.Phase = PhaseComplete
	return nil
}

// Topology returns the reconciled result. The Reconciler must not be used
// afterwards.
func (r *Reconciler) Topology() *Topology {
	edges := make([]*Edge, len(r.order))
	for i, k := range r.order {
		edges[i] = r.edges[k]
	}
	return newTopology(r.nodes, edges)
}

// Reconcile merges nodes, in order, into a Topology.
func Reconcile(nodes []ProcessedNode) (*Topology, error) {
	r := NewReconciler()
	for _, n := range nodes {
		if err := r.Add(n); err != nil {
			return nil, err
		}
	}
	return r.Topology(), nil
}

// Build processes every node of s and reconciles the result.
func Build(s *snapshot.Snapshot) (*Topology, error) {
	nodes := make([]ProcessedNode, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		p, err := ProcessNode(n)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, p)
	}
	return Reconcile(nodes)
}
