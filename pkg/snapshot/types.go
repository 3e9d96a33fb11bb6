package snapshot

// State is the adjacency state of one end of a link, as reported by the
// LIE finite-state machine of the node owning that end.
type State string

// Adjacency states. Matching is exact and case-sensitive.
const (
	StateOneWay                State = "OneWay"
	StateTwoWay                State = "TwoWay"
	StateThreeWay              State = "ThreeWay"
	StateMultipleNeighborsWait State = "MultipleNeighborsWait"

	// StateUnknown stands for a missing observation: either the snapshot
	// omitted lie_state or the remote side has not reported the link.
	StateUnknown State = "unknown"
)

// Snapshot is one point-in-time capture of all nodes' adjacency data.
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes" validate:"dive"`
}

// Node is one node record of a snapshot.
type Node struct {
	Name string `json:"node_name" yaml:"node_name" validate:"required,nodename"`
	// ConfiguredLevel is Undefined when the level was left to ZTP.
	ConfiguredLevel Level  `json:"configured_level" yaml:"configured_level"`
	Links           []Link `json:"links" yaml:"links" validate:"dive"`
}

// Link is one interface of a node.
type Link struct {
	// NodeName repeats the owning node's name in dumps; it may be empty.
	NodeName string `json:"node_name,omitempty" yaml:"node_name,omitempty"`
	LIE      LieFSM `json:"lie_fsm" yaml:"lie_fsm"`
}

// LieFSM is the per-interface LIE state machine view.
type LieFSM struct {
	// Level is the level this node advertised on the interface.
	Level Level `json:"level" yaml:"level"`
	State State `json:"lie_state,omitempty" yaml:"lie_state,omitempty"`
	// Neighbor is nil until a LIE from the remote side has been accepted.
	Neighbor *Neighbor `json:"neighbor" yaml:"neighbor" validate:"omitempty"`
}

// Neighbor is the remote end of a link as seen from the local node.
type Neighbor struct {
	Name  string `json:"name" yaml:"name" validate:"required,nodename"`
	Level Level  `json:"level" yaml:"level"`
}

// AdjacencyState returns the reported state, or [StateUnknown] when the
// dump left it empty.
func (f LieFSM) AdjacencyState() State {
	if f.State == "" {
		return StateUnknown
	}
	return f.State
}

// NodeNames returns node names in snapshot order.
func (s *Snapshot) NodeNames() []string {
	names := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		names[i] = n.Name
	}
	return names
}

// LinkCount returns the total number of links over all nodes.
func (s *Snapshot) LinkCount() int {
	total := 0
	for _, n := range s.Nodes {
		total += len(n.Links)
	}
	return total
}
