// Package snapshot models a point-in-time dump of every node's LIE adjacency
// table, as written by a RIFT implementation.
//
// # Overview
//
// A [Snapshot] lists nodes in the order they were dumped. Each [Node] has a
// name, an optional configured [Level], and one [Link] per interface. A link
// carries the LIE finite-state machine view of that interface: the level the
// node advertised, the adjacency [State], and, once the remote side has been
// seen, a [Neighbor] with the remote name and level.
//
// The package holds no reconciliation logic; see package adjacency for that.
//
// # Document Format
//
// Snapshots are JSON or YAML documents using the field names of the original
// dump format:
//
//	{
//	  "nodes": [
//	    {
//	      "node_name": "spine-1",
//	      "configured_level": 1,
//	      "links": [
//	        {"node_name": "spine-1",
//	         "lie_fsm": {"level": 1, "lie_state": "ThreeWay",
//	                     "neighbor": {"name": "leaf-1", "level": 0}}}
//	      ]
//	    }
//	  ]
//	}
//
// Levels accept several spellings, see [Level.UnmarshalJSON].
//
// # Loading
//
// Use [ReadFile] for files (format chosen by extension) or [Decode] for
// readers. Both validate the decoded document with [Validate] before
// returning it.
package snapshot
