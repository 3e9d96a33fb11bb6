// Package adjacency reconciles per-node LIE observations into one edge per
// physical link.
//
// # Overview
//
// Every node of a snapshot reports its own view of each link: its level, the
// level it believes the neighbor has, and its local adjacency state. The
// same link is therefore described twice, once from each end, and the two
// descriptions are written independently. This package turns them into a
// single consistent [Edge] and refuses snapshots whose two sides disagree.
//
// Processing happens in two stages:
//
//  1. [ProcessNode] derives a node's effective level and its retained
//     observations. Links without a neighbor are dropped; all retained
//     links must report the same local level.
//  2. [Reconciler] merges observations pairwise. The first report of a pair
//     creates the edge in phase [PhaseAwaitingReciprocal]; the report from
//     the other end validates it and moves it to [PhaseComplete].
//
// [Build] runs both stages over a whole snapshot and returns a [Topology].
//
// # Invariants
//
// All violations abort the run with a coded error from package errors:
//
//   - LEVEL_MISMATCH: one node reports different levels on its links.
//   - CROSS_LEVEL_MISMATCH: the level one side claims for the other differs
//     from the level the other side derived for itself.
//   - DUPLICATE_REPORT: the same side of a pair reports twice.
//
// # Ordering
//
// Edges are keyed by a canonical [PairKey] (the sorted pair of node names),
// so lookups do not depend on which end reported first. Which end becomes
// [Edge.A] does depend on snapshot order; everything else about a complete
// edge does not. Edges are returned in creation order, which makes output
// deterministic for a given snapshot.
package adjacency
