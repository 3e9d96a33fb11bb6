// Package pkg provides the libraries behind liegraph, the RIFT LIE adjacency
// renderer.
//
// # Overview
//
// A RIFT fabric snapshot lists, per node, the LIE adjacencies that node has
// formed: its own level, the neighbor it sees and that neighbor's level,
// and the adjacency state. Each link is therefore described twice, once
// by each end. liegraph pairs those two descriptions into one edge,
// checks that both ends agree on levels, and draws the result.
//
// # Architecture
//
//	snapshot document (JSON / YAML)
//	         ↓
//	    [snapshot] package (decode + validate)
//	         ↓
//	    [adjacency] package (per-node levels, pair reconciliation)
//	         ↓
//	    [render/dot] package (DOT text, Graphviz SVG/PNG)
//	         ↓
//	    DOT / JSON / SVG / PNG
//
// [pipeline] runs these stages with a [cache] for Graphviz output and
// reports to [observability] hooks, which [metrics] turns into Prometheus
// series. [config] and [watch] support the command-line tool.
//
// # Quick Start
//
//	snap, err := snapshot.ReadFile("fabric.json")
//	if err != nil {
//	    return err
//	}
//	topo, err := adjacency.Build(snap)
//	if err != nil {
//	    return err // LEVEL_MISMATCH, CROSS_LEVEL_MISMATCH, ...
//	}
//	text, err := dot.ToDOT(topo, dot.Options{RankDir: dot.RankLR})
package pkg
