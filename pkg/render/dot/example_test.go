package dot_test

import (
	"fmt"

	"github.com/matzehuels/liegraph/pkg/adjacency"
	"github.com/matzehuels/liegraph/pkg/render/dot"
	"github.com/matzehuels/liegraph/pkg/snapshot"
)

func ExampleToDOT() {
	snap := &snapshot.Snapshot{Nodes: []snapshot.Node{
		{Name: "spine", Links: []snapshot.Link{{LIE: snapshot.LieFSM{
			Level: snapshot.LevelOf(1), State: snapshot.StateThreeWay,
			Neighbor: &snapshot.Neighbor{Name: "leaf", Level: snapshot.LevelOf(0)},
		}}}},
		{Name: "leaf", Links: []snapshot.Link{{LIE: snapshot.LieFSM{
			Level: snapshot.LevelOf(0), State: snapshot.StateTwoWay,
			Neighbor: &snapshot.Neighbor{Name: "spine", Level: snapshot.LevelOf(1)},
		}}}},
	}}

	topo, err := adjacency.Build(snap)
	if err != nil {
		fmt.Println(err)
		return
	}
	out, err := dot.ToDOT(topo, dot.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(out)
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   node [shape=box, style="rounded,filled", fillcolor=white];
	//
	//   "spine" [label="spine\nlevel 1"];
	//   "leaf" [label="leaf\nlevel 0"];
	//
	//   "spine" -> "leaf" [dir=both, color="black:blue"];
	// }
}
