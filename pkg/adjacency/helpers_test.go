package adjacency

import "github.com/matzehuels/liegraph/pkg/snapshot"

func link(level int, state snapshot.State, neighbor string, neighborLevel int) snapshot.Link {
	return snapshot.Link{LIE: snapshot.LieFSM{
		Level:    snapshot.LevelOf(level),
		State:    state,
		Neighbor: &snapshot.Neighbor{Name: neighbor, Level: snapshot.LevelOf(neighborLevel)},
	}}
}

func dangling(level int, state snapshot.State) snapshot.Link {
	return snapshot.Link{LIE: snapshot.LieFSM{Level: snapshot.LevelOf(level), State: state}}
}

func node(name string, links ...snapshot.Link) snapshot.Node {
	return snapshot.Node{Name: name, Links: links}
}

func configured(name string, level int, links ...snapshot.Link) snapshot.Node {
	return snapshot.Node{Name: name, ConfiguredLevel: snapshot.LevelOf(level), Links: links}
}

func snap(nodes ...snapshot.Node) *snapshot.Snapshot {
	return &snapshot.Snapshot{Nodes: nodes}
}
