package graph

import (
	"github.com/ralt/wpm/internal/models"
)

// InstalledSource is the view of a repository needed to build the graph
// of installed packages
type InstalledSource interface {
	models.VersionLister
	InstalledVersions() []*models.PackageVersion
}

// InstalledGraph is a snapshot of installed package versions and the
// dependencies between them. Payloads are copies, so the snapshot does not
// change when the repository does. Find only recognizes those copies; look
// up a repository version with FindKey.
type InstalledGraph struct {
	*Graph[*models.PackageVersion]

	byKey map[string]NodeID

	// Root stands for the user. It has an edge to every installed version.
	Root NodeID

	// Unresolved is the single placeholder shared by all unmet
	// dependencies, or NoNode if every dependency is met. Its payload is nil.
	Unresolved NodeID
}

// BuildInstalled creates the graph of installed package versions
func BuildInstalled(src InstalledSource) *InstalledGraph {
	g := &InstalledGraph{
		Graph:      New[*models.PackageVersion](),
		Unresolved: NoNode,
		byKey:      make(map[string]NodeID),
	}
	g.Root = g.AddDetachedNode(nil)

	nodes := make(map[*models.PackageVersion]NodeID)
	nodeFor := func(pv *models.PackageVersion) NodeID {
		if id, ok := nodes[pv]; ok {
			return id
		}
		id := g.AddNode(pv.Clone())
		nodes[pv] = id
		g.byKey[pv.Key()] = id
		return id
	}

	installed := src.InstalledVersions()
	for _, pv := range installed {
		g.AddEdge(g.Root, nodeFor(pv))
	}

	for _, pv := range installed {
		from := nodes[pv]
		for _, dep := range pv.Dependencies {
			match := dep.FindHighestInstalledMatch(src)
			if match == nil {
				g.AddEdge(from, g.unresolved())
				continue
			}
			g.AddEdge(from, nodeFor(match))
		}
	}

	return g
}

func (g *InstalledGraph) unresolved() NodeID {
	if g.Unresolved == NoNode {
		g.Unresolved = g.AddNode(nil)
	}
	return g.Unresolved
}

// FindKey returns the node of the package version with the given
// "<package>-<version>" key
func (g *InstalledGraph) FindKey(key string) (NodeID, bool) {
	id, ok := g.byKey[key]
	return id, ok
}

// Dependents returns the installed versions that depend on the given node
func (g *InstalledGraph) Dependents(id NodeID) []*models.PackageVersion {
	var out []*models.PackageVersion
	for _, p := range g.Predecessors(id) {
		if p == g.Root || p == id {
			continue
		}
		out = append(out, g.Payload(p))
	}
	return out
}
