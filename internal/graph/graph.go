// Package graph provides a small directed graph addressed by node handles.
package graph

import "slices"

// NodeID is the handle of a node, assigned at creation time
type NodeID int

// NoNode is returned when a node does not exist
const NoNode NodeID = -1

// Node is a vertex with an opaque payload and outgoing edges
type Node[T any] struct {
	ID      NodeID
	Payload T
	To      []NodeID
}

// Graph is a directed graph. Cycles and self loops are permitted.
//
// Nodes can be looked up by payload. With pointer payloads this is a lookup
// by identity, so two payloads with equal contents are distinct nodes.
type Graph[T comparable] struct {
	nodes []Node[T]
	index map[T]NodeID
}

// New creates an empty graph
func New[T comparable]() *Graph[T] {
	return &Graph[T]{
		index: make(map[T]NodeID),
	}
}

// AddNode adds a node that can be found by its payload. If another node
// already uses the same payload, Find keeps returning the first one.
func (g *Graph[T]) AddNode(payload T) NodeID {
	id := g.addNode(payload)
	if _, ok := g.index[payload]; !ok {
		g.index[payload] = id
	}
	return id
}

// AddDetachedNode adds a node that Find never returns, e.g. a root
func (g *Graph[T]) AddDetachedNode(payload T) NodeID {
	return g.addNode(payload)
}

func (g *Graph[T]) addNode(payload T) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node[T]{ID: id, Payload: payload})
	return id
}

// Find returns the node created for payload by AddNode
func (g *Graph[T]) Find(payload T) (NodeID, bool) {
	id, ok := g.index[payload]
	return id, ok
}

// AddEdge adds an edge from one node to another. Duplicate edges are ignored.
func (g *Graph[T]) AddEdge(from, to NodeID) {
	if !g.valid(from) || !g.valid(to) {
		return
	}
	if slices.Contains(g.nodes[from].To, to) {
		return
	}
	g.nodes[from].To = append(g.nodes[from].To, to)
}

// HasEdge reports whether there is an edge from one node to another
func (g *Graph[T]) HasEdge(from, to NodeID) bool {
	return g.valid(from) && slices.Contains(g.nodes[from].To, to)
}

// Node returns a copy of the node
func (g *Graph[T]) Node(id NodeID) (Node[T], bool) {
	if !g.valid(id) {
		return Node[T]{}, false
	}
	n := g.nodes[id]
	n.To = slices.Clone(n.To)
	return n, true
}

// Payload returns the payload of a node, or the zero value
func (g *Graph[T]) Payload(id NodeID) T {
	if !g.valid(id) {
		var zero T
		return zero
	}
	return g.nodes[id].Payload
}

// Successors returns the targets of a node's outgoing edges
func (g *Graph[T]) Successors(id NodeID) []NodeID {
	if !g.valid(id) {
		return nil
	}
	return slices.Clone(g.nodes[id].To)
}

// Predecessors returns the sources of a node's incoming edges
func (g *Graph[T]) Predecessors(id NodeID) []NodeID {
	var out []NodeID
	for _, n := range g.nodes {
		if slices.Contains(n.To, id) {
			out = append(out, n.ID)
		}
	}
	return out
}

// Nodes returns the handles of all nodes in creation order
func (g *Graph[T]) Nodes() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		ids[i] = NodeID(i)
	}
	return ids
}

// Len returns the number of nodes
func (g *Graph[T]) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges
func (g *Graph[T]) EdgeCount() int {
	n := 0
	for _, node := range g.nodes {
		n += len(node.To)
	}
	return n
}

// Reachable returns every node reachable from start, excluding start
// unless it lies on a cycle
func (g *Graph[T]) Reachable(start NodeID) []NodeID {
	if !g.valid(start) {
		return nil
	}
	seen := make([]bool, len(g.nodes))
	var out []NodeID
	stack := slices.Clone(g.nodes[start].To)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		stack = append(stack, g.nodes[id].To...)
	}
	return out
}

func (g *Graph[T]) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}
