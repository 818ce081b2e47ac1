// Package dag builds the local dependency graph of a descriptor's targets.
// Nodes are targets and an edge runs from a dependency to its dependent.
package dag

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/leapstack-labs/bzl2cmake/internal/descriptor"
)

// Node is one target in the graph.
type Node struct {
	// ID is the target name.
	ID string
	// Target is nil for nodes added without a declaration.
	Target *descriptor.Target
}

// MissingRef is a same-descriptor reference (":name") to a target that is not
// declared.
type MissingRef struct {
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label" yaml:"label"`
}

// Graph is a directed graph of targets. It may hold cycles; HasCycle reports
// them and the ordering operations refuse to run on them.
type Graph struct {
	nodes   map[string]*Node
	edges   map[string][]string // dependency -> dependents
	parents map[string][]string // dependent -> dependencies
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// FromTargets builds the graph for targets. Each ":name" or "//pkg:name"
// dependency that names a declared target becomes an edge. A ":name" that
// names nothing is returned as a MissingRef; "//pkg" labels naming nothing are
// treated as other packages and ignored, as are external labels.
//
// When two targets share a name the later declaration wins.
func FromTargets(targets []descriptor.Target) (*Graph, []MissingRef) {
	g := NewGraph()
	for i := range targets {
		g.AddNode(targets[i].Name, &targets[i])
	}

	var missing []MissingRef
	for i := range targets {
		t := &targets[i]
		for _, label := range t.Deps {
			name, sameFile, ok := localName(label)
			if !ok {
				continue
			}
			if _, declared := g.nodes[name]; !declared {
				if sameFile {
					missing = append(missing, MissingRef{Target: t.Name, Label: label})
				}
				continue
			}
			// Both nodes exist, so AddEdge cannot fail.
			_ = g.AddEdge(name, t.Name)
		}
	}
	return g, missing
}

// localName extracts the target name a local label refers to. sameFile is
// true for the ":name" form.
func localName(label string) (name string, sameFile, ok bool) {
	switch {
	case strings.HasPrefix(label, ":"):
		return label[1:], true, label != ":"
	case strings.HasPrefix(label, "//"):
		if i := strings.LastIndex(label, ":"); i >= 0 {
			return label[i+1:], false, i+1 < len(label)
		}
		name = label[strings.LastIndex(label, "/")+1:]
		return name, false, name != ""
	}
	return "", false, false
}

// AddNode adds a node, or replaces the target of an existing one.
func (g *Graph) AddNode(id string, target *descriptor.Target) {
	if n, exists := g.nodes[id]; exists {
		n.Target = target
		return
	}
	g.nodes[id] = &Node{ID: id, Target: target}
	g.edges[id] = []string{}
	g.parents[id] = []string{}
}

// AddEdge records that childID depends on parentID. A self-edge is allowed
// and shows up as a cycle.
func (g *Graph) AddEdge(parentID, childID string) error {
	if _, exists := g.nodes[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.nodes[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}

	if !slices.Contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !slices.Contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// GetParents returns the direct dependencies of a node.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the direct dependents of a node.
func (g *Graph) GetChildren(id string) []string {
	return g.edges[id]
}

// GetAllNodes returns all nodes sorted by ID.
func (g *Graph) GetAllNodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, id := range g.sortedIDs() {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// HasCycle reports whether the graph has a cycle and, if so, one cycle path
// that starts and ends at the same node.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	from := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onStack[id] = true

		for _, childID := range g.edges[id] {
			if !visited[childID] {
				from[childID] = id
				if dfs(childID) {
					return true
				}
			} else if onStack[childID] {
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = from[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		onStack[id] = false
		return false
	}

	for _, id := range g.sortedIDs() {
		if !visited[id] && dfs(id) {
			return true, cyclePath
		}
	}
	return false, nil
}

// CycleError is returned by the ordering operations on a cyclic graph.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}

// TopologicalSort returns nodes with dependencies before dependents. Ties are
// broken by ID.
func (g *Graph) TopologicalSort() ([]*Node, error) {
	if hasCycle, path := g.HasCycle(); hasCycle {
		return nil, &CycleError{Path: path}
	}

	visited := make(map[string]bool)
	var result []*Node

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, parentID := range g.parents[id] {
			visit(parentID)
		}
		result = append(result, g.nodes[id])
	}

	for _, id := range g.sortedIDs() {
		visit(id)
	}
	return result, nil
}

// GetExecutionLevels groups node IDs by depth. Level 0 holds targets with no
// local dependencies; every other target sits one level above its deepest
// dependency.
func (g *Graph) GetExecutionLevels() ([][]string, error) {
	if hasCycle, path := g.HasCycle(); hasCycle {
		return nil, &CycleError{Path: path}
	}

	assigned := make(map[string]int)

	var getLevel func(id string) int
	getLevel = func(id string) int {
		if level, ok := assigned[id]; ok {
			return level
		}
		level := 0
		for _, parentID := range g.parents[id] {
			if l := getLevel(parentID) + 1; l > level {
				level = l
			}
		}
		assigned[id] = level
		return level
	}

	maxLevel := -1
	for id := range g.nodes {
		if level := getLevel(id); level > maxLevel {
			maxLevel = level
		}
	}

	levels := make([][]string, maxLevel+1)
	for id, level := range assigned {
		levels[level] = append(levels[level], id)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}
	return levels, nil
}

// GetAffectedNodes returns the given nodes plus everything that depends on
// them, sorted.
func (g *Graph) GetAffectedNodes(changedIDs []string) []string {
	affected := make(map[string]bool)

	var mark func(id string)
	mark = func(id string) {
		if affected[id] {
			return
		}
		affected[id] = true
		for _, childID := range g.edges[id] {
			mark(childID)
		}
	}

	for _, id := range changedIDs {
		if _, exists := g.nodes[id]; exists {
			mark(id)
		}
	}
	return sortedKeys(affected)
}

// GetUpstreamNodes returns the transitive dependencies of a node, sorted.
func (g *Graph) GetUpstreamNodes(id string) []string {
	upstream := make(map[string]bool)

	var mark func(nodeID string)
	mark = func(nodeID string) {
		for _, parentID := range g.parents[nodeID] {
			if !upstream[parentID] {
				upstream[parentID] = true
				mark(parentID)
			}
		}
	}

	mark(id)
	return sortedKeys(upstream)
}

// GetRoots returns nodes without local dependencies.
func (g *Graph) GetRoots() []string {
	var roots []string
	for _, id := range g.sortedIDs() {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// GetLeaves returns nodes nothing depends on.
func (g *Graph) GetLeaves() []string {
	var leaves []string
	for _, id := range g.sortedIDs() {
		if len(g.edges[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// Subgraph returns a graph of the given nodes and the edges between them.
// Unknown IDs are ignored.
func (g *Graph) Subgraph(nodeIDs []string) *Graph {
	sub := NewGraph()
	keep := make(map[string]bool)

	for _, id := range nodeIDs {
		if node, exists := g.nodes[id]; exists {
			keep[id] = true
			sub.AddNode(id, node.Target)
		}
	}
	for _, id := range sub.sortedIDs() {
		for _, childID := range g.edges[id] {
			if keep[childID] {
				_ = sub.AddEdge(id, childID)
			}
		}
	}
	return sub
}

func (g *Graph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
