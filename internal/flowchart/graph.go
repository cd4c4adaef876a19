// Package flowchart derives a linear project flowchart from task assignments
// and renders it to PNG bytes or DOT text.
package flowchart

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/steveyegge/workup/internal/errs"
	"github.com/steveyegge/workup/internal/tasks"
)

const (
	// StartID and EndID are the fixed endpoints of every flowchart.
	StartID = "Start"
	EndID   = "End"

	startLabel = "Project Start"
	endLabel   = "Project End"
)

// NodeKind distinguishes the terminal nodes from member nodes.
type NodeKind int

const (
	KindTerminal NodeKind = iota
	KindMember
)

// Node is a vertex of the flowchart.
type Node struct {
	ID    string
	Label string
	Kind  NodeKind
}

// Edge is a directed arrow between two node IDs.
type Edge struct {
	From string
	To   string
}

// Graph is a chain Start -> m1 -> ... -> mn -> End.
// Nodes are stored in path order.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Build derives the flowchart graph for l.
// It returns errs.ErrEmptyInput when l has no entries.
func Build(l *tasks.List) (*Graph, error) {
	if l.Empty() {
		return nil, fmt.Errorf("flowchart: %w", errs.ErrEmptyInput)
	}

	entries := l.Entries()
	g := &Graph{
		Nodes: make([]Node, 0, len(entries)+2),
		Edges: make([]Edge, 0, len(entries)+1),
	}
	used := map[string]bool{StartID: true, EndID: true}

	g.Nodes = append(g.Nodes, Node{ID: StartID, Label: startLabel, Kind: KindTerminal})
	prev := StartID
	for i, e := range entries {
		id := uniqueID(NodeID(e.Member, i+1), used)
		g.Nodes = append(g.Nodes, Node{
			ID:    id,
			Label: e.Member + "\n" + e.Description,
			Kind:  KindMember,
		})
		g.Edges = append(g.Edges, Edge{From: prev, To: id})
		prev = id
	}
	g.Nodes = append(g.Nodes, Node{ID: EndID, Label: endLabel, Kind: KindTerminal})
	g.Edges = append(g.Edges, Edge{From: prev, To: EndID})

	return g, nil
}

// NodeID keeps only letters, digits and underscores from member. When
// nothing survives, it falls back to Member_<position> (1-based).
func NodeID(member string, position int) string {
	id := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, member)
	if id == "" {
		id = fmt.Sprintf("Member_%d", position)
	}
	return id
}

// uniqueID suffixes id until it no longer collides with a used identifier.
func uniqueID(id string, used map[string]bool) string {
	candidate := id
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s_%d", id, n)
	}
	used[candidate] = true
	return candidate
}

// Path walks the edges from Start and returns the visited node IDs.
func (g *Graph) Path() []string {
	next := make(map[string]string, len(g.Edges))
	for _, e := range g.Edges {
		next[e.From] = e.To
	}

	path := []string{StartID}
	seen := map[string]bool{StartID: true}
	for cur := StartID; ; {
		to, ok := next[cur]
		if !ok || seen[to] {
			break
		}
		path = append(path, to)
		seen[to] = true
		cur = to
	}
	return path
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
