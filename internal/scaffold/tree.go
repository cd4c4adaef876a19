// Package scaffold builds a starter project tree from task assignments and
// packages it as a zip archive.
package scaffold

import (
	"fmt"
	"path"
)

// Kind tags a tree node as a file or a directory.
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "unknown"
	}
}

// Node is either a File holding content or a Directory holding ordered,
// uniquely named children. A tree owns its nodes; nodes are never shared.
type Node struct {
	Kind    Kind
	Content string

	names    []string
	children map[string]*Node
}

// File returns a file node with the given content.
func File(content string) *Node {
	return &Node{Kind: KindFile, Content: content}
}

// Dir returns an empty directory node.
func Dir() *Node {
	return &Node{Kind: KindDir, children: make(map[string]*Node)}
}

// Put adds child under name. An existing child with the same name is
// replaced in place, keeping its position.
func (n *Node) Put(name string, child *Node) *Node {
	if n.Kind != KindDir {
		panic(fmt.Sprintf("scaffold: Put(%q) on a file node", name))
	}
	if _, exists := n.children[name]; !exists {
		n.names = append(n.names, name)
	}
	n.children[name] = child
	return child
}

// Child returns the named child of a directory.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Names returns child names in insertion order.
func (n *Node) Names() []string {
	out := make([]string, len(n.names))
	copy(out, n.names)
	return out
}

// Walk visits every file below n in insertion order, passing its slash
// separated path relative to n.
func (n *Node) Walk(fn func(rel string, file *Node) error) error {
	return n.walk("", fn)
}

func (n *Node) walk(prefix string, fn func(string, *Node) error) error {
	for _, name := range n.names {
		child := n.children[name]
		rel := path.Join(prefix, name)
		if child.Kind == KindDir {
			if err := child.walk(rel, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(rel, child); err != nil {
			return err
		}
	}
	return nil
}

// Files returns the relative paths of every file below n.
func (n *Node) Files() []string {
	var out []string
	_ = n.Walk(func(rel string, _ *Node) error {
		out = append(out, rel)
		return nil
	})
	return out
}
