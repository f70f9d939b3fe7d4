package engine

import (
	"path/filepath"
	"strings"
)

// Node is one destination path segment. Op is nil for placeholder segments
// that no operation targets; those impose no ordering of their own.
type Node struct {
	Op       *Operation
	Children []*Node

	byName map[string]*Node
	name   string
}

// BuildTree arranges ops by destination path so that every operation sits
// below the operation, if any, that creates its parent directory. Children
// keep the order of ops.
func BuildTree(ops []Operation) *Node {
	root := &Node{}
	for i := range ops {
		n := root
		for _, seg := range segments(ops[i].Dest) {
			n = n.child(seg)
		}
		n.Op = &ops[i]
	}
	return root
}

func (n *Node) child(name string) *Node {
	if c, ok := n.byName[name]; ok {
		return c
	}
	if n.byName == nil {
		n.byName = make(map[string]*Node)
	}
	c := &Node{name: name}
	n.byName[name] = c
	n.Children = append(n.Children, c)
	return c
}

// Flatten returns the tree's operations in pre-order.
func (n *Node) Flatten() []Operation {
	var out []Operation
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Op != nil {
			out = append(out, *n.Op)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// segments splits an absolute path into its root and name components.
func segments(p string) []string {
	p = filepath.Clean(p)
	vol := filepath.VolumeName(p)
	rest := p[len(vol):]

	var segs []string
	if strings.HasPrefix(rest, string(filepath.Separator)) {
		segs = append(segs, vol+string(filepath.Separator))
		rest = rest[1:]
	} else if vol != "" {
		segs = append(segs, vol)
	}
	if rest == "" {
		return segs
	}
	return append(segs, strings.Split(rest, string(filepath.Separator))...)
}
