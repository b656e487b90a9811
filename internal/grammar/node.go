package grammar

import (
	"fmt"
	"strings"
)

// Node is one actor's slice of a successful decode. Parent is a plain
// back-reference; the tree is owned root-down.
type Node struct {
	Parent   *Node
	Children []*Node
	Actor    Actor
	Begin    int
	End      int
	Depth    int

	words []Word
}

// Words returns the text of the words this node consumed.
func (n *Node) Words() []string {
	out := make([]string, 0, n.End-n.Begin)
	for _, w := range n.words[n.Begin:n.End] {
		out = append(out, w.Text)
	}
	return out
}

// TaggedWords returns the words this node consumed with their rule
// tags.
func (n *Node) TaggedWords() []Word {
	return n.words[n.Begin:n.End]
}

// Name returns the actor's lookup name, if any.
func (n *Node) Name() string { return n.Actor.Name() }

// Value evaluates the node by asking its actor what the matched words
// mean.
func (n *Node) Value() any { return n.Actor.Value(n) }

// ChildByName finds the first descendant whose actor carries name. The
// search descends into named children too, so nested rules do not hide
// their contents.
func (n *Node) ChildByName(name string) *Node {
	return n.childByName(name, false)
}

// ChildByNameShallow finds the first descendant whose actor carries
// name without descending into other named children, so each name
// resolves against its nearest scope.
func (n *Node) ChildByNameShallow(name string) *Node {
	return n.childByName(name, true)
}

func (n *Node) childByName(name string, shallow bool) *Node {
	for _, child := range n.Children {
		if child.Actor.Name() != "" {
			if child.Actor.Name() == name {
				return child
			}
			if shallow {
				continue
			}
		}
		if found := child.childByName(name, shallow); found != nil {
			return found
		}
	}
	return nil
}

// ChildrenByName collects every descendant whose actor carries name,
// in decode order.
func (n *Node) ChildrenByName(name string) []*Node {
	var out []*Node
	n.childrenByName(name, &out)
	return out
}

func (n *Node) childrenByName(name string, out *[]*Node) {
	for _, child := range n.Children {
		if child.Actor.Name() == name {
			*out = append(*out, child)
		}
		child.childrenByName(name, out)
	}
}

// HasChildWithName reports whether any descendant's actor carries name.
func (n *Node) HasChildWithName(name string) bool {
	return n.childByName(name, false) != nil
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", actorLabel(n.Actor), strings.Join(n.Words(), " "))
}

func actorLabel(a Actor) string {
	if a == nil {
		return "<nil>"
	}
	if a.Name() != "" {
		return a.Name()
	}
	return fmt.Sprintf("%T", a)
}
