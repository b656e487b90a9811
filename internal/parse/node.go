package parse

// Node is one element's slice of a successful parse. Parent is a plain
// back-reference; the tree is owned root-down.
type Node struct {
	Parent   *Node
	Children []*Node
	Actor    Element
	Begin    int
	End      int
	Depth    int

	data         []rune
	successValue any
}

// Match returns the input text this node consumed.
func (n *Node) Match() string {
	return string(n.data[n.Begin:n.End])
}

// Value evaluates the node: an explicit success value wins, otherwise the
// actor decides what the matched text means.
func (n *Node) Value() any {
	if n.successValue != nil {
		return n.successValue
	}
	return n.Actor.Value(n)
}

// ChildByName finds the first descendant whose actor carries name. The
// search is shallow: it does not descend into named children, so each
// name resolves against its nearest scope.
func (n *Node) ChildByName(name string) *Node {
	for _, child := range n.Children {
		if child.Actor.Name() == name {
			return child
		}
		if child.Actor.Name() != "" {
			continue
		}
		if found := child.ChildByName(name); found != nil {
			return found
		}
	}
	return nil
}

// ChildrenByName collects every shallow descendant whose actor carries
// name, in match order.
func (n *Node) ChildrenByName(name string) []*Node {
	var found []*Node
	for _, child := range n.Children {
		if child.Actor.Name() == name {
			found = append(found, child)
		}
		if child.Actor.Name() != "" {
			continue
		}
		found = append(found, child.ChildrenByName(name)...)
	}
	return found
}
