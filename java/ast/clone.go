package ast

// Clone returns a deep copy of n that shares nothing with the tree n
// belongs to. Spans and anchors are cleared on every copied node, since
// they are only meaningful in the source n was parsed from; Source and
// Indent are kept so the copy can still be rendered as written.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := copyNode(n, nil)
	Walk(c, func(node *Node) bool {
		node.Span = NoSpan
		node.Body = NoSpan
		node.KeywordAt = -1
		return true
	})
	return c
}

// Duplicate copies a tree keeping spans, and returns the mapping from
// original nodes to their copies.
func Duplicate(n *Node) (*Node, map[*Node]*Node) {
	mapping := make(map[*Node]*Node)
	if n == nil {
		return nil, mapping
	}
	return copyNode(n, mapping), mapping
}

func copyNode(n *Node, mapping map[*Node]*Node) *Node {
	c := *n
	c.Children = nil
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = copyNode(child, mapping)
		}
	}
	if mapping != nil {
		mapping[n] = &c
	}
	return &c
}

// Walk visits n and its descendants in pre-order. Returning false from
// fn skips the children of the visited node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// PathTo returns the chain of nodes from root down to target, inclusive,
// or nil when target is not part of the tree.
func PathTo(root, target *Node) []*Node {
	if root == nil || target == nil {
		return nil
	}
	if root == target {
		return []*Node{root}
	}
	for _, child := range root.Children {
		if path := PathTo(child, target); path != nil {
			return append([]*Node{root}, path...)
		}
	}
	return nil
}

// Parent returns the node whose children include target.
func Parent(root, target *Node) *Node {
	path := PathTo(root, target)
	if len(path) < 2 {
		return nil
	}
	return path[len(path)-2]
}

// DeclaringType returns the innermost type declaration enclosing target.
func DeclaringType(root, target *Node) *Node {
	path := PathTo(root, target)
	for i := len(path) - 2; i >= 0; i-- {
		if path[i].Kind == KindTypeDeclaration {
			return path[i]
		}
	}
	return nil
}
