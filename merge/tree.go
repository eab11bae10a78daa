package merge

import "github.com/dhamidi/splice/java/ast"

// BuildTree returns the merged tree: a copy of base with the decisions
// applied. Neither base nor the decision nodes are modified; inserted
// nodes are fresh clones and carry no spans.
func BuildTree(base *ast.Node, decisions []Decision) *ast.Node {
	tree, mapping := ast.Duplicate(base)

	for _, d := range decisions {
		if d.Action == Leave {
			continue
		}
		owner := mapping[d.Owner]
		if owner == nil {
			continue
		}

		switch d.Action {
		case Insert:
			node := ast.Clone(d.Node)
			switch d.Target {
			case TargetImport:
				insertAfterLast(owner, node, ast.KindImport, ast.KindPackage)
			case TargetJavadoc:
				insertAt(owner, 0, node)
			case TargetModifier:
				insertAfterLast(owner, node, ast.KindModifier, ast.KindJavadoc)
			default:
				owner.AddChild(node)
			}
		case Replace:
			node := ast.Clone(d.Node)
			if old := mapping[d.Base]; old != nil {
				if i := owner.IndexOf(old); i >= 0 {
					owner.Children[i] = node
					continue
				}
			}
			owner.AddChild(node)
		case Remove:
			if i := owner.IndexOf(mapping[d.Base]); i >= 0 {
				owner.Children = append(owner.Children[:i], owner.Children[i+1:]...)
			}
		}
	}
	return tree
}

// insertAfterLast puts node right after the last child of one of the
// given kinds, or first when there is none.
func insertAfterLast(parent, node *ast.Node, kinds ...ast.Kind) {
	at := 0
	for i, child := range parent.Children {
		for _, k := range kinds {
			if child.Kind == k {
				at = i + 1
			}
		}
	}
	insertAt(parent, at, node)
}

func insertAt(parent *ast.Node, i int, node *ast.Node) {
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[i+1:], parent.Children[i:])
	parent.Children[i] = node
}
