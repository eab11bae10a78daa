package ast

import "fmt"

// KindError is the panic value of an accessor called on the wrong kind of
// node. It signals a programming error, not bad input.
type KindError struct {
	Accessor string
	Want     []Kind
	Got      Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("ast: %s called on %s node (want %v)", e.Accessor, e.Got, e.Want)
}

func (n *Node) expect(accessor string, kinds ...Kind) {
	for _, k := range kinds {
		if n.Kind == k {
			return
		}
	}
	panic(&KindError{Accessor: accessor, Want: kinds, Got: n.Kind})
}

func (n *Node) Package() *Node {
	n.expect("Package", KindCompilationUnit)
	return n.FirstChildOfKind(KindPackage)
}

func (n *Node) Imports() []*Node {
	n.expect("Imports", KindCompilationUnit)
	return n.ChildrenOfKind(KindImport)
}

// Types returns the top-level type declarations of a compilation unit.
func (n *Node) Types() []*Node {
	n.expect("Types", KindCompilationUnit)
	return n.ChildrenOfKind(KindTypeDeclaration)
}

func (n *Node) Javadoc() *Node {
	n.expect("Javadoc", KindTypeDeclaration, KindFieldDeclaration, KindMethodDeclaration, KindEnumConstant)
	return n.FirstChildOfKind(KindJavadoc)
}

func (n *Node) Modifiers() []*Node {
	n.expect("Modifiers", KindTypeDeclaration, KindFieldDeclaration, KindMethodDeclaration, KindParameter, KindInitializer, KindEnumConstant)
	return n.ChildrenOfKind(KindModifier)
}

// Members returns the body declarations of a type in source order.
func (n *Node) Members() []*Node {
	n.expect("Members", KindTypeDeclaration)
	var result []*Node
	for _, child := range n.Children {
		if child.Kind.IsMember() {
			result = append(result, child)
		}
	}
	return result
}

func (n *Node) Fields() []*Node {
	n.expect("Fields", KindTypeDeclaration)
	return n.ChildrenOfKind(KindFieldDeclaration)
}

func (n *Node) Methods() []*Node {
	n.expect("Methods", KindTypeDeclaration)
	return n.ChildrenOfKind(KindMethodDeclaration)
}

func (n *Node) InnerTypes() []*Node {
	n.expect("InnerTypes", KindTypeDeclaration)
	return n.ChildrenOfKind(KindTypeDeclaration)
}

func (n *Node) Fragments() []*Node {
	n.expect("Fragments", KindFieldDeclaration)
	return n.ChildrenOfKind(KindFragment)
}

// TypeRef returns the declared type of a field or parameter.
func (n *Node) TypeRef() *Node {
	n.expect("TypeRef", KindFieldDeclaration, KindParameter)
	return n.FirstChildOfKind(KindTypeRef)
}

// ReturnType is nil for constructors.
func (n *Node) ReturnType() *Node {
	n.expect("ReturnType", KindMethodDeclaration)
	return n.FirstChildOfKind(KindTypeRef)
}

func (n *Node) Parameters() []*Node {
	n.expect("Parameters", KindMethodDeclaration)
	return n.ChildrenOfKind(KindParameter)
}

// BodyBlock is nil for abstract, interface and native methods.
func (n *Node) BodyBlock() *Node {
	n.expect("BodyBlock", KindMethodDeclaration, KindInitializer)
	return n.FirstChildOfKind(KindBlock)
}
