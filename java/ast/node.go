package ast

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindInvalid Kind = iota

	KindCompilationUnit
	KindPackage
	KindImport

	KindTypeDeclaration
	KindModifier
	KindJavadoc

	// Members
	KindFieldDeclaration
	KindFragment
	KindMethodDeclaration
	KindParameter
	KindInitializer
	KindEnumConstant

	KindTypeRef
	KindBlock
)

var kindNames = map[Kind]string{
	KindInvalid:           "Invalid",
	KindCompilationUnit:   "CompilationUnit",
	KindPackage:           "Package",
	KindImport:            "Import",
	KindTypeDeclaration:   "TypeDeclaration",
	KindModifier:          "Modifier",
	KindJavadoc:           "Javadoc",
	KindFieldDeclaration:  "FieldDeclaration",
	KindFragment:          "Fragment",
	KindMethodDeclaration: "MethodDeclaration",
	KindParameter:         "Parameter",
	KindInitializer:       "Initializer",
	KindEnumConstant:      "EnumConstant",
	KindTypeRef:           "TypeRef",
	KindBlock:             "Block",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsMember reports whether nodes of this kind live in a type body.
func (k Kind) IsMember() bool {
	switch k {
	case KindFieldDeclaration, KindMethodDeclaration, KindTypeDeclaration,
		KindInitializer, KindEnumConstant:
		return true
	}
	return false
}

type Flags uint32

const (
	FlagStatic Flags = 1 << iota
	FlagAbstract
	FlagFinal
	FlagPublic
	FlagProtected
	FlagPrivate
	FlagDefault
	FlagVarargs
	FlagConstructor
	FlagOnDemand
	FlagAnnotation
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagPublic, "public"},
	{FlagProtected, "protected"},
	{FlagPrivate, "private"},
	{FlagAbstract, "abstract"},
	{FlagStatic, "static"},
	{FlagFinal, "final"},
	{FlagDefault, "default"},
	{FlagVarargs, "varargs"},
	{FlagConstructor, "constructor"},
	{FlagOnDemand, "on-demand"},
	{FlagAnnotation, "annotation"},
}

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// FlagForModifier maps a modifier keyword to its flag, or 0.
func FlagForModifier(keyword string) Flags {
	switch keyword {
	case "static":
		return FlagStatic
	case "abstract":
		return FlagAbstract
	case "final":
		return FlagFinal
	case "public":
		return FlagPublic
	case "protected":
		return FlagProtected
	case "private":
		return FlagPrivate
	case "default":
		return FlagDefault
	}
	return 0
}

// Span is a half-open byte range [Start, End) into the document a node
// was parsed from.
type Span struct {
	Start int
	End   int
}

// NoSpan marks nodes that do not originate from the document being edited.
var NoSpan = Span{Start: -1, End: -1}

func (s Span) Valid() bool {
	return s.Start >= 0 && s.End >= s.Start
}

func (s Span) Len() int {
	if !s.Valid() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	if !s.Valid() {
		return "[-]"
	}
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

type Node struct {
	Kind     Kind
	Span     Span
	Children []*Node

	// Name is the identifier, qualified name, or modifier text.
	Name string
	// Text is the normalized type text for TypeRef, the raw initializer
	// for Fragment and the raw snippet for Block and Javadoc.
	Text  string
	Flags Flags

	Keyword    string
	TypeParams string
	Clauses    string
	Body       Span
	KeywordAt  int

	Source string
	Indent string
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) FirstChildOfKind(kind Kind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// IndexOf returns the position of child in n.Children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Detached reports whether the node has no span in a parsed document.
func (n *Node) Detached() bool {
	return !n.Span.Valid()
}

func (n *Node) IsStatic() bool {
	return n.Flags.Has(FlagStatic)
}

func (n *Node) IsConstructor() bool {
	return n.Flags.Has(FlagConstructor)
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, depth int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" ")
		sb.WriteString(n.Span.String())
	}
	if n.Keyword != "" {
		sb.WriteString(" " + n.Keyword)
	}
	if n.Name != "" {
		sb.WriteString(" " + n.Name)
	}
	if n.Kind == KindTypeRef && n.Text != "" {
		sb.WriteString(" " + n.Text)
	}
	if n.Flags != 0 {
		sb.WriteString(" (" + n.Flags.String() + ")")
	}
	sb.WriteString("\n")
	for _, child := range n.Children {
		child.writeIndent(sb, depth+1, showPositions)
	}
}
