package merge

import (
	"fmt"
	"strings"

	"github.com/dhamidi/splice/java/ast"
)

// Signature is the identity used to pair base and candidate declarations.
type Signature string

func ImportSignature(imp *ast.Node) Signature {
	name := imp.Name
	if imp.Flags.Has(ast.FlagOnDemand) {
		name += ".*"
	}
	if imp.IsStatic() {
		name = "static " + name
	}
	return Signature(name)
}

// MethodSignature is the method name followed by its parameter types.
// The return type is not part of it, so a method whose return type
// changed still pairs with its old version.
func MethodSignature(method *ast.Node) Signature {
	params := method.Parameters()
	types := make([]string, len(params))
	for i, param := range params {
		types[i] = parameterType(param)
	}
	return Signature(method.Name + "(" + strings.Join(types, ",") + ")")
}

func parameterType(param *ast.Node) string {
	var text string
	if ref := param.TypeRef(); ref != nil {
		text = ref.Text
	}
	if param.Flags.Has(ast.FlagVarargs) {
		text += "..."
	}
	return text
}

type State int

const (
	OnlyBase State = iota
	OnlyCandidate
	Both
)

func (s State) String() string {
	switch s {
	case OnlyBase:
		return "base"
	case OnlyCandidate:
		return "candidate"
	}
	return "both"
}

// Pair holds the base and candidate declarations sharing one signature.
// For fields the nodes are the declarations holding the fragment.
type Pair struct {
	Signature Signature
	Base      *ast.Node
	Candidate *ast.Node
}

func (p Pair) State() State {
	switch {
	case p.Base == nil:
		return OnlyCandidate
	case p.Candidate == nil:
		return OnlyBase
	}
	return Both
}

type Matching struct {
	BaseType      *ast.Node
	CandidateType *ast.Node

	Imports []Pair
	Fields  []Pair
	Methods []Pair
	Types   []Pair
}

// Match pairs the declarations of two compilation units.
func Match(base, candidate *ast.Node) (*Matching, error) {
	return (&Context{Base: base, Candidate: candidate}).Match()
}

func (c *Context) Match() (*Matching, error) {
	baseType, err := singleType("base", c.Base)
	if err != nil {
		return nil, err
	}
	candidateType, err := singleType("candidate", c.Candidate)
	if err != nil {
		return nil, err
	}

	return &Matching{
		BaseType:      baseType,
		CandidateType: candidateType,
		Imports:       c.pair("imports", importKeys(c.Base), importKeys(c.Candidate)),
		Fields:        c.pair("fields", fieldKeys(baseType), fieldKeys(candidateType)),
		Methods:       c.pair("methods", methodKeys(baseType), methodKeys(candidateType)),
		Types:         c.pair("types", typeKeys(baseType), typeKeys(candidateType)),
	}, nil
}

func singleType(side string, unit *ast.Node) (*ast.Node, error) {
	if unit == nil || unit.Kind != ast.KindCompilationUnit {
		return nil, &ShapeError{Side: side}
	}
	types := unit.Types()
	if len(types) != 1 {
		return nil, &ShapeError{Side: side, Types: len(types)}
	}
	return types[0], nil
}

type keyedNode struct {
	sig  Signature
	node *ast.Node
}

func importKeys(unit *ast.Node) []keyedNode {
	var result []keyedNode
	for _, imp := range unit.Imports() {
		result = append(result, keyedNode{ImportSignature(imp), imp})
	}
	return result
}

// fieldKeys yields one entry per fragment, keyed by its name and pointing
// at the whole declaration.
func fieldKeys(typ *ast.Node) []keyedNode {
	var result []keyedNode
	for _, field := range typ.Fields() {
		for _, frag := range field.Fragments() {
			result = append(result, keyedNode{Signature(frag.Name), field})
		}
	}
	return result
}

func methodKeys(typ *ast.Node) []keyedNode {
	var result []keyedNode
	for _, method := range typ.Methods() {
		result = append(result, keyedNode{MethodSignature(method), method})
	}
	return result
}

func typeKeys(typ *ast.Node) []keyedNode {
	var result []keyedNode
	for _, inner := range typ.InnerTypes() {
		result = append(result, keyedNode{Signature(inner.Name), inner})
	}
	return result
}

func (c *Context) pair(category string, base, candidate []keyedNode) []Pair {
	return pairUp(c.index("base "+category, base), c.index("candidate "+category, candidate))
}

type signatureIndex struct {
	order []Signature
	nodes map[Signature]*ast.Node
}

// index keeps the first position of every signature and the last node
// declared with it.
func (c *Context) index(category string, entries []keyedNode) signatureIndex {
	idx := signatureIndex{nodes: make(map[Signature]*ast.Node)}
	for _, e := range entries {
		prev, seen := idx.nodes[e.sig]
		switch {
		case !seen:
			idx.order = append(idx.order, e.sig)
		case prev != e.node:
			c.logger().Debugf("%s", fmt.Errorf("%w in %s: %s", ErrSignatureCollision, category, e.sig))
		}
		idx.nodes[e.sig] = e.node
	}
	return idx
}

// pairUp lists candidate signatures in candidate order, then signatures
// only the base declares, in base order.
func pairUp(base, candidate signatureIndex) []Pair {
	var result []Pair
	for _, sig := range candidate.order {
		result = append(result, Pair{Signature: sig, Base: base.nodes[sig], Candidate: candidate.nodes[sig]})
	}
	for _, sig := range base.order {
		if _, ok := candidate.nodes[sig]; !ok {
			result = append(result, Pair{Signature: sig, Base: base.nodes[sig]})
		}
	}
	return result
}
