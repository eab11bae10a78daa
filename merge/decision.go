package merge

import (
	"fmt"
	"strings"

	"github.com/dhamidi/splice/java/ast"
)

type Action int

const (
	Leave Action = iota
	Insert
	Replace
	Remove
)

func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Replace:
		return "replace"
	case Remove:
		return "remove"
	}
	return "leave"
}

// Target names what a decision changes.
type Target int

const (
	TargetImport Target = iota
	TargetJavadoc
	TargetModifier
	TargetField
	TargetMethod
	TargetReturnType
	TargetBody
	TargetParameter
	TargetType
	TargetInitializer
	TargetEnumConstant
)

var targetNames = map[Target]string{
	TargetImport:       "import",
	TargetJavadoc:      "javadoc",
	TargetModifier:     "modifier",
	TargetField:        "field",
	TargetMethod:       "method",
	TargetReturnType:   "return-type",
	TargetBody:         "body",
	TargetParameter:    "parameter",
	TargetType:         "type",
	TargetInitializer:  "initializer",
	TargetEnumConstant: "enum-constant",
}

func (t Target) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	return "unknown"
}

// isMember reports whether inserting the target appends to a type body.
func (t Target) isMember() bool {
	return t == TargetField || t == TargetMethod || t == TargetType
}

// Decision is one reconciliation step, not yet turned into text.
type Decision struct {
	Action    Action
	Target    Target
	Signature Signature
	// Owner is the base node the change happens in: the compilation unit
	// for imports, the type for members, the method for its parts.
	Owner *ast.Node
	// Base is the base node replaced, removed or left alone. It is nil
	// for insertions, and for a body replacing a bare ';'.
	Base *ast.Node
	// Node is a detached clone of the candidate node.
	Node *ast.Node
	// Index is the position of a replaced parameter.
	Index int
}

func (d Decision) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", d.Action, d.Target)
	if d.Signature != "" {
		fmt.Fprintf(&sb, " %s", d.Signature)
	}
	if d.Base != nil {
		fmt.Fprintf(&sb, " %s", d.Base.Span)
	}
	return sb.String()
}

// Record is the serializable view of a decision.
type Record struct {
	Action    string `json:"action" yaml:"action"`
	Target    string `json:"target" yaml:"target"`
	Signature string `json:"signature,omitempty" yaml:"signature,omitempty"`
	Span      string `json:"span,omitempty" yaml:"span,omitempty"`
	Text      string `json:"text,omitempty" yaml:"text,omitempty"`
}

func (d Decision) Record() Record {
	r := Record{
		Action:    d.Action.String(),
		Target:    d.Target.String(),
		Signature: string(d.Signature),
	}
	switch {
	case d.Base != nil:
		r.Span = d.Base.Span.String()
	case d.Action == Replace && d.Owner != nil:
		r.Span = d.Owner.Body.String()
	}
	if d.Node != nil {
		r.Text = d.Node.Source
	}
	return r
}

func Records(decisions []Decision) []Record {
	records := make([]Record, len(decisions))
	for i, d := range decisions {
		records[i] = d.Record()
	}
	return records
}
