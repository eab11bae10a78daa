// Package format renders declaration trees: back to Java source, as
// JSON or YAML node dumps, as one line per declaration, and as unified
// diffs between two versions of a file.
package format

import (
	"io"

	"github.com/dhamidi/splice/java/ast"
)

type Encoder interface {
	Encode(node *ast.Node) error
}

// TextEncoder is an Encoder that can also render to memory.
type TextEncoder interface {
	Encoder
	MarshalText(node *ast.Node) ([]byte, error)
}

var (
	_ TextEncoder = (*ASTJSONEncoder)(nil)
	_ TextEncoder = (*LineEncoder)(nil)
	_ Encoder     = (*ASTYAMLEncoder)(nil)
	_ Encoder     = (*TreeEncoder)(nil)
	_ Encoder     = (*Printer)(nil)
)

// Encoders lists the names accepted by NewEncoder.
var Encoders = []string{"json", "yaml", "line", "tree", "java"}

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string, w io.Writer) (Encoder, bool) {
	switch name {
	case "json":
		return NewASTJSONEncoder(w), true
	case "yaml":
		return NewASTYAMLEncoder(w), true
	case "line":
		return NewLineEncoder(w), true
	case "tree":
		return NewTreeEncoder(w), true
	case "java":
		return NewPrinter(w), true
	}
	return nil, false
}

// TreeEncoder writes the indented kind/name outline of a tree.
type TreeEncoder struct {
	w         io.Writer
	positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

// WithPositions includes byte spans in the outline.
func (e *TreeEncoder) WithPositions() *TreeEncoder {
	e.positions = true
	return e
}

func (e *TreeEncoder) Encode(node *ast.Node) error {
	text := node.String()
	if e.positions {
		text = node.StringWithPositions()
	}
	_, err := io.WriteString(e.w, text)
	return err
}
