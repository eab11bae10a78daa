package format

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/splice/java/ast"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node *ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *ast.Node) ([]byte, error) {
	return json.MarshalIndent(nodeView(node), "", "  ")
}

type ASTYAMLEncoder struct {
	w io.Writer
}

func NewASTYAMLEncoder(w io.Writer) *ASTYAMLEncoder {
	return &ASTYAMLEncoder{w: w}
}

func (e *ASTYAMLEncoder) Encode(node *ast.Node) error {
	enc := yaml.NewEncoder(e.w)
	enc.SetIndent(2)
	if err := enc.Encode(nodeView(node)); err != nil {
		return err
	}
	return enc.Close()
}

type astNode struct {
	Kind       string     `json:"kind" yaml:"kind"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Keyword    string     `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	TypeParams string     `json:"typeParams,omitempty" yaml:"typeParams,omitempty"`
	Clauses    string     `json:"clauses,omitempty" yaml:"clauses,omitempty"`
	Text       string     `json:"text,omitempty" yaml:"text,omitempty"`
	Flags      []string   `json:"flags,omitempty" yaml:"flags,omitempty,flow"`
	Span       *astSpan   `json:"span,omitempty" yaml:"span,omitempty,flow"`
	Children   []*astNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type astSpan struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

func nodeView(n *ast.Node) *astNode {
	if n == nil {
		return nil
	}
	v := &astNode{
		Kind:       n.Kind.String(),
		Name:       n.Name,
		Keyword:    n.Keyword,
		TypeParams: n.TypeParams,
		Clauses:    n.Clauses,
	}
	switch n.Kind {
	case ast.KindTypeRef, ast.KindFragment, ast.KindJavadoc:
		v.Text = n.Text
	}
	if n.Flags != 0 {
		v.Flags = splitFlags(n.Flags)
	}
	if !n.Detached() {
		v.Span = &astSpan{Start: n.Span.Start, End: n.Span.End}
	}
	for _, child := range n.Children {
		v.Children = append(v.Children, nodeView(child))
	}
	return v
}

func splitFlags(f ast.Flags) []string {
	var names []string
	for bit := ast.Flags(1); bit != 0 && bit <= f; bit <<= 1 {
		if f.Has(bit) {
			names = append(names, bit.String())
		}
	}
	return names
}
