package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/splice/java/ast"
)

// LineEncoder writes one tab-separated line per declaration, for
// grepping and diffing declaration sets.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(node *ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(node *ast.Node) ([]byte, error) {
	var sb strings.Builder
	switch node.Kind {
	case ast.KindCompilationUnit:
		if pkg := node.Package(); pkg != nil {
			fmt.Fprintf(&sb, "package\t%s\n", pkg.Name)
		}
		for _, imp := range node.Imports() {
			fmt.Fprintf(&sb, "import\t%s\t%s\n", imp.Name, imp.Flags)
		}
		for _, typ := range node.Types() {
			e.writeType(&sb, typ, "")
		}
	case ast.KindTypeDeclaration:
		e.writeType(&sb, node, "")
	default:
		return nil, fmt.Errorf("line encoder: cannot encode %s node", node.Kind)
	}
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeType(sb *strings.Builder, typ *ast.Node, outer string) {
	name := typ.Name
	if outer != "" {
		name = outer + "." + name
	}
	fmt.Fprintf(sb, "%s\t%s\t%s\n", typ.Keyword, name, modifierList(typ))

	for _, member := range typ.Members() {
		switch member.Kind {
		case ast.KindEnumConstant:
			fmt.Fprintf(sb, "constant\t%s\t%s\n", name, member.Name)
		case ast.KindFieldDeclaration:
			var names []string
			for _, frag := range member.Fragments() {
				names = append(names, frag.Name)
			}
			fmt.Fprintf(sb, "field\t%s\t%s\t%s\t%s\n",
				name,
				strings.Join(names, ","),
				typeText(member.TypeRef()),
				modifierList(member),
			)
		case ast.KindMethodDeclaration:
			kind := "method"
			if member.IsConstructor() {
				kind = "constructor"
			}
			fmt.Fprintf(sb, "%s\t%s\t%s\t%s\t(%s)\t%s\n",
				kind,
				name,
				member.Name,
				typeText(member.ReturnType()),
				parameterList(member),
				modifierList(member),
			)
		case ast.KindInitializer:
			fmt.Fprintf(sb, "initializer\t%s\t%s\n", name, modifierList(member))
		case ast.KindTypeDeclaration:
			e.writeType(sb, member, name)
		}
	}
}

func typeText(ref *ast.Node) string {
	if ref == nil {
		return "-"
	}
	return ref.Text
}

func parameterList(method *ast.Node) string {
	var params []string
	for _, param := range method.Parameters() {
		t := typeText(param.TypeRef())
		if param.Flags.Has(ast.FlagVarargs) {
			t += "..."
		}
		params = append(params, t)
	}
	return strings.Join(params, ",")
}

func modifierList(n *ast.Node) string {
	var mods []string
	for _, mod := range n.Modifiers() {
		mods = append(mods, mod.Name)
	}
	if len(mods) == 0 {
		return "-"
	}
	return strings.Join(mods, " ")
}
