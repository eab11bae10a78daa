package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/splice/java/ast"
)

// Printer re-serializes a declaration tree. Declarations are laid out
// from their children with one indent level per nesting depth; method
// bodies, initializers, enum constants and Javadoc are copied from their
// source text and shifted to the new indentation.
type Printer struct {
	w         io.Writer
	buf       bytes.Buffer
	indent    int
	indentStr string
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indentStr: "    "}
}

// WithIndent sets the string written once per nesting level.
func (p *Printer) WithIndent(s string) *Printer {
	p.indentStr = s
	return p
}

func (p *Printer) Print(node *ast.Node) error {
	p.buf.Reset()
	p.indent = 0
	p.printNode(node)
	_, err := p.w.Write(p.buf.Bytes())
	return err
}

// Encode prints node, so a Printer can serve as the "java" encoder.
func (p *Printer) Encode(node *ast.Node) error {
	return p.Print(node)
}

// Print renders n with the default printer settings.
func Print(n *ast.Node) string {
	var sb strings.Builder
	NewPrinter(&sb).Print(n)
	return sb.String()
}

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) prefix() string {
	return strings.Repeat(p.indentStr, p.indent)
}

func (p *Printer) newline() {
	p.write("\n")
	p.write(p.prefix())
}

// snippet writes source text captured by the parser, moving every line
// after the first from the indentation it was written at to the current
// one.
func (p *Printer) snippet(text, from string) {
	to := p.prefix()
	if from == to || !strings.Contains(text, "\n") {
		p.write(text)
		return
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], from) {
			lines[i] = to + lines[i][len(from):]
		}
	}
	p.write(strings.Join(lines, "\n"))
}

func (p *Printer) printNode(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindCompilationUnit:
		p.printCompilationUnit(n)
	case ast.KindPackage:
		p.write("package " + n.Name + ";")
	case ast.KindImport:
		p.printImport(n)
	case ast.KindTypeDeclaration:
		p.printTypeDecl(n)
	case ast.KindFieldDeclaration:
		p.printFieldDecl(n)
	case ast.KindMethodDeclaration:
		p.printMethodDecl(n)
	case ast.KindParameter:
		p.printParameter(n)
	case ast.KindFragment:
		p.printFragment(n)
	case ast.KindModifier:
		p.write(n.Name)
	case ast.KindTypeRef:
		p.write(n.Text)
	case ast.KindJavadoc, ast.KindBlock:
		p.snippet(n.Text, n.Indent)
	default:
		p.snippet(n.Source, n.Indent)
	}
}

func (p *Printer) printCompilationUnit(n *ast.Node) {
	wrote := false
	section := func() {
		if wrote {
			p.write("\n\n")
		}
		wrote = true
	}

	if pkg := n.Package(); pkg != nil {
		section()
		p.printNode(pkg)
	}
	if imports := n.Imports(); len(imports) > 0 {
		section()
		for i, imp := range imports {
			if i > 0 {
				p.write("\n")
			}
			p.printImport(imp)
		}
	}
	for _, typ := range n.Types() {
		section()
		p.printTypeDecl(typ)
	}
	if wrote {
		p.write("\n")
	}
}

func (p *Printer) printImport(n *ast.Node) {
	p.write("import ")
	if n.IsStatic() {
		p.write("static ")
	}
	p.write(n.Name)
	if n.Flags.Has(ast.FlagOnDemand) {
		p.write(".*")
	}
	p.write(";")
}

// printHead writes the Javadoc and modifiers of a declaration. Leading
// annotations go on their own lines; everything else is separated by a
// space.
func (p *Printer) printHead(n *ast.Node) {
	if doc := n.FirstChildOfKind(ast.KindJavadoc); doc != nil {
		p.printNode(doc)
		p.newline()
	}
	leading := true
	for _, mod := range n.ChildrenOfKind(ast.KindModifier) {
		p.write(mod.Name)
		if leading && mod.Flags.Has(ast.FlagAnnotation) {
			p.newline()
			continue
		}
		leading = false
		p.write(" ")
	}
}

func (p *Printer) printTypeDecl(n *ast.Node) {
	p.printHead(n)
	p.write(n.Keyword + " " + n.Name + n.TypeParams)
	if n.Clauses != "" {
		if !strings.HasPrefix(n.Clauses, "(") {
			p.write(" ")
		}
		p.write(n.Clauses)
	}
	p.write(" {")

	p.indent++
	constants := n.ChildrenOfKind(ast.KindEnumConstant)
	for i, c := range constants {
		p.newline()
		p.printNode(c)
		if i < len(constants)-1 {
			p.write(",")
		}
	}

	var prev *ast.Node
	for _, member := range n.Members() {
		if member.Kind == ast.KindEnumConstant {
			continue
		}
		switch {
		case prev == nil && n.Keyword == "enum":
			if len(constants) == 0 {
				p.newline()
			}
			p.write(";\n")
		case prev != nil && !(prev.Kind == ast.KindFieldDeclaration && member.Kind == ast.KindFieldDeclaration):
			p.write("\n")
		}
		p.newline()
		p.printNode(member)
		prev = member
	}
	p.indent--

	p.newline()
	p.write("}")
}

func (p *Printer) printFieldDecl(n *ast.Node) {
	p.printHead(n)
	p.printNode(n.TypeRef())
	for i, frag := range n.Fragments() {
		if i == 0 {
			p.write(" ")
		} else {
			p.write(", ")
		}
		p.printFragment(frag)
	}
	p.write(";")
}

func (p *Printer) printFragment(n *ast.Node) {
	p.write(n.Name)
	if n.Text != "" {
		p.write(" = ")
		p.snippet(n.Text, n.Indent)
	}
}

func (p *Printer) printMethodDecl(n *ast.Node) {
	p.printHead(n)
	if n.TypeParams != "" {
		p.write(n.TypeParams + " ")
	}
	if ret := n.ReturnType(); ret != nil {
		p.printNode(ret)
		p.write(" ")
	}
	p.write(n.Name)
	if !compactConstructor(n) {
		p.write("(")
		for i, param := range n.Parameters() {
			if i > 0 {
				p.write(", ")
			}
			p.printParameter(param)
		}
		p.write(")")
	}
	if n.Clauses != "" {
		p.write(" " + n.Clauses)
	}
	if body := n.BodyBlock(); body != nil {
		p.write(" ")
		p.printNode(body)
		return
	}
	p.write(";")
}

// compactConstructor reports whether n is a record constructor declared
// without a parameter list.
func compactConstructor(n *ast.Node) bool {
	if !n.IsConstructor() || len(n.Parameters()) > 0 || n.Source == "" {
		return false
	}
	head := n.Source
	if i := strings.Index(head, "{"); i >= 0 {
		head = head[:i]
	}
	if i := strings.LastIndex(head, n.Name); i >= 0 {
		head = head[i+len(n.Name):]
	}
	return !strings.Contains(head, "(")
}

func (p *Printer) printParameter(n *ast.Node) {
	for _, mod := range n.ChildrenOfKind(ast.KindModifier) {
		p.write(mod.Name + " ")
	}
	p.printNode(n.FirstChildOfKind(ast.KindTypeRef))
	if n.Flags.Has(ast.FlagVarargs) {
		p.write("...")
	}
	p.write(" " + n.Name)
}
