package merge

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dhamidi/splice/edit"
	"github.com/dhamidi/splice/java/ast"
)

// Synthesize turns decisions into edits against ctx.Source. Imports and
// appended members are each emitted as one block, and insertions sharing
// an anchor are joined in decision order. The result never contains two
// overlapping edits; overlap is reported as ErrInvariantViolation.
// Inserted text uses the line ending of the base source.
func Synthesize(ctx *Context, decisions []Decision) ([]edit.Edit, error) {
	s := &synthesizer{ctx: ctx, src: ctx.Source, eol: lineEnding(ctx.Source)}

	var (
		edits            []edit.Edit
		imports, members []Decision
		importsAt        = -1
		membersAt        = -1
	)
	for _, d := range decisions {
		switch {
		case d.Action == Leave:
		case d.Action == Insert && d.Target == TargetImport:
			if importsAt < 0 {
				importsAt = len(edits)
				edits = append(edits, edit.Edit{})
			}
			imports = append(imports, d)
		case d.Action == Insert && d.Target.isMember():
			if membersAt < 0 {
				membersAt = len(edits)
				edits = append(edits, edit.Edit{})
			}
			members = append(members, d)
		default:
			e, err := s.edit(d)
			if err != nil {
				return nil, err
			}
			edits = append(edits, e)
		}
	}
	if importsAt >= 0 {
		edits[importsAt] = s.importBlock(imports)
	}
	if membersAt >= 0 {
		edits[membersAt] = s.memberBlock(members)
	}

	edits = coalesce(edits)
	for i := range edits {
		edits[i].Text = s.lineEndings(edits[i].Text)
	}
	if err := edit.Validate(edits); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	}
	ctx.logger().Debugf("synthesized %d edits from %d decisions", len(edits), len(decisions))
	return edits, nil
}

type synthesizer struct {
	ctx *Context
	src []byte
	eol string
	// inserted counts modifier insertions so far, to pick separators.
	inserted int
}

func (s *synthesizer) edit(d Decision) (edit.Edit, error) {
	switch d.Target {
	case TargetJavadoc:
		return s.javadoc(d), nil
	case TargetModifier:
		return s.modifier(d)
	case TargetReturnType, TargetParameter:
		if d.Action != Replace || d.Base == nil || d.Base.Detached() {
			return edit.Edit{}, s.invalid(d)
		}
		return edit.Replace(d.Base.Span.Start, d.Base.Span.End, d.Node.Source), nil
	case TargetBody:
		return s.body(d)
	}
	return edit.Edit{}, s.invalid(d)
}

func (s *synthesizer) invalid(d Decision) error {
	return fmt.Errorf("%w: cannot synthesize %s", ErrInvariantViolation, d)
}

func (s *synthesizer) javadoc(d Decision) edit.Edit {
	typ := d.Owner
	if d.Base != nil {
		text := reindent(d.Node.Source, d.Node.Indent, d.Base.Indent)
		return edit.Replace(d.Base.Span.Start, d.Base.Span.End, text)
	}
	text := reindent(d.Node.Source, d.Node.Indent, typ.Indent) + "\n" + typ.Indent
	return edit.Insert(typ.Span.Start, text)
}

// modifier removes a base modifier together with the separator that
// follows it, or inserts a candidate modifier followed by the separator
// the base used at that position. Replacing a list by itself therefore
// reproduces the original text.
func (s *synthesizer) modifier(d Decision) (edit.Edit, error) {
	typ := d.Owner
	mods := typ.Modifiers()

	if d.Action == Remove {
		k := indexOfModifier(mods, d.Base)
		if k < 0 {
			return edit.Edit{}, s.invalid(d)
		}
		return edit.Remove(d.Base.Span.Start, s.modifierEnd(typ, mods, k)), nil
	}

	anchor := typ.KeywordAt
	if len(mods) > 0 {
		anchor = mods[0].Span.Start
	}
	if anchor < 0 {
		return edit.Edit{}, s.invalid(d)
	}

	j := s.inserted
	s.inserted++
	sep := " "
	if j < len(mods) && mods[j].Flags.Has(ast.FlagAnnotation) == d.Node.Flags.Has(ast.FlagAnnotation) {
		sep = string(s.src[mods[j].Span.End:s.modifierEnd(typ, mods, j)])
	} else if d.Node.Flags.Has(ast.FlagAnnotation) {
		sep = "\n" + typ.Indent
	}
	return edit.Insert(anchor, d.Node.Source+sep), nil
}

// modifierEnd is where the separator after mods[k] ends: at the next
// modifier, or at the type keyword.
func (s *synthesizer) modifierEnd(typ *ast.Node, mods []*ast.Node, k int) int {
	if k+1 < len(mods) {
		return mods[k+1].Span.Start
	}
	return typ.KeywordAt
}

func indexOfModifier(mods []*ast.Node, mod *ast.Node) int {
	for i, m := range mods {
		if m == mod {
			return i
		}
	}
	return -1
}

// body replaces a method body. A bare ';' gives way to the whole block.
func (s *synthesizer) body(d Decision) (edit.Edit, error) {
	method := d.Owner
	if d.Base != nil {
		text := reindent(d.Node.Source, d.Node.Indent, d.Base.Indent)
		return edit.Replace(d.Base.Span.Start, d.Base.Span.End, text), nil
	}
	if !method.Body.Valid() {
		return edit.Edit{}, s.invalid(d)
	}
	text := reindent(d.Node.Source, d.Node.Indent, method.Indent)
	if start := method.Body.Start; start > 0 && !isBlank(s.src[start-1]) {
		text = " " + text
	}
	return edit.Replace(method.Body.Start, method.Body.End, text), nil
}

// importBlock places new imports after the last base import, after the
// package declaration, or ahead of the type when there is neither.
func (s *synthesizer) importBlock(ds []Decision) edit.Edit {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.Node.Source
	}
	block := strings.Join(lines, "\n")

	unit := s.ctx.Base
	if imports := unit.Imports(); len(imports) > 0 {
		return edit.Insert(s.lineCommentEnd(imports[len(imports)-1].Span.End), "\n"+block)
	}
	if pkg := unit.Package(); pkg != nil {
		return edit.Insert(s.lineCommentEnd(pkg.Span.End), "\n\n"+block)
	}
	start := 0
	if types := unit.Types(); len(types) > 0 {
		start = types[0].Span.Start
	}
	return edit.Insert(start, block+"\n\n")
}

// memberBlock appends members at the end of the type body. Fields are
// separated by a line break, methods and types by a blank line.
func (s *synthesizer) memberBlock(ds []Decision) edit.Edit {
	typ := ds[0].Owner
	indent := s.memberIndent(typ)

	var sb strings.Builder
	for _, d := range ds {
		sep := "\n\n"
		if d.Target == TargetField {
			sep = "\n"
		}
		sb.WriteString(sep + indent + reindent(d.Node.Source, d.Node.Indent, indent))
	}
	text := sb.String()

	members := typ.Members()
	if len(members) == 0 {
		if typ.Keyword == "enum" {
			text = "\n" + indent + ";" + text
		}
		open, closing := typ.Body.Start+1, typ.Body.End-1
		text += "\n" + typ.Indent
		if strings.TrimSpace(string(s.src[open:closing])) == "" {
			return edit.Replace(open, closing, text)
		}
		return edit.Insert(open, text)
	}

	last := members[len(members)-1]
	if typ.Keyword == "enum" && last.Kind == ast.KindEnumConstant {
		anchor, terminated := s.enumConstantsEnd(last)
		if !terminated {
			text = ";" + text
		} else {
			anchor = s.lineCommentEnd(anchor)
		}
		return edit.Insert(anchor, text)
	}
	return edit.Insert(s.lineCommentEnd(last.Span.End), text)
}

// lineCommentEnd moves end past comments that follow it on the same
// line, so they stay with the declaration they annotate.
func (s *synthesizer) lineCommentEnd(end int) int {
	i := end
	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t') {
		i++
	}
	rest := s.src[i:]
	switch {
	case bytes.HasPrefix(rest, []byte("//")):
		if nl := bytes.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		return i + len(bytes.TrimRight(rest, " \t\r"))
	case bytes.HasPrefix(rest, []byte("/*")):
		stop := bytes.Index(rest[2:], []byte("*/"))
		if stop < 0 || bytes.IndexByte(rest[:stop+2], '\n') >= 0 {
			return end
		}
		after := i + stop + 4
		if next := s.lineCommentEnd(after); next != after {
			return next
		}
		if s.atLineEnd(after) {
			return after
		}
	}
	return end
}

func (s *synthesizer) atLineEnd(i int) bool {
	for ; i < len(s.src); i++ {
		switch s.src[i] {
		case ' ', '\t':
		case '\r', '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// lineEndings rewrites the line breaks of text to the base's.
func (s *synthesizer) lineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if s.eol == "\n" {
		return text
	}
	return strings.ReplaceAll(text, "\n", s.eol)
}

// lineEnding reports the line break used by the first line of src.
func lineEnding(src []byte) string {
	if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// enumConstantsEnd finds the end of an enum constant list: just past its
// ';' when there is one, otherwise past the last constant or its trailing
// comma.
func (s *synthesizer) enumConstantsEnd(last *ast.Node) (int, bool) {
	end := last.Span.End
	for i := end; i < len(s.src); i++ {
		switch c := s.src[i]; {
		case c == ';':
			return i + 1, true
		case c == ',':
			end = i + 1
		case isBlank(c):
		default:
			return end, false
		}
	}
	return end, false
}

func (s *synthesizer) memberIndent(typ *ast.Node) string {
	for _, member := range typ.Members() {
		if member.Indent != typ.Indent {
			return member.Indent
		}
	}
	if strings.Contains(typ.Indent, "\t") {
		return typ.Indent + "\t"
	}
	return typ.Indent + "    "
}

// reindent moves every line after the first from one indentation to
// another. The first line is placed by the caller.
func reindent(text, from, to string) string {
	if from == to || !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], from) {
			lines[i] = to + lines[i][len(from):]
		}
	}
	return strings.Join(lines, "\n")
}

// coalesce joins insertions at the same offset into one edit, keeping
// their order.
func coalesce(edits []edit.Edit) []edit.Edit {
	var out []edit.Edit
	inserts := make(map[int]int)
	for _, e := range edits {
		if e.IsInsert() {
			if e.Text == "" {
				continue
			}
			if i, ok := inserts[e.Start]; ok {
				out[i].Text += e.Text
				continue
			}
			inserts[e.Start] = len(out)
		}
		out = append(out, e)
	}
	return out
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
