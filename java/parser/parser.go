package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/splice/java/ast"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

type Parser struct {
	file   string
	reader io.Reader
	input  []byte
	tokens []Token
	// docs maps a token index to the Javadoc comment written right before it.
	docs map[int]Token
	pos  int
	errs ErrorList
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a complete compilation unit held in memory.
func Parse(file string, src []byte) (*ast.Node, error) {
	return ParseCompilationUnit(bytes.NewReader(src), WithFile(file)).Finish()
}

// Finish reads the remaining input and returns the compilation unit. The
// tree is returned even when syntax errors were found, so callers can
// inspect what was recovered; the error is an ErrorList in that case.
func (p *Parser) Finish() (*ast.Node, error) {
	if p.input == nil {
		data, err := io.ReadAll(p.reader)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		p.input = data
	}
	p.tokenize()
	unit := p.parseCompilationUnit()
	return unit, p.errs.Err()
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.tokens = nil
	p.docs = nil
	p.pos = 0
	p.errs = nil
}

func (p *Parser) tokenize() {
	lexer := NewLexer(p.input, p.file)
	p.tokens = nil
	p.docs = make(map[int]Token)
	p.pos = 0
	p.errs = nil

	var doc *Token
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace, TokenComment, TokenLineComment:
			continue
		case TokenJavadoc:
			doc = &tok
			continue
		case TokenError:
			p.errs = append(p.errs, &SyntaxError{Pos: tok.Span.Start, Message: "unexpected input", Got: tok.Literal})
			continue
		}
		if doc != nil {
			p.docs[len(p.tokens)] = *doc
			doc = nil
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			return
		}
	}
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkIdent(literal string) bool {
	tok := p.peek()
	return tok.Kind == TokenIdent && tok.Literal == literal
}

func (p *Parser) expect(kind TokenKind) (Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	p.errorf("expected %s", kind)
	return Token{}, false
}

func (p *Parser) errorf(format string, args ...any) {
	tok := p.peek()
	p.errs = append(p.errs, &SyntaxError{
		Pos:     tok.Span.Start,
		Message: fmt.Sprintf(format, args...),
		Got:     tok.Literal,
	})
}

// mustProgress returns a function that reports whether the parser has
// advanced since it was created. When it has not, the function skips one
// token so that loops around error recovery always terminate.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) prevEnd() int {
	if p.pos == 0 {
		return p.peek().Start()
	}
	return p.tokens[p.pos-1].End()
}

func (p *Parser) text(start, end int) string {
	if start < 0 || end > len(p.input) || end <= start {
		return ""
	}
	return string(p.input[start:end])
}

func (p *Parser) indentAt(offset int) string {
	lineStart := bytes.LastIndexByte(p.input[:offset], '\n') + 1
	end := lineStart
	for end < len(p.input) && (p.input[end] == ' ' || p.input[end] == '\t') {
		end++
	}
	return string(p.input[lineStart:end])
}

func (p *Parser) newNode(kind ast.Kind, start int) *ast.Node {
	return &ast.Node{
		Kind:      kind,
		Span:      ast.Span{Start: start, End: start},
		Body:      ast.NoSpan,
		KeywordAt: -1,
	}
}

func (p *Parser) finish(n *ast.Node) *ast.Node {
	n.Span.End = p.prevEnd()
	if n.Span.End < n.Span.Start {
		n.Span.End = n.Span.Start
	}
	n.Source = p.text(n.Span.Start, n.Span.End)
	n.Indent = p.indentAt(n.Span.Start)
	return n
}

func (p *Parser) parseCompilationUnit() *ast.Node {
	unit := p.newNode(ast.KindCompilationUnit, 0)
	unit.Span.End = len(p.input)
	unit.Source = string(p.input)

	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		unit.AddChild(p.parsePackage())
	}

	for p.check(TokenImport) {
		unit.AddChild(p.parseImport())
	}

	for !p.check(TokenEOF) {
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		progress := p.mustProgress()
		h := p.parseHead()
		if p.isTypeStart() {
			unit.AddChild(p.parseTypeDecl(h))
		} else {
			p.errorf("expected class, interface, enum, record, or @interface")
			p.recoverTopLevel()
		}
		progress()
	}

	return unit
}

func (p *Parser) recoverTopLevel() {
	for !p.check(TokenEOF) && !p.isTypeStart() && !p.peek().Kind.IsModifier() && !p.check(TokenAt) {
		if p.check(TokenLBrace) {
			p.skipBalanced(TokenLBrace, TokenRBrace)
			continue
		}
		p.advance()
	}
}

func (p *Parser) isAnnotatedPackage() bool {
	if !p.check(TokenAt) {
		return false
	}
	save, errs := p.pos, len(p.errs)
	for p.check(TokenAt) && p.peekN(1).Kind != TokenInterface {
		p.skipAnnotation()
	}
	result := p.check(TokenPackage)
	p.pos, p.errs = save, p.errs[:errs]
	return result
}

func (p *Parser) parsePackage() *ast.Node {
	n := p.newNode(ast.KindPackage, p.peek().Start())
	for p.check(TokenAt) {
		p.skipAnnotation()
	}
	p.expect(TokenPackage)
	n.Name = p.parseQualifiedName()
	p.expect(TokenSemicolon)
	return p.finish(n)
}

func (p *Parser) parseImport() *ast.Node {
	n := p.newNode(ast.KindImport, p.peek().Start())
	p.expect(TokenImport)

	if p.check(TokenStatic) {
		p.advance()
		n.Flags |= ast.FlagStatic
	}

	n.Name = p.parseQualifiedName()
	if p.check(TokenDot) && p.peekN(1).Kind == TokenOperator && p.peekN(1).Literal == "*" {
		p.advance()
		p.advance()
		n.Flags |= ast.FlagOnDemand
	}

	p.expect(TokenSemicolon)
	return p.finish(n)
}

func (p *Parser) parseQualifiedName() string {
	tok, ok := p.expect(TokenIdent)
	if !ok {
		return ""
	}
	parts := []string{tok.Literal}
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		parts = append(parts, p.advance().Literal)
	}
	return strings.Join(parts, ".")
}

func (p *Parser) skipAnnotation() {
	p.expect(TokenAt)
	p.parseQualifiedName()
	if p.check(TokenLParen) {
		p.skipBalanced(TokenLParen, TokenRParen)
	}
}

// skipBalanced consumes tokens from the current opening delimiter up to
// and including its matching closing delimiter.
func (p *Parser) skipBalanced(open, close TokenKind) bool {
	depth := 0
	for !p.check(TokenEOF) {
		tok := p.advance()
		switch tok.Kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	p.errorf("unterminated %s", open)
	return false
}

// angleEnd returns the index of the '>' closing the '<' at index i, when
// everything in between can be part of a type argument list. Comparisons
// such as "a < b ? x : y" are rejected because of the literal operands.
func (p *Parser) angleEnd(i int) (int, bool) {
	depth := 0
	for ; i < len(p.tokens); i++ {
		tok := p.tokens[i]
		switch tok.Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
			if depth == 0 {
				return i, true
			}
		case TokenIdent, TokenDot, TokenComma, TokenQuestion, TokenExtends,
			TokenPrimitive, TokenLBracket, TokenRBracket, TokenAmp, TokenAt:
		case TokenKeyword:
			if tok.Literal != "super" {
				return 0, false
			}
		default:
			return 0, false
		}
	}
	return 0, false
}

func (p *Parser) captureAngles() string {
	start := p.peek().Start()
	end, ok := p.angleEnd(p.pos)
	if !ok {
		p.errorf("unbalanced type parameters")
		p.advance()
		return ""
	}
	p.pos = end + 1
	return p.text(start, p.prevEnd())
}

type head struct {
	start int
	doc   *ast.Node
	mods  []*ast.Node
	flags ast.Flags
}

func (h head) attach(n *ast.Node) {
	n.AddChild(h.doc)
	for _, mod := range h.mods {
		n.AddChild(mod)
	}
	n.Flags |= h.flags
}

// parseHead reads the Javadoc, annotations and modifier keywords that can
// open any declaration.
func (p *Parser) parseHead() head {
	h := head{start: p.peek().Start()}
	if doc, ok := p.docs[p.pos]; ok {
		h.start = doc.Start()
		h.doc = &ast.Node{
			Kind:      ast.KindJavadoc,
			Span:      ast.Span{Start: doc.Start(), End: doc.End()},
			Text:      doc.Literal,
			Source:    doc.Literal,
			Indent:    p.indentAt(doc.Start()),
			Body:      ast.NoSpan,
			KeywordAt: -1,
		}
	}
	p.parseModifiers(&h)
	return h
}

func (p *Parser) parseModifiers(h *head) {
	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenAt && p.peekN(1).Kind != TokenInterface:
			mod := p.newNode(ast.KindModifier, tok.Start())
			p.skipAnnotation()
			p.finish(mod)
			mod.Name = mod.Source
			mod.Flags = ast.FlagAnnotation
			h.mods = append(h.mods, mod)
		case tok.Kind.IsModifier() || p.isContextualModifier():
			mod := p.newNode(ast.KindModifier, tok.Start())
			p.advance()
			p.finish(mod)
			mod.Name = tok.Literal
			mod.Flags = ast.FlagForModifier(tok.Literal)
			h.flags |= mod.Flags
			h.mods = append(h.mods, mod)
		default:
			return
		}
	}
}

func (p *Parser) isContextualModifier() bool {
	if !p.checkIdent("sealed") && !p.checkIdent("non-sealed") {
		return false
	}
	next := p.peekN(1)
	return next.Kind == TokenClass || next.Kind == TokenInterface || next.Kind == TokenAt ||
		next.Kind.IsModifier() || next.Literal == "sealed" || next.Literal == "non-sealed"
}

func (p *Parser) isTypeStart() bool {
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return true
	case TokenAt:
		return p.peekN(1).Kind == TokenInterface
	case TokenIdent:
		next := p.peekN(2).Kind
		return p.checkIdent("record") && p.peekN(1).Kind == TokenIdent && (next == TokenLParen || next == TokenLT)
	}
	return false
}

func (p *Parser) parseTypeDecl(h head) *ast.Node {
	n := p.newNode(ast.KindTypeDeclaration, h.start)
	h.attach(n)

	kw := p.advance()
	n.KeywordAt = kw.Start()
	n.Keyword = kw.Literal
	if kw.Kind == TokenAt {
		p.advance()
		n.Keyword = "@interface"
	}

	if name, ok := p.expect(TokenIdent); ok {
		n.Name = name.Literal
	}
	if p.check(TokenLT) {
		n.TypeParams = p.captureAngles()
	}

	start := p.peek().Start()
	end := start
	for !p.check(TokenLBrace) && !p.check(TokenEOF) {
		if p.check(TokenLParen) {
			p.skipBalanced(TokenLParen, TokenRParen)
		} else {
			p.advance()
		}
		end = p.prevEnd()
	}
	n.Clauses = strings.TrimSpace(p.text(start, end))

	open, ok := p.expect(TokenLBrace)
	if !ok {
		return p.finish(n)
	}
	n.Body = ast.Span{Start: open.Start(), End: open.End()}

	if n.Keyword == "enum" {
		p.parseEnumConstants(n)
	}
	p.parseMembers(n)

	if closing, ok := p.expect(TokenRBrace); ok {
		n.Body.End = closing.End()
	} else {
		n.Body.End = p.prevEnd()
	}
	return p.finish(n)
}

func (p *Parser) parseEnumConstants(owner *ast.Node) {
	for p.check(TokenIdent) || p.check(TokenAt) {
		h := p.parseHead()
		c := p.newNode(ast.KindEnumConstant, h.start)
		h.attach(c)
		if name, ok := p.expect(TokenIdent); ok {
			c.Name = name.Literal
		}
		if p.check(TokenLParen) {
			p.skipBalanced(TokenLParen, TokenRParen)
		}
		if p.check(TokenLBrace) {
			p.skipBalanced(TokenLBrace, TokenRBrace)
		}
		owner.AddChild(p.finish(c))
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if p.check(TokenSemicolon) {
		p.advance()
	}
}

func (p *Parser) parseMembers(owner *ast.Node) {
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if member := p.parseMember(owner); member != nil {
			owner.AddChild(member)
		}
		progress()
	}
}

func (p *Parser) parseMember(owner *ast.Node) *ast.Node {
	if p.check(TokenSemicolon) {
		p.advance()
		return nil
	}

	h := p.parseHead()
	switch {
	case p.check(TokenLBrace):
		return p.parseInitializer(h)
	case p.isTypeStart():
		return p.parseTypeDecl(h)
	}

	var typeParams string
	if p.check(TokenLT) {
		typeParams = p.captureAngles()
	}

	if p.check(TokenIdent) && p.peekN(1).Kind == TokenLParen {
		return p.parseMethod(h, typeParams, nil)
	}
	if owner.Keyword == "record" && p.checkIdent(owner.Name) && p.peekN(1).Kind == TokenLBrace {
		return p.parseMethod(h, typeParams, nil)
	}

	typ := p.parseType()
	if typ == nil {
		p.errorf("expected member declaration")
		p.recoverMember()
		return nil
	}
	if !p.check(TokenIdent) {
		p.errorf("expected identifier")
		p.recoverMember()
		return nil
	}
	if p.peekN(1).Kind == TokenLParen {
		return p.parseMethod(h, typeParams, typ)
	}
	return p.parseField(h, typ)
}

func (p *Parser) recoverMember() {
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenSemicolon:
			p.advance()
			return
		case TokenRBrace:
			return
		case TokenLBrace:
			p.skipBalanced(TokenLBrace, TokenRBrace)
			return
		}
		p.advance()
	}
}

func (p *Parser) parseInitializer(h head) *ast.Node {
	n := p.newNode(ast.KindInitializer, h.start)
	h.attach(n)
	block := p.parseBlock()
	n.AddChild(block)
	n.Body = block.Span
	return p.finish(n)
}

func (p *Parser) parseBlock() *ast.Node {
	n := p.newNode(ast.KindBlock, p.peek().Start())
	p.skipBalanced(TokenLBrace, TokenRBrace)
	p.finish(n)
	n.Text = n.Source
	return n
}

func (p *Parser) parseMethod(h head, typeParams string, ret *ast.Node) *ast.Node {
	n := p.newNode(ast.KindMethodDeclaration, h.start)
	h.attach(n)
	n.TypeParams = typeParams
	if ret != nil {
		n.AddChild(ret)
	} else {
		n.Flags |= ast.FlagConstructor
	}
	n.Name = p.advance().Literal

	if p.check(TokenLParen) {
		p.advance()
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			if param := p.parseParameter(); param != nil {
				n.AddChild(param)
			}
			if !p.check(TokenComma) {
				progress()
				break
			}
			p.advance()
		}
		p.expect(TokenRParen)
	}
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
	}

	start := p.peek().Start()
	end := start
	inDefault := false
clauses:
	for !p.check(TokenSemicolon) && !p.check(TokenRBrace) && !p.check(TokenEOF) {
		switch {
		case p.check(TokenLBrace) && !inDefault:
			break clauses
		case p.check(TokenLBrace):
			p.skipBalanced(TokenLBrace, TokenRBrace)
		case p.check(TokenLParen):
			p.skipBalanced(TokenLParen, TokenRParen)
		default:
			if p.check(TokenDefault) {
				inDefault = true
			}
			p.advance()
		}
		end = p.prevEnd()
	}
	n.Clauses = strings.TrimSpace(p.text(start, end))

	switch {
	case p.check(TokenLBrace):
		block := p.parseBlock()
		n.AddChild(block)
		n.Body = block.Span
	case p.check(TokenSemicolon):
		semi := p.advance()
		n.Body = ast.Span{Start: semi.Start(), End: semi.End()}
	default:
		p.errorf("expected method body or ';'")
	}
	return p.finish(n)
}

func (p *Parser) parseParameter() *ast.Node {
	n := p.newNode(ast.KindParameter, p.peek().Start())
	var h head
	p.parseModifiers(&h)
	h.attach(n)

	typ := p.parseType()
	if typ == nil {
		p.errorf("expected parameter type")
		for !p.check(TokenComma) && !p.check(TokenRParen) && !p.check(TokenEOF) {
			p.advance()
		}
		return nil
	}
	n.AddChild(typ)

	if p.check(TokenEllipsis) {
		p.advance()
		n.Flags |= ast.FlagVarargs
	}

	tok := p.peek()
	if tok.Kind == TokenIdent || (tok.Kind == TokenKeyword && tok.Literal == "this") {
		n.Name = p.advance().Literal
	} else {
		p.errorf("expected parameter name")
	}
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
		typ.Text += "[]"
	}
	return p.finish(n)
}

func (p *Parser) parseField(h head, typ *ast.Node) *ast.Node {
	n := p.newNode(ast.KindFieldDeclaration, h.start)
	h.attach(n)
	n.AddChild(typ)

	for {
		progress := p.mustProgress()
		frag := p.newNode(ast.KindFragment, p.peek().Start())
		if name, ok := p.expect(TokenIdent); ok {
			frag.Name = name.Literal
		}
		for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
			p.advance()
			p.advance()
		}
		if p.check(TokenAssign) {
			p.advance()
			start := p.peek().Start()
			p.skipInitializer()
			frag.Text = strings.TrimSpace(p.text(start, p.prevEnd()))
		}
		n.AddChild(p.finish(frag))
		if !p.check(TokenComma) {
			progress()
			break
		}
		p.advance()
	}

	p.expect(TokenSemicolon)
	return p.finish(n)
}

// skipInitializer consumes a variable initializer up to the ',' or ';'
// that ends it.
func (p *Parser) skipInitializer() {
	depth := 0
	for !p.check(TokenEOF) {
		tok := p.peek()
		switch tok.Kind {
		case TokenLParen, TokenLBracket, TokenLBrace:
			depth++
		case TokenRParen, TokenRBracket, TokenRBrace:
			if depth == 0 {
				return
			}
			depth--
		case TokenLT:
			if end, ok := p.angleEnd(p.pos); ok {
				p.pos = end + 1
				continue
			}
		case TokenComma, TokenSemicolon:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) parseType() *ast.Node {
	start := p.pos
	for p.check(TokenAt) && p.peekN(1).Kind != TokenInterface {
		p.skipAnnotation()
	}

	switch p.peek().Kind {
	case TokenPrimitive, TokenVoid:
		p.advance()
	case TokenIdent:
		p.advance()
		for {
			if p.check(TokenLT) {
				end, ok := p.angleEnd(p.pos)
				if !ok {
					break
				}
				p.pos = end + 1
			}
			if p.check(TokenDot) && (p.peekN(1).Kind == TokenIdent || p.peekN(1).Kind == TokenAt) {
				p.advance()
				for p.check(TokenAt) {
					p.skipAnnotation()
				}
				p.expect(TokenIdent)
				continue
			}
			break
		}
	default:
		p.pos = start
		return nil
	}

	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance()
		p.advance()
	}

	n := p.newNode(ast.KindTypeRef, p.tokens[start].Start())
	p.finish(n)
	n.Text = p.normalize(start, p.pos)
	return n
}

// normalize renders tokens[from:to] without layout, putting a single space
// only where two words would otherwise run together.
func (p *Parser) normalize(from, to int) string {
	var sb strings.Builder
	for i := from; i < to; i++ {
		tok := p.tokens[i]
		if i > from {
			prev := p.tokens[i-1]
			if (prev.isWord() || prev.Kind == TokenQuestion) && tok.isWord() {
				sb.WriteByte(' ')
			} else if prev.Kind == TokenAmp || tok.Kind == TokenAmp {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(tok.Literal)
	}
	return sb.String()
}
