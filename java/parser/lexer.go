package parser

import (
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	return l.peekN(0)
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) hasPrefix(s string) bool {
	if l.pos+len(s) > len(l.input) {
		return false
	}
	return string(l.input[l.pos:l.pos+len(s)]) == s
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case isSpace(ch):
		for isSpace(l.peek()) {
			l.advance()
		}
		return l.token(TokenWhitespace, start)
	case l.hasPrefix("//"):
		for l.peek() != 0 && l.peek() != '\n' {
			l.advance()
		}
		return l.token(TokenLineComment, start)
	case l.hasPrefix("/*"):
		return l.scanBlockComment(start)
	case isJavaLetter(ch):
		return l.scanIdentOrKeyword(start)
	case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(start)
	case ch == '\'':
		l.scanQuoted('\'')
		return l.token(TokenCharLiteral, start)
	case l.hasPrefix(`"""`):
		l.scanTextBlock()
		return l.token(TokenTextBlock, start)
	case ch == '"':
		l.scanQuoted('"')
		return l.token(TokenStringLiteral, start)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	// "/**/" is an empty block comment, not a Javadoc opener.
	kind := TokenComment
	if l.hasPrefix("/**") && !l.hasPrefix("/**/") {
		kind = TokenJavadoc
	}
	l.advanceN(2)
	for l.peek() != 0 {
		if l.hasPrefix("*/") {
			l.advanceN(2)
			return l.token(kind, start)
		}
		l.advance()
	}
	return l.token(TokenError, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isJavaLetterOrDigit(l.peek()) {
		l.advanceRune()
	}
	literal := string(l.input[start.Offset:l.pos])

	if literal == "non" && l.hasPrefix("-sealed") && !isJavaLetterOrDigit(l.peekN(7)) {
		l.advanceN(7)
		return l.token(TokenIdent, start)
	}

	tok := l.token(LookupKeyword(literal), start)
	return tok
}

// advanceRune consumes a whole UTF-8 sequence so identifiers with
// non-ASCII letters keep correct column counts.
func (l *Lexer) advanceRune() {
	_, size := utf8.DecodeRune(l.input[l.pos:])
	if size <= 1 {
		l.advance()
		return
	}
	l.pos += size
	l.column++
}

func (l *Lexer) scanNumber(start Position) Token {
	kind := TokenIntLiteral
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X' || l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.advanceN(2)
	}
	for {
		ch := l.peek()
		switch {
		case isHexDigit(ch) || ch == '_':
			if (ch == 'e' || ch == 'E') && !l.isHex(start) {
				kind = TokenFloatLiteral
				l.advance()
				if l.peek() == '+' || l.peek() == '-' {
					l.advance()
				}
				continue
			}
			if (ch == 'd' || ch == 'D' || ch == 'f' || ch == 'F') && !l.isHex(start) {
				kind = TokenFloatLiteral
			}
			l.advance()
		case ch == '.' && isDigit(l.peekN(1)), ch == '.' && kind == TokenIntLiteral && !isJavaLetter(l.peekN(1)) && l.peekN(1) != '.':
			kind = TokenFloatLiteral
			l.advance()
		case (ch == 'p' || ch == 'P') && l.isHex(start):
			kind = TokenFloatLiteral
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
		case ch == 'l' || ch == 'L':
			l.advance()
			return l.token(kind, start)
		default:
			return l.token(kind, start)
		}
	}
}

func (l *Lexer) isHex(start Position) bool {
	return l.pos-start.Offset >= 2 &&
		l.input[start.Offset] == '0' &&
		(l.input[start.Offset+1] == 'x' || l.input[start.Offset+1] == 'X')
}

func (l *Lexer) scanQuoted(quote byte) {
	l.advance()
	for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() == quote {
		l.advance()
	}
}

func (l *Lexer) scanTextBlock() {
	l.advanceN(3)
	for l.peek() != 0 {
		if l.hasPrefix(`"""`) {
			l.advanceN(3)
			return
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
}

// operators is ordered longest first; the first prefix match wins.
var operators = []struct {
	text string
	kind TokenKind
}{
	{">>>=", TokenOperator},
	{"<<=", TokenOperator},
	{"...", TokenEllipsis},
	{"->", TokenArrow},
	{"::", TokenOperator},
	{"==", TokenOperator},
	{"!=", TokenOperator},
	{"<=", TokenOperator},
	{">=", TokenOperator},
	{"&&", TokenOperator},
	{"||", TokenOperator},
	{"<<", TokenOperator},
	{"++", TokenOperator},
	{"--", TokenOperator},
	{"+=", TokenOperator},
	{"-=", TokenOperator},
	{"*=", TokenOperator},
	{"/=", TokenOperator},
	{"%=", TokenOperator},
	{"&=", TokenOperator},
	{"|=", TokenOperator},
	{"^=", TokenOperator},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{";", TokenSemicolon},
	{",", TokenComma},
	{".", TokenDot},
	{"@", TokenAt},
	{"?", TokenQuestion},
	{"<", TokenLT},
	// ">" is never merged into ">>" or ">>>" so that nested type
	// arguments close one level per token.
	{">", TokenGT},
	{"=", TokenAssign},
	{"&", TokenAmp},
	{":", TokenOperator},
	{"!", TokenOperator},
	{"~", TokenOperator},
	{"|", TokenOperator},
	{"^", TokenOperator},
	{"+", TokenOperator},
	{"-", TokenOperator},
	{"*", TokenOperator},
	{"/", TokenOperator},
	{"%", TokenOperator},
}

func (l *Lexer) scanOperator(start Position) Token {
	for _, op := range operators {
		if l.hasPrefix(op.text) {
			l.advanceN(len(op.text))
			return l.token(op.kind, start)
		}
	}
	l.advanceRune()
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaLetter(ch byte) bool {
	if ch >= utf8.RuneSelf {
		return true
	}
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isJavaLetterOrDigit(ch byte) bool {
	return isJavaLetter(ch) || isDigit(ch)
}

// IsIdentifier reports whether s is a plain Java identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return LookupKeyword(s) == TokenIdent
}
