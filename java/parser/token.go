package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment
	TokenJavadoc

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock

	// Keywords that shape declarations
	TokenPackage
	TokenImport
	TokenClass
	TokenInterface
	TokenEnum
	TokenExtends
	TokenImplements
	TokenThrows
	TokenDefault
	TokenVoid
	TokenPublic
	TokenProtected
	TokenPrivate
	TokenAbstract
	TokenStatic
	TokenFinal
	TokenNative
	TokenSynchronized
	TokenTransient
	TokenVolatile
	TokenStrictfp
	TokenPrimitive
	// TokenKeyword covers every other reserved word (statements, literals).
	TokenKeyword

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenQuestion
	TokenLT
	TokenGT
	TokenAssign
	TokenArrow
	TokenAmp
	// TokenOperator covers operators that never affect declaration structure.
	TokenOperator
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:           "EOF",
	TokenError:         "Error",
	TokenWhitespace:    "Whitespace",
	TokenComment:       "Comment",
	TokenLineComment:   "LineComment",
	TokenJavadoc:       "Javadoc",
	TokenIdent:         "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenTextBlock:     "TextBlock",
	TokenPackage:       "package",
	TokenImport:        "import",
	TokenClass:         "class",
	TokenInterface:     "interface",
	TokenEnum:          "enum",
	TokenExtends:       "extends",
	TokenImplements:    "implements",
	TokenThrows:        "throws",
	TokenDefault:       "default",
	TokenVoid:          "void",
	TokenPublic:        "public",
	TokenProtected:     "protected",
	TokenPrivate:       "private",
	TokenAbstract:      "abstract",
	TokenStatic:        "static",
	TokenFinal:         "final",
	TokenNative:        "native",
	TokenSynchronized:  "synchronized",
	TokenTransient:     "transient",
	TokenVolatile:      "volatile",
	TokenStrictfp:      "strictfp",
	TokenPrimitive:     "Primitive",
	TokenKeyword:       "Keyword",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenEllipsis:      "...",
	TokenAt:            "@",
	TokenQuestion:      "?",
	TokenLT:            "<",
	TokenGT:            ">",
	TokenAssign:        "=",
	TokenArrow:         "->",
	TokenAmp:           "&",
	TokenOperator:      "Operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsModifier reports whether the token kind is a modifier keyword.
func (k TokenKind) IsModifier() bool {
	switch k {
	case TokenPublic, TokenProtected, TokenPrivate, TokenAbstract, TokenStatic,
		TokenFinal, TokenNative, TokenSynchronized, TokenTransient, TokenVolatile,
		TokenStrictfp, TokenDefault:
		return true
	}
	return false
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

func (t Token) Start() int { return t.Span.Start.Offset }
func (t Token) End() int   { return t.Span.End.Offset }

// isWord reports whether the token reads as a word, so that two adjacent
// words need a space between them when a type is rendered.
func (t Token) isWord() bool {
	switch t.Kind {
	case TokenIdent, TokenPrimitive, TokenKeyword, TokenVoid, TokenExtends:
		return true
	}
	return t.Kind.IsModifier()
}

var keywords = map[string]TokenKind{
	"package":      TokenPackage,
	"import":       TokenImport,
	"class":        TokenClass,
	"interface":    TokenInterface,
	"enum":         TokenEnum,
	"extends":      TokenExtends,
	"implements":   TokenImplements,
	"throws":       TokenThrows,
	"default":      TokenDefault,
	"void":         TokenVoid,
	"public":       TokenPublic,
	"protected":    TokenProtected,
	"private":      TokenPrivate,
	"abstract":     TokenAbstract,
	"static":       TokenStatic,
	"final":        TokenFinal,
	"native":       TokenNative,
	"synchronized": TokenSynchronized,
	"transient":    TokenTransient,
	"volatile":     TokenVolatile,
	"strictfp":     TokenStrictfp,

	"boolean": TokenPrimitive,
	"byte":    TokenPrimitive,
	"char":    TokenPrimitive,
	"short":   TokenPrimitive,
	"int":     TokenPrimitive,
	"long":    TokenPrimitive,
	"float":   TokenPrimitive,
	"double":  TokenPrimitive,

	"assert":     TokenKeyword,
	"break":      TokenKeyword,
	"case":       TokenKeyword,
	"catch":      TokenKeyword,
	"const":      TokenKeyword,
	"continue":   TokenKeyword,
	"do":         TokenKeyword,
	"else":       TokenKeyword,
	"finally":    TokenKeyword,
	"for":        TokenKeyword,
	"goto":       TokenKeyword,
	"if":         TokenKeyword,
	"instanceof": TokenKeyword,
	"new":        TokenKeyword,
	"return":     TokenKeyword,
	"super":      TokenKeyword,
	"switch":     TokenKeyword,
	"this":       TokenKeyword,
	"throw":      TokenKeyword,
	"try":        TokenKeyword,
	"while":      TokenKeyword,
	"true":       TokenKeyword,
	"false":      TokenKeyword,
	"null":       TokenKeyword,
}

// LookupKeyword classifies an identifier-shaped literal. Contextual
// keywords (record, sealed, permits, var, yield) stay identifiers.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}
