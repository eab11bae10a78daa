// Package parser provides an error-tolerant, declaration-level parser for
// Java source code.
//
// # Overview
//
// The parser reads a compilation unit and produces an [ast.Node] tree that
// describes its declarations: package, imports, types and their members.
// Method bodies, initializer blocks and variable initializers are not
// parsed into statements; they are captured as raw source spans, which is
// all that structural merging needs.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (AST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │                   │
//	                           ▼                   ▼
//	                    ┌─────────────┐     ┌─────────────┐
//	                    │  Javadoc    │     │  ErrorList  │
//	                    │  Attachment │     │  Recovery   │
//	                    └─────────────┘     └─────────────┘
//
// Whitespace and ordinary comments are dropped after lexing. A Javadoc
// comment is attached to the declaration whose first token follows it.
//
// # Source Context
//
// Every node carries the half-open byte span it covers in the input, the
// exact source text of that span, and the leading whitespace of the line it
// starts on. A member's span starts at its Javadoc when it has one.
// Type declarations also record the span of their body braces and the
// offset of their class/interface/enum/record keyword, and methods record
// the span of their body block or terminating semicolon.
//
// # Error Recovery
//
// The parser never panics on malformed input. Syntax errors are collected
// into an [ErrorList] and parsing resumes:
//
//  1. Member-level: skip to the next semicolon, or over a braced block
//  2. Declaration-level: skip to the next type keyword or modifier
//
// Finish returns the recovered tree together with the error list, so
// callers decide whether a partial tree is usable.
//
// # Entry Points
//
//	// ParseCompilationUnit parses a complete .java source file.
//	p := parser.ParseCompilationUnit(r, parser.WithFile("Foo.java"))
//	unit, err := p.Finish()
//
//	// Parse is the same for input already held in memory.
//	unit, err := parser.Parse("Foo.java", src)
package parser
