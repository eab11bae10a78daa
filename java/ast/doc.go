// Package ast defines the declaration-level node model for Java
// compilation units.
//
// A tree is made of *Node values tagged by Kind. Kind-specific accessors
// such as Imports or Parameters panic with a *KindError when called on the
// wrong kind of node, since that is always a programming error.
//
// Nodes parsed from a document carry byte spans into it. Clone produces a
// detached copy suitable for grafting into another tree; Duplicate copies a
// tree keeping its spans.
package ast
