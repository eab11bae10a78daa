// Package merge reconciles a base and a candidate version of one Java
// declaration unit and rewrites the base text to take in the candidate's
// changes, leaving everything else byte for byte as it was.
//
// A merge runs in stages: Match pairs declarations by signature,
// Reconcile turns the pairs into decisions, Synthesize turns decisions
// into edits against the base text and edit.Apply applies them.
package merge

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/splice/edit"
	"github.com/dhamidi/splice/java/ast"
	"github.com/dhamidi/splice/java/parser"
)

// ParseFunc parses one compilation unit.
type ParseFunc func(name string, src []byte) (*ast.Node, error)

type Option func(*options)

type options struct {
	policy        Policy
	log           commonlog.Logger
	parse         ParseFunc
	baseName      string
	candidateName string
}

func WithPolicy(policy Policy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

func WithLogger(logger commonlog.Logger) Option {
	return func(o *options) {
		o.log = logger
	}
}

func WithParser(parse ParseFunc) Option {
	return func(o *options) {
		o.parse = parse
	}
}

// WithNames sets the file names used in parse errors.
func WithNames(base, candidate string) Option {
	return func(o *options) {
		o.baseName = base
		o.candidateName = candidate
	}
}

type Result struct {
	// Text is the base text with the edits applied.
	Text []byte
	// Tree is the merged tree, for callers that print it wholesale.
	Tree      *ast.Node
	Decisions []Decision
	Edits     []edit.Edit

	changed bool
}

// Changed reports whether Text differs from the base. A merge can report
// edits and still change nothing, for example when modifiers are replaced
// by an identical list.
func (r *Result) Changed() bool {
	return r.changed
}

// Merge merges candidate into base. It fails without partial output: on
// error the result is nil. ctx is checked between stages.
func Merge(ctx context.Context, base, candidate []byte, opts ...Option) (*Result, error) {
	o := options{
		policy:        DefaultPolicy(),
		log:           log,
		parse:         parser.Parse,
		baseName:      "base",
		candidateName: "candidate",
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.policy.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	baseTree, err := o.parse(o.baseName, base)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseFailure, o.baseName, err)
	}
	candidateTree, err := o.parse(o.candidateName, candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseFailure, o.candidateName, err)
	}

	mctx := NewContext(baseTree, candidateTree, base, o.policy)
	mctx.Log = o.log

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := mctx.Match()
	if err != nil {
		return nil, fmt.Errorf("match %s with %s: %w", o.baseName, o.candidateName, err)
	}
	decisions := Reconcile(mctx, m)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	edits, err := Synthesize(mctx, decisions)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := edit.Apply(base, edits)
	if err != nil {
		return nil, fmt.Errorf("apply edits: %w", err)
	}

	o.log.Infof("merged %s into %s: %d decisions, %d edits", o.candidateName, o.baseName, len(decisions), len(edits))
	return &Result{
		Text:      text,
		Tree:      BuildTree(baseTree, decisions),
		Decisions: decisions,
		Edits:     edits,
		changed:   !bytes.Equal(text, base),
	}, nil
}
