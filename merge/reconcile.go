package merge

import (
	"strings"

	"github.com/dhamidi/splice/java/ast"
)

// Reconcile decides how the base declaration changes to take in the
// candidate. It only reads both trees; every node it hands out for
// insertion is a detached clone.
//
// Decisions follow the text of the base: imports, type Javadoc, type
// modifiers, then fields, methods and inner types, and finally a Leave for
// each base import and member nothing touched.
func Reconcile(ctx *Context, m *Matching) []Decision {
	r := &reconciler{
		ctx:     ctx,
		m:       m,
		policy:  ctx.Policy.withDefaults(),
		touched: make(map[*ast.Node]bool),
	}
	r.imports()
	r.javadoc()
	r.modifiers()
	r.fields()
	r.methods()
	r.innerTypes()
	r.leaves()
	return r.decisions
}

type reconciler struct {
	ctx       *Context
	m         *Matching
	policy    Policy
	decisions []Decision
	touched   map[*ast.Node]bool
}

func (r *reconciler) add(d Decision) {
	r.ctx.logger().Debugf("decision: %s", d)
	if d.Base != nil {
		r.touched[d.Base] = true
	}
	if d.Owner != nil {
		r.touched[d.Owner] = true
	}
	r.decisions = append(r.decisions, d)
}

func (r *reconciler) imports() {
	for _, p := range r.m.Imports {
		if p.State() != OnlyCandidate {
			continue
		}
		r.add(Decision{
			Action:    Insert,
			Target:    TargetImport,
			Signature: p.Signature,
			Owner:     r.ctx.Base,
			Node:      ast.Clone(p.Candidate),
		})
	}
}

func (r *reconciler) javadoc() {
	doc := r.m.CandidateType.Javadoc()
	if doc == nil {
		return
	}
	d := Decision{
		Action: Insert,
		Target: TargetJavadoc,
		Owner:  r.m.BaseType,
		Node:   ast.Clone(doc),
	}
	if base := r.m.BaseType.Javadoc(); base != nil {
		d.Action = Replace
		d.Base = base
	}
	r.add(d)
}

func (r *reconciler) modifiers() {
	if r.policy.Modifiers != ModifiersReplace {
		return
	}
	for _, mod := range r.m.BaseType.Modifiers() {
		r.add(Decision{
			Action:    Remove,
			Target:    TargetModifier,
			Signature: Signature(mod.Name),
			Owner:     r.m.BaseType,
			Base:      mod,
		})
	}
	for _, mod := range r.m.CandidateType.Modifiers() {
		r.add(Decision{
			Action:    Insert,
			Target:    TargetModifier,
			Signature: Signature(mod.Name),
			Owner:     r.m.BaseType,
			Node:      ast.Clone(mod),
		})
	}
}

// fields appends every candidate declaration that introduces at least one
// new name. Its other fragments come along even when the base already
// declares them.
func (r *reconciler) fields() {
	declared := make(map[Signature]bool)
	for _, p := range r.m.Fields {
		if p.Base != nil {
			declared[p.Signature] = true
		}
	}

	for _, field := range r.m.CandidateType.Fields() {
		for _, frag := range field.Fragments() {
			sig := Signature(frag.Name)
			if declared[sig] {
				continue
			}
			r.add(Decision{
				Action:    Insert,
				Target:    TargetField,
				Signature: sig,
				Owner:     r.m.BaseType,
				Node:      ast.Clone(field),
			})
			break
		}
	}
}

func (r *reconciler) methods() {
	for _, p := range r.m.Methods {
		switch p.State() {
		case OnlyCandidate:
			r.add(Decision{
				Action:    Insert,
				Target:    TargetMethod,
				Signature: p.Signature,
				Owner:     r.m.BaseType,
				Node:      ast.Clone(p.Candidate),
			})
		case Both:
			r.updateMethod(p)
		}
	}
}

func (r *reconciler) updateMethod(p Pair) {
	base, candidate := p.Base, p.Candidate

	baseRet, candidateRet := base.ReturnType(), candidate.ReturnType()
	if baseRet != nil && candidateRet != nil && baseRet.Text != candidateRet.Text {
		r.add(Decision{
			Action:    Replace,
			Target:    TargetReturnType,
			Signature: p.Signature,
			Owner:     base,
			Base:      baseRet,
			Node:      ast.Clone(candidateRet),
		})
	}

	if body := candidate.BodyBlock(); body != nil {
		r.add(Decision{
			Action:    Replace,
			Target:    TargetBody,
			Signature: p.Signature,
			Owner:     base,
			Base:      base.BodyBlock(),
			Node:      ast.Clone(body),
		})
	}

	if r.policy.Parameters != ParametersPositional {
		return
	}
	baseParams, candidateParams := base.Parameters(), candidate.Parameters()
	if len(baseParams) != len(candidateParams) {
		r.ctx.logger().Infof("%s: parameter count differs (%d vs %d), keeping base parameters",
			p.Signature, len(baseParams), len(candidateParams))
		return
	}
	for i, param := range baseParams {
		r.add(Decision{
			Action:    Replace,
			Target:    TargetParameter,
			Signature: p.Signature,
			Owner:     base,
			Base:      param,
			Node:      ast.Clone(candidateParams[i]),
			Index:     i,
		})
	}
}

// innerTypes appends candidate inner types the base lacks. Inner types
// present on both sides are not merged recursively.
func (r *reconciler) innerTypes() {
	for _, p := range r.m.Types {
		if p.State() != OnlyCandidate {
			continue
		}
		r.add(Decision{
			Action:    Insert,
			Target:    TargetType,
			Signature: p.Signature,
			Owner:     r.m.BaseType,
			Node:      ast.Clone(p.Candidate),
		})
	}
}

func (r *reconciler) leaves() {
	for _, imp := range r.ctx.Base.Imports() {
		r.decisions = append(r.decisions, Decision{
			Action:    Leave,
			Target:    TargetImport,
			Signature: ImportSignature(imp),
			Owner:     r.ctx.Base,
			Base:      imp,
		})
	}
	for _, member := range r.m.BaseType.Members() {
		if r.touched[member] {
			continue
		}
		target, sig := describeMember(member)
		r.decisions = append(r.decisions, Decision{
			Action:    Leave,
			Target:    target,
			Signature: sig,
			Owner:     r.m.BaseType,
			Base:      member,
		})
	}
}

func describeMember(member *ast.Node) (Target, Signature) {
	switch member.Kind {
	case ast.KindFieldDeclaration:
		var names []string
		for _, frag := range member.Fragments() {
			names = append(names, frag.Name)
		}
		return TargetField, Signature(strings.Join(names, ","))
	case ast.KindMethodDeclaration:
		return TargetMethod, MethodSignature(member)
	case ast.KindTypeDeclaration:
		return TargetType, Signature(member.Name)
	case ast.KindEnumConstant:
		return TargetEnumConstant, Signature(member.Name)
	}
	if member.IsStatic() {
		return TargetInitializer, "static {}"
	}
	return TargetInitializer, "{}"
}
