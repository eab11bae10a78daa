package merge

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/splice/java/ast"
)

var log = commonlog.GetLogger("splice.merge")

// Context carries everything one merge needs. It replaces any notion of a
// current tree shared between calls: each merge builds its own.
type Context struct {
	// Base and Candidate are compilation units.
	Base      *ast.Node
	Candidate *ast.Node
	// Source is the text Base was parsed from; edit offsets refer to it.
	Source []byte
	Policy Policy
	Log    commonlog.Logger
}

func NewContext(base, candidate *ast.Node, source []byte, policy Policy) *Context {
	return &Context{
		Base:      base,
		Candidate: candidate,
		Source:    source,
		Policy:    policy.withDefaults(),
		Log:       log,
	}
}

func (c *Context) logger() commonlog.Logger {
	if c.Log == nil {
		return log
	}
	return c.Log
}
