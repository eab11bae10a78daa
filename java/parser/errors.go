package parser

import (
	"fmt"
	"strings"
)

type SyntaxError struct {
	Pos     Position
	Message string
	Got     string
}

func (e *SyntaxError) Error() string {
	if e.Got != "" {
		return fmt.Sprintf("%s: %s, got %q", e.Pos, e.Message, e.Got)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ErrorList collects every syntax error of one parse.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(l[0].Error())
	fmt.Fprintf(&sb, " (and %d more errors)", len(l)-1)
	return sb.String()
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns nil for an empty list, so callers can return it directly.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
