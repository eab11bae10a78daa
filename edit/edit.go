// Package edit applies span-addressed text edits to a document.
package edit

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidSpan is returned when an edit does not fit the document it is
// applied to.
var ErrInvalidSpan = errors.New("invalid edit span")

// Edit replaces the bytes in [Start, End) with Text. An insertion has
// Start == End; a removal has an empty Text.
type Edit struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
}

func Insert(at int, text string) Edit {
	return Edit{Start: at, End: at, Text: text}
}

func Replace(start, end int, text string) Edit {
	return Edit{Start: start, End: end, Text: text}
}

func Remove(start, end int) Edit {
	return Edit{Start: start, End: end}
}

func (e Edit) IsInsert() bool {
	return e.Start == e.End
}

func (e Edit) String() string {
	switch {
	case e.IsInsert():
		return fmt.Sprintf("insert@%d %q", e.Start, e.Text)
	case e.Text == "":
		return fmt.Sprintf("remove[%d,%d)", e.Start, e.End)
	}
	return fmt.Sprintf("replace[%d,%d) %q", e.Start, e.End, e.Text)
}

type SpanError struct {
	Edit Edit
	Size int
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("edit [%d,%d) outside document of %d bytes", e.Edit.Start, e.Edit.End, e.Size)
}

func (e *SpanError) Unwrap() error {
	return ErrInvalidSpan
}

// Apply returns a copy of src with all edits applied. Edits are applied
// right to left so earlier offsets stay valid: by start descending, then
// end descending, then later list entries first. Either every edit is
// applied or src is left untouched and an error is returned.
func Apply(src []byte, edits []Edit) ([]byte, error) {
	for _, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End > len(src) {
			return nil, &SpanError{Edit: e, Size: len(src)}
		}
	}

	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := edits[order[a]], edits[order[b]]
		if ea.Start != eb.Start {
			return ea.Start > eb.Start
		}
		if ea.End != eb.End {
			return ea.End > eb.End
		}
		return order[a] > order[b]
	})

	out := make([]byte, len(src))
	copy(out, src)
	for _, i := range order {
		e := edits[i]
		next := make([]byte, 0, len(out)-(e.End-e.Start)+len(e.Text))
		next = append(next, out[:e.Start]...)
		next = append(next, e.Text...)
		next = append(next, out[e.End:]...)
		out = next
	}
	return out, nil
}
