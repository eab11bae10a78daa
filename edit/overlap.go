package edit

import "fmt"

// OverlapError reports two edits of one batch that touch the same bytes.
type OverlapError struct {
	First  Edit
	Second Edit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("edits overlap: %s and %s", e.First, e.Second)
}

// Overlaps reports whether a and b cannot both be applied to one document.
// Two ranges that share bytes overlap, and so does an insertion that falls
// strictly inside a range being replaced. Edits that only touch at a
// boundary do not overlap.
func Overlaps(a, b Edit) bool {
	switch {
	case a.IsInsert() && b.IsInsert():
		return false
	case a.IsInsert():
		return b.Start < a.Start && a.Start < b.End
	case b.IsInsert():
		return a.Start < b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// Validate checks that no two edits overlap.
func Validate(edits []Edit) error {
	for i := range edits {
		for j := i + 1; j < len(edits); j++ {
			if Overlaps(edits[i], edits[j]) {
				return &OverlapError{First: edits[i], Second: edits[j]}
			}
		}
	}
	return nil
}
