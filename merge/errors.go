package merge

import (
	"errors"
	"fmt"

	"github.com/dhamidi/splice/edit"
)

var (
	// ErrInvalidInputShape means a compilation unit does not hold exactly
	// one top-level type declaration.
	ErrInvalidInputShape = errors.New("invalid input shape")

	// ErrSignatureCollision marks two declarations of one side sharing a
	// signature. It is logged, never returned: the later declaration wins.
	ErrSignatureCollision = errors.New("signature collision")

	// ErrInvariantViolation means synthesized edits overlap, which is a
	// reconciliation bug.
	ErrInvariantViolation = errors.New("internal invariant violation")

	ErrInvalidEditSpan = edit.ErrInvalidSpan

	ErrParseFailure = errors.New("parse failure")
)

type ShapeError struct {
	Side  string
	Types int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s has %d top-level type declarations, want exactly 1", ErrInvalidInputShape, e.Side, e.Types)
}

func (e *ShapeError) Unwrap() error {
	return ErrInvalidInputShape
}
