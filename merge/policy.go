package merge

import (
	"errors"
	"fmt"
)

type ImportPolicy string

const (
	// ImportsAdditive inserts candidate imports missing from the base and
	// never removes or reorders base imports.
	ImportsAdditive ImportPolicy = "additive"
)

type ModifierPolicy string

const (
	// ModifiersReplace removes every base modifier of the type and inserts
	// every candidate modifier, even when both lists are equal.
	ModifiersReplace ModifierPolicy = "replace"
	// ModifiersKeep leaves the base modifiers alone.
	ModifiersKeep ModifierPolicy = "keep"
)

type ParameterPolicy string

const (
	// ParametersPositional replaces the parameters of a matched method one
	// by one, and only when both lists have the same length.
	ParametersPositional ParameterPolicy = "positional"
	// ParametersKeep never touches base parameters.
	ParametersKeep ParameterPolicy = "keep"
)

var (
	ErrUnknownImportPolicy    = errors.New("unknown import policy")
	ErrUnknownModifierPolicy  = errors.New("unknown modifier policy")
	ErrUnknownParameterPolicy = errors.New("unknown parameter policy")
)

type Policy struct {
	Imports    ImportPolicy    `json:"imports" yaml:"imports" mapstructure:"imports"`
	Modifiers  ModifierPolicy  `json:"modifiers" yaml:"modifiers" mapstructure:"modifiers"`
	Parameters ParameterPolicy `json:"parameters" yaml:"parameters" mapstructure:"parameters"`
}

func DefaultPolicy() Policy {
	return Policy{
		Imports:    ImportsAdditive,
		Modifiers:  ModifiersReplace,
		Parameters: ParametersPositional,
	}
}

// Validate reports the first unknown policy value. Empty values are
// accepted and mean the default.
func (p Policy) Validate() error {
	switch p.Imports {
	case "", ImportsAdditive:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownImportPolicy, p.Imports)
	}
	switch p.Modifiers {
	case "", ModifiersReplace, ModifiersKeep:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownModifierPolicy, p.Modifiers)
	}
	switch p.Parameters {
	case "", ParametersPositional, ParametersKeep:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParameterPolicy, p.Parameters)
	}
	return nil
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.Imports == "" {
		p.Imports = d.Imports
	}
	if p.Modifiers == "" {
		p.Modifiers = d.Modifiers
	}
	if p.Parameters == "" {
		p.Parameters = d.Parameters
	}
	return p
}
