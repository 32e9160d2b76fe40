// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Script is a declarative set of registrations, usually loaded from a YAML
// fixture with [LoadScript]:
//
//	state: {count: 3}
//	expects:
//	  - value: 1
//	    returns: one
//	  - value: ask
//	    throws: denied
//	  - value: {type: DONE}
type Script struct {
	// State, when present, is passed to [Runner.State] before any expectation.
	State *any `yaml:"state,omitempty"`

	// Returns and Throws, when present, set the global overrides.
	Returns *any    `yaml:"returns,omitempty"`
	Throws  *string `yaml:"throws,omitempty"`

	// Expects lists expectations in declaration order.
	Expects []ScriptEntry `yaml:"expects"`
}

// ScriptEntry is one expectation of a [Script]. At most one of Returns and
// Throws may be present; Throws is the failure's message.
type ScriptEntry struct {
	Value   any     `yaml:"value"`
	Returns *any    `yaml:"returns,omitempty"`
	Throws  *string `yaml:"throws,omitempty"`
}

// ScriptError is the failure injected for a scripted throws entry.
type ScriptError struct {
	Message string
}

func (e *ScriptError) Error() string { return e.Message }

// LoadScript decodes a [Script] from r. Unknown fields are rejected, as are
// entries carrying both returns and throws.
func LoadScript(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("saga: failed to parse script: %w", err)
	}
	for i, e := range s.Expects {
		if e.Returns != nil && e.Throws != nil {
			return nil, fmt.Errorf("saga: script entry %d: %w", i, chainedAfter("Returns"))
		}
	}
	return &s, nil
}

// Apply registers the script on r through the builder API, so the same
// lifecycle rules apply: it panics with [ErrAlreadyRun] after Run.
func (s *Script) Apply(r *Runner) {
	if s.State != nil {
		r.State(*s.State)
	}
	if s.Returns != nil {
		r.Returns(*s.Returns)
	}
	if s.Throws != nil {
		r.Throws(&ScriptError{Message: *s.Throws})
	}
	for _, e := range s.Expects {
		exp := r.Expects(e.Value)
		switch {
		case e.Returns != nil:
			exp.Returns(*e.Returns)
		case e.Throws != nil:
			exp.Throws(&ScriptError{Message: *e.Throws})
		}
	}
}
