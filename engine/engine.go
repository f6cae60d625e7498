// Package engine tracks per-field validation state over a schema. It owns
// the FormRecord under construction and the FieldState table; renderers
// read states and feed value and blur events, never mutating either
// directly.
package engine

import (
	"fmt"
	"maps"
	"slices"

	signupform "github.com/reoring/signupform"
	"github.com/reoring/signupform/schema"
)

// Validator is the schema contract the engine evaluates against.
type Validator interface {
	Validate(field signupform.FieldName, value string) signupform.Outcome
	Has(field signupform.FieldName) bool
	Fields() []signupform.FieldName
}

// Option configures an Engine.
type Option func(*Engine)

// WithSchema replaces the signup schema.
func WithSchema(v Validator) Option {
	return func(e *Engine) {
		if v != nil {
			e.schema = v
		}
	}
}

// WithDefaults sets the values the record starts from and returns to on
// Reset. Defaults do not make a field dirty.
func WithDefaults(r signupform.FormRecord) Option {
	return func(e *Engine) { e.defaults = r }
}

// Engine is single-session state and is not safe for concurrent use.
type Engine struct {
	schema   Validator
	defaults signupform.FormRecord
	record   signupform.FormRecord
	states   map[signupform.FieldName]*signupform.FieldState
}

// New returns an engine with every field at its default value.
func New(opts ...Option) *Engine {
	e := &Engine{schema: schema.Signup()}
	for _, o := range opts {
		o(e)
	}
	e.Reset()
	return e
}

// Reset restores defaults and clears dirtiness on every field. Fields are
// evaluated silently: Valid reflects the default value but no message is
// surfaced until the field is touched.
func (e *Engine) Reset() {
	e.record = e.defaults
	e.states = make(map[signupform.FieldName]*signupform.FieldState)
	for _, f := range e.schema.Fields() {
		v, _ := e.record.Get(f)
		out := e.schema.Validate(f, v)
		e.states[f] = &signupform.FieldState{Name: f, Value: v, Valid: out.Valid}
	}
}

// SetValue records a user edit: the value is stored, the field becomes
// dirty and its rule is re-run.
func (e *Engine) SetValue(field signupform.FieldName, value string) error {
	st, err := e.state(field)
	if err != nil {
		return err
	}
	e.record.Set(field, value)
	st.Value = value
	e.touch(st)
	return nil
}

// Blur marks a field as interacted with and re-runs its rule without
// changing the value.
func (e *Engine) Blur(field signupform.FieldName) error {
	st, err := e.state(field)
	if err != nil {
		return err
	}
	e.touch(st)
	return nil
}

// TriggerValidation marks every named field dirty and re-runs its rule,
// whether or not its value changed. With no names every field is
// triggered. Unknown names fail the whole batch before anything changes.
func (e *Engine) TriggerValidation(fields ...signupform.FieldName) error {
	if len(fields) == 0 {
		fields = e.schema.Fields()
	}
	batch := make([]*signupform.FieldState, 0, len(fields))
	for _, f := range fields {
		st, err := e.state(f)
		if err != nil {
			return err
		}
		batch = append(batch, st)
	}
	for _, st := range batch {
		e.touch(st)
	}
	return nil
}

// FieldState returns a copy of the state of field.
func (e *Engine) FieldState(field signupform.FieldName) (signupform.FieldState, error) {
	st, err := e.state(field)
	if err != nil {
		return signupform.FieldState{}, err
	}
	return snapshot(st), nil
}

// States returns copies of every field state in schema order.
func (e *Engine) States() []signupform.FieldState {
	out := make([]signupform.FieldState, 0, len(e.states))
	for _, f := range e.schema.Fields() {
		out = append(out, snapshot(e.states[f]))
	}
	return out
}

// Record returns a copy of the record under construction.
func (e *Engine) Record() signupform.FormRecord { return e.record }

// Blocking returns the named fields that are not both dirty and valid, in
// the order given. It does not re-run any rule.
func (e *Engine) Blocking(fields ...signupform.FieldName) ([]signupform.FieldName, error) {
	var out []signupform.FieldName
	for _, f := range fields {
		st, err := e.state(f)
		if err != nil {
			return nil, err
		}
		if !st.Dirty || !st.Valid {
			out = append(out, f)
		}
	}
	return out, nil
}

// Issues collects the issues of every invalid field in schema order.
func (e *Engine) Issues() signupform.Issues {
	var out signupform.Issues
	for _, f := range e.schema.Fields() {
		out = append(out, e.states[f].Issues...)
	}
	return out
}

func (e *Engine) state(field signupform.FieldName) (*signupform.FieldState, error) {
	st, ok := e.states[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", signupform.ErrUnknownField, field)
	}
	return st, nil
}

func (e *Engine) touch(st *signupform.FieldState) {
	st.Dirty = true
	out := e.schema.Validate(st.Name, st.Value)
	st.Valid = out.Valid
	st.Message = out.Message
	st.Issues = out.Issues
}

func snapshot(st *signupform.FieldState) signupform.FieldState {
	cp := *st
	cp.Issues = slices.Clone(st.Issues)
	for i := range cp.Issues {
		cp.Issues[i].Params = maps.Clone(cp.Issues[i].Params)
	}
	return cp
}
