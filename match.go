// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"reflect"

	"github.com/stretchr/testify/assert"
)

// Field names of a selector effect. A struct carries the extractor in an
// exported Selector field, a string-keyed map under "selector"; the optional
// Args / "args" sibling holds extra extractor arguments.
const (
	selectorField = "Selector"
	argsField     = "Args"
	selectorKey   = "selector"
	argsKey       = "args"
)

// snapshot is the external state captured alongside a value. Its value is
// nil until [Runner.State] is first called.
type snapshot struct {
	value any
}

// sample is a value paired with the snapshot it is compared under.
type sample struct {
	value any
	state snapshot
}

// equal reports whether a and b match. Two selector effects match when their
// extractors, each applied to its own snapshot, produce deeply equal results;
// everything else is compared structurally.
func equal(a, b sample) bool {
	sa, okA := selectorOf(a.value)
	sb, okB := selectorOf(b.value)
	if okA && okB {
		ra, ok := sa.apply(a.state)
		if !ok {
			return false
		}
		rb, ok := sb.apply(b.state)
		if !ok {
			return false
		}
		return assert.ObjectsAreEqual(ra, rb)
	}
	return assert.ObjectsAreEqual(a.value, b.value)
}

// contains reports whether any of samples matches v.
func contains(samples []sample, v sample) bool {
	for _, s := range samples {
		if equal(s, v) {
			return true
		}
	}
	return false
}

// table is an ordered association keyed by [equal]. The first matching key
// wins.
type table struct {
	keys    []sample
	replies []any
}

func (t *table) add(key sample, reply any) {
	t.keys = append(t.keys, key)
	t.replies = append(t.replies, reply)
}

func (t *table) lookup(v sample) (any, bool) {
	for i, k := range t.keys {
		if equal(k, v) {
			return t.replies[i], true
		}
	}
	return nil, false
}

// selector is an extractor found on a selector-shaped value.
type selector struct {
	fn   reflect.Value
	args []any
}

// selectorOf detects a selector effect structurally: the value itself, or
// one of its direct fields or map entries, carries a Selector function.
func selectorOf(v any) (selector, bool) {
	rv := indirect(reflect.ValueOf(v))
	if s, ok := selectorIn(rv); ok {
		return s, true
	}
	switch rv.Kind() {
	case reflect.Struct:
		t := rv.Type()
		for i := range t.NumField() {
			if !t.Field(i).IsExported() {
				continue
			}
			if s, ok := selectorIn(indirect(rv.Field(i))); ok {
				return s, true
			}
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if s, ok := selectorIn(indirect(iter.Value())); ok {
				return s, true
			}
		}
	}
	return selector{}, false
}

func selectorIn(rv reflect.Value) (selector, bool) {
	var fn, args reflect.Value
	switch rv.Kind() {
	case reflect.Struct:
		fn, args = exportedField(rv, selectorField), exportedField(rv, argsField)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return selector{}, false
		}
		key := rv.Type().Key()
		fn = rv.MapIndex(reflect.ValueOf(selectorKey).Convert(key))
		args = rv.MapIndex(reflect.ValueOf(argsKey).Convert(key))
	default:
		return selector{}, false
	}
	fn = indirect(fn)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return selector{}, false
	}
	ft := fn.Type()
	if ft.IsVariadic() || ft.NumIn() == 0 || ft.NumOut() == 0 {
		return selector{}, false
	}
	s := selector{fn: fn}
	if args = indirect(args); args.IsValid() && (args.Kind() == reflect.Slice || args.Kind() == reflect.Array) {
		for i := range args.Len() {
			s.args = append(s.args, args.Index(i).Interface())
		}
	}
	return s, true
}

// apply calls the extractor with state followed by the selector's args.
// It reports false, without calling, when the arguments do not fit the
// extractor's parameters; an unset state only fits a nilable parameter.
// A panicking extractor propagates.
func (s selector) apply(state snapshot) (any, bool) {
	ft := s.fn.Type()
	params := append([]any{state.value}, s.args...)
	if ft.NumIn() == 1 {
		params = params[:1]
	}
	if len(params) != ft.NumIn() {
		return nil, false
	}
	in := make([]reflect.Value, len(params))
	for i, p := range params {
		v, ok := argument(p, ft.In(i))
		if !ok {
			return nil, false
		}
		in[i] = v
	}
	return s.fn.Call(in)[0].Interface(), true
}

func argument(v any, t reflect.Type) (reflect.Value, bool) {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	return rv, true
}

func exportedField(rv reflect.Value, name string) reflect.Value {
	f, ok := rv.Type().FieldByName(name)
	if !ok || !f.IsExported() {
		return reflect.Value{}
	}
	v, err := rv.FieldByIndexErr(f.Index)
	if err != nil {
		return reflect.Value{}
	}
	return v
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && !rv.IsNil() {
		rv = rv.Elem()
	}
	return rv
}
