/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package policy holds the field mutation policies: small values that
// describe how to change a collection held by a field instead of replacing
// it. The set of policies is closed; Apply dispatches on the concrete type.
//
// Collections are slices (positional) and set-like maps, i.e. maps whose
// element type is struct{} or bool (not positional). Any other shape is
// reported as not applicable.
package policy

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/rwrap/opt"
	uref "dirpx.dev/rwrap/utils/reflect"
)

var (
	// ErrIndex is returned when an insertion index is past the end of a slice.
	ErrIndex = errors.New("rwrap(policy): index out of range")
	// ErrElement is returned when a value cannot be stored in the collection.
	ErrElement = errors.New("rwrap(policy): element type mismatch")
)

// Policy is either an Element or an Elements.
type Policy interface {
	policy()
}

// Element adds a single value. It is inserted at Index, or appended when
// Index is negative or the collection is not positional.
type Element struct {
	Index int
	Value any
}

func (Element) policy() {}

// Elements appends Values in order.
type Elements struct {
	Values []any
}

func (Elements) policy() {}

// Add inserts v at index.
func Add(index int, v any) Policy {
	return Element{Index: index, Value: v}
}

// Append appends v.
func Append(v any) Policy {
	return Element{Index: -1, Value: v}
}

// AddAll appends every value.
func AddAll[E any](values ...E) Policy {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return Elements{Values: out}
}

// AddPresent appends the present values and skips the absent ones.
func AddPresent[E any](values ...opt.Value[E]) Policy {
	out := make([]any, 0, len(values))
	for _, v := range values {
		if e, ok := v.Get(); ok {
			out = append(out, e)
		}
	}
	return Elements{Values: out}
}

// Apply runs p against the collection current. It returns the value to
// store back into the field and whether the collection changed. ok is false
// with a nil error when current is not a collection.
func Apply(p Policy, current reflect.Value) (next reflect.Value, ok bool, err error) {
	c, kind := collection(current)
	if kind == none {
		return reflect.Value{}, false, nil
	}

	switch p := p.(type) {
	case Element:
		if kind == set {
			return addToSet(c, p.Value)
		}
		if p.Index >= 0 {
			return insert(c, p.Index, p.Value)
		}
		return appendAll(c, []any{p.Value})
	case Elements:
		if kind == set {
			changed := false
			for _, v := range p.Values {
				var added bool
				if c, added, err = addToSet(c, v); err != nil {
					return reflect.Value{}, false, err
				}
				changed = changed || added
			}
			return c, changed, nil
		}
		return appendAll(c, p.Values)
	default:
		panic(fmt.Sprintf("rwrap(policy): unknown policy %T", p))
	}
}

type shape uint8

const (
	none shape = iota
	seq
	set
)

// collection unwraps interfaces and classifies v.
func collection(v reflect.Value) (reflect.Value, shape) {
	if !v.IsValid() {
		return v, none
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return v, none
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice:
		return v, seq
	case reflect.Map:
		switch v.Type().Elem().Kind() {
		case reflect.Bool:
			return v, set
		case reflect.Struct:
			if v.Type().Elem().NumField() == 0 {
				return v, set
			}
		}
	}
	return v, none
}

// element converts x to the element type et.
func element(x any, et reflect.Type) (reflect.Value, error) {
	if x == nil {
		switch et.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(et), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil is not a %v", ErrElement, et)
	}
	v := reflect.ValueOf(x)
	if v.Type().AssignableTo(et) {
		return v, nil
	}
	if cv, ok := uref.Coerce(v, et); ok {
		return cv, nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %v is not a %v", ErrElement, v.Type(), et)
}

func insert(s reflect.Value, index int, x any) (reflect.Value, bool, error) {
	if index > s.Len() {
		return reflect.Value{}, false, fmt.Errorf("%w: %d > %d", ErrIndex, index, s.Len())
	}
	ev, err := element(x, s.Type().Elem())
	if err != nil {
		return reflect.Value{}, false, err
	}
	out := reflect.MakeSlice(s.Type(), s.Len()+1, s.Len()+1)
	reflect.Copy(out, s.Slice(0, index))
	out.Index(index).Set(ev)
	reflect.Copy(out.Slice(index+1, out.Len()), s.Slice(index, s.Len()))
	return out, true, nil
}

func appendAll(s reflect.Value, xs []any) (reflect.Value, bool, error) {
	et := s.Type().Elem()
	evs := make([]reflect.Value, len(xs))
	for i, x := range xs {
		ev, err := element(x, et)
		if err != nil {
			return reflect.Value{}, false, err
		}
		evs[i] = ev
	}
	if len(evs) == 0 {
		return s, false, nil
	}
	return reflect.Append(s, evs...), true, nil
}

func addToSet(m reflect.Value, x any) (reflect.Value, bool, error) {
	kv, err := element(x, m.Type().Key())
	if err != nil {
		return reflect.Value{}, false, err
	}
	if m.IsNil() {
		m = reflect.MakeMap(m.Type())
	}
	if m.MapIndex(kv).IsValid() {
		return m, false, nil
	}
	member := reflect.New(m.Type().Elem()).Elem()
	if member.Kind() == reflect.Bool {
		member.SetBool(true)
	}
	m.SetMapIndex(kv, member)
	return m, true, nil
}
