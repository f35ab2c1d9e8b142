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

// Package opt provides Value, a holder of zero or one value.
//
// A Value is present iff it holds a non-nil value: nil interfaces and nil
// pointers, maps, slices, funcs and channels are all absent. There is a
// single absence state; "not found" and "found nil" are not told apart.
package opt

import (
	"fmt"
	"reflect"
)

// Value holds zero or one T. The zero Value is absent.
type Value[T any] struct {
	v  T
	ok bool
}

// Of wraps v; the result is absent if v is nil.
func Of[T any](v T) Value[T] {
	var o Value[T]
	o.Set(v)
	return o
}

// None returns an absent Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the held value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.ok
}

// Value returns the held value, or the zero T when absent.
func (o Value[T]) Value() T {
	return o.v
}

// OrElse returns the held value, or def when absent.
func (o Value[T]) OrElse(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// Set replaces the held value and returns the receiver.
func (o *Value[T]) Set(v T) *Value[T] {
	if isNil(v) {
		var zero T
		o.v, o.ok = zero, false
		return o
	}
	o.v, o.ok = v, true
	return o
}

// IsPresent reports whether a value is held.
func (o Value[T]) IsPresent() bool {
	return o.ok
}

// Equal compares the held values structurally.
func (o Value[T]) Equal(other Value[T]) bool {
	if o.ok != other.ok {
		return false
	}
	return !o.ok || reflect.DeepEqual(o.v, other.v)
}

// String implements fmt.Stringer.
func (o Value[T]) String() string {
	if !o.ok {
		return "Value[absent]"
	}
	return fmt.Sprintf("Value[%v]", o.v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
