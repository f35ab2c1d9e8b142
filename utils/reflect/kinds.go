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

package reflect

import (
	"reflect"
)

// basicTypes maps every basic kind to its predeclared type.
var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Bool:       reflect.TypeFor[bool](),
	reflect.Int:        reflect.TypeFor[int](),
	reflect.Int8:       reflect.TypeFor[int8](),
	reflect.Int16:      reflect.TypeFor[int16](),
	reflect.Int32:      reflect.TypeFor[int32](),
	reflect.Int64:      reflect.TypeFor[int64](),
	reflect.Uint:       reflect.TypeFor[uint](),
	reflect.Uint8:      reflect.TypeFor[uint8](),
	reflect.Uint16:     reflect.TypeFor[uint16](),
	reflect.Uint32:     reflect.TypeFor[uint32](),
	reflect.Uint64:     reflect.TypeFor[uint64](),
	reflect.Uintptr:    reflect.TypeFor[uintptr](),
	reflect.Float32:    reflect.TypeFor[float32](),
	reflect.Float64:    reflect.TypeFor[float64](),
	reflect.Complex64:  reflect.TypeFor[complex64](),
	reflect.Complex128: reflect.TypeFor[complex128](),
	reflect.String:     reflect.TypeFor[string](),
}

// predeclared holds the universe-scope type names, aliases included.
var predeclared = func() map[string]reflect.Type {
	m := make(map[string]reflect.Type, len(basicTypes)+4)
	for _, t := range basicTypes {
		m[t.Name()] = t
	}
	m["byte"] = basicTypes[reflect.Uint8]
	m["rune"] = basicTypes[reflect.Int32]
	m["error"] = reflect.TypeFor[error]()
	m["any"] = reflect.TypeFor[any]()
	return m
}()

// Builtin returns the predeclared type called name.
func Builtin(name string) (reflect.Type, bool) {
	t, ok := predeclared[name]
	return t, ok
}

// Basic returns the predeclared type of kind k, if k is a basic kind.
func Basic(k reflect.Kind) (reflect.Type, bool) {
	t, ok := basicTypes[k]
	return t, ok
}

// IsBasic reports whether t has a basic kind (named basic types included).
func IsBasic(t reflect.Type) bool {
	if t == nil {
		return false
	}
	_, ok := basicTypes[t.Kind()]
	return ok
}

type family uint8

const (
	famNone family = iota
	famBool
	famSigned
	famUnsigned
	famFloat
	famComplex
	famString
)

func familyOf(k reflect.Kind) family {
	switch k {
	case reflect.Bool:
		return famBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return famSigned
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return famUnsigned
	case reflect.Float32, reflect.Float64:
		return famFloat
	case reflect.Complex64, reflect.Complex128:
		return famComplex
	case reflect.String:
		return famString
	default:
		return famNone
	}
}

// Coerce converts v to the basic type to without losing information.
// Allowed: same family (int8 -> int64, a named string -> string), integers to
// floats, and signed/unsigned integers whose value fits the target.
// Floats never narrow to integers and nothing converts to or from string
// except string kinds.
func Coerce(v reflect.Value, to reflect.Type) (reflect.Value, bool) {
	if !v.IsValid() || to == nil || !IsBasic(v.Type()) || !IsBasic(to) {
		return reflect.Value{}, false
	}
	from, dst := familyOf(v.Kind()), familyOf(to.Kind())
	zero := reflect.New(to).Elem()

	switch {
	case from == dst:
		switch from {
		case famSigned:
			if zero.OverflowInt(v.Int()) {
				return reflect.Value{}, false
			}
		case famUnsigned:
			if zero.OverflowUint(v.Uint()) {
				return reflect.Value{}, false
			}
		case famFloat:
			if zero.OverflowFloat(v.Float()) {
				return reflect.Value{}, false
			}
		}
	case from == famSigned && dst == famUnsigned:
		if v.Int() < 0 || zero.OverflowUint(uint64(v.Int())) {
			return reflect.Value{}, false
		}
	case from == famUnsigned && dst == famSigned:
		if v.Uint() > 1<<63-1 || zero.OverflowInt(int64(v.Uint())) {
			return reflect.Value{}, false
		}
	case (from == famSigned || from == famUnsigned) && dst == famFloat:
	default:
		return reflect.Value{}, false
	}
	return v.Convert(to), true
}
