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

// Package match holds the pure comparison rules used to pick a member by
// name and signature.
//
// Parameter lists match positionally when every requested type is
// assignable to the declared one: a method taking io.Reader is found when
// *bytes.Buffer is requested, not the other way around. Return types match
// when the declared result is assignable to the requested type; no requested
// type matches anything, void included.
package match

import (
	"errors"
	"reflect"
	"slices"
	"strings"
)

// ErrNilType is the panic value for a nil requested parameter type.
var ErrNilType = errors.New("rwrap(match): nil requested parameter type")

var errorType = reflect.TypeFor[error]()

// Signature describes a callable member with its receiver stripped.
type Signature struct {
	// Name is the member name.
	Name string
	// In are the parameter types.
	In []reflect.Type
	// Out are the results, the trailing error excluded.
	Out []reflect.Type
	// Errors is set when the last result is an error.
	Errors bool
	// Variadic is set when the last parameter is variadic.
	Variadic bool
}

// SignatureOf builds a Signature for function type fn. If receiver is set,
// the first parameter of fn is the receiver and is not part of In.
func SignatureOf(name string, fn reflect.Type, receiver bool) Signature {
	s := Signature{Name: name, Variadic: fn.IsVariadic()}
	for i := 0; i < fn.NumIn(); i++ {
		if receiver && i == 0 {
			continue
		}
		s.In = append(s.In, fn.In(i))
	}
	n := fn.NumOut()
	if n > 0 && fn.Out(n-1) == errorType {
		s.Errors = true
		n--
	}
	for i := 0; i < n; i++ {
		s.Out = append(s.Out, fn.Out(i))
	}
	return s
}

// Returns is the single result type, or nil for void and multi-result
// signatures.
func (s Signature) Returns() reflect.Type {
	if len(s.Out) != 1 {
		return nil
	}
	return s.Out[0]
}

// Equal reports whether s and o have the same name, parameters and results.
func (s Signature) Equal(o Signature) bool {
	return s.Name == o.Name &&
		s.Errors == o.Errors &&
		s.Variadic == o.Variadic &&
		slices.Equal(s.In, o.In) &&
		slices.Equal(s.Out, o.Out)
}

// String renders s as a Go func signature without the func keyword.
func (s Signature) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, t := range s.In {
		if i > 0 {
			b.WriteString(", ")
		}
		if s.Variadic && i == len(s.In)-1 {
			b.WriteString("...")
			b.WriteString(t.Elem().String())
			continue
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')

	outs := make([]string, 0, len(s.Out)+1)
	for _, t := range s.Out {
		outs = append(outs, t.String())
	}
	if s.Errors {
		outs = append(outs, "error")
	}
	switch len(outs) {
	case 0:
	case 1:
		b.WriteString(" " + outs[0])
	default:
		b.WriteString(" (" + strings.Join(outs, ", ") + ")")
	}
	return b.String()
}

// Parameters reports whether requested matches declared positionally:
// same length and requested[i] assignable to declared[i].
func Parameters(declared, requested []reflect.Type) bool {
	return params(declared, requested, func(req, decl reflect.Type) bool {
		return req.AssignableTo(decl)
	})
}

// ParametersExact is Parameters with type identity instead of assignability.
func ParametersExact(declared, requested []reflect.Type) bool {
	return params(declared, requested, func(req, decl reflect.Type) bool {
		return req == decl
	})
}

func params(declared, requested []reflect.Type, ok func(req, decl reflect.Type) bool) bool {
	for _, r := range requested {
		if r == nil {
			panic(ErrNilType)
		}
	}
	if len(declared) != len(requested) {
		return false
	}
	for i := range declared {
		if !ok(requested[i], declared[i]) {
			return false
		}
	}
	return true
}

// Return reports whether a member declaring result type declared (nil for
// void) satisfies the requested return type.
func Return(requested, declared reflect.Type) bool {
	if requested == nil {
		return true
	}
	return declared != nil && declared.AssignableTo(requested)
}

// Method reports whether sig is named name, takes params and returns ret.
// strict selects ParametersExact.
func Method(sig Signature, ret reflect.Type, name string, params []reflect.Type, strict bool) bool {
	if sig.Name != name {
		return false
	}
	if !Return(ret, sig.Returns()) {
		return false
	}
	if strict {
		return ParametersExact(sig.In, params)
	}
	return Parameters(sig.In, params)
}

// Field reports whether f is named name and, when typ is not nil, holds
// values assignable to typ.
func Field(f reflect.StructField, typ reflect.Type, name string) bool {
	if f.Name != name {
		return false
	}
	return typ == nil || f.Type.AssignableTo(typ)
}
