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

package wrappers

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/config"
	"dirpx.dev/rwrap/match"
	"dirpx.dev/rwrap/opt"
)

// implicitName names the zero-value constructor every type has.
const implicitName = "new"

// Constructor describes one way to create a value of a type: the implicit
// zero-value constructor or a bound constructor function.
type Constructor[T any] struct {
	owner reflect.Type
	fn    reflect.Value
	sig   match.Signature
	cfg   apis.Config
	ok    bool
}

// ConstructorOf wraps a constructor function returning a T (or *T), with an
// optional trailing error.
func ConstructorOf[T any](fn any) Constructor[T] {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return Constructor[T]{}
	}
	name := "func"
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		name = f.Name()[strings.LastIndexByte(f.Name(), '/')+1:]
	}
	return Constructor[T]{
		owner: reflect.TypeFor[T](),
		fn:    v,
		sig:   match.SignatureOf(name, v.Type(), false),
		cfg:   config.DefaultConfig(),
		ok:    true,
	}
}

func implicitConstructor[T any](owner reflect.Type, cfg apis.Config) Constructor[T] {
	return Constructor[T]{
		owner: owner,
		sig:   match.Signature{Name: implicitName, Out: []reflect.Type{owner}},
		cfg:   cfg,
		ok:    true,
	}
}

func boundConstructor[T any](owner reflect.Type, b apis.Binding, cfg apis.Config) Constructor[T] {
	return Constructor[T]{
		owner: owner,
		fn:    b.Fn,
		sig:   match.SignatureOf(b.Name, b.Fn.Type(), false),
		cfg:   cfg,
		ok:    true,
	}
}

// Invoke creates a value. An absent descriptor yields an absent value and no
// error.
func (c Constructor[T]) Invoke(args ...any) (opt.Value[T], error) {
	if !c.ok {
		return opt.None[T](), nil
	}
	var v reflect.Value
	if c.Implicit() {
		if c.owner.Kind() == reflect.Interface {
			return opt.None[T](), fail("invoke", c, ErrInstantiation, fmt.Errorf("%v is an interface", c.owner))
		}
		if len(args) != 0 {
			return opt.None[T](), fail("invoke", c, ErrInvocation, fmt.Errorf("want 0 arguments, got %d", len(args)))
		}
		v = zeroOf(c.owner)
	} else {
		out, err := call(c.fn, c.sig, nil, args, c.cfg.CoerceArgs)
		if err != nil {
			return opt.None[T](), fail("invoke", c, ErrInvocation, err)
		}
		v = result(out)
	}
	return present[T](v, "invoke", c)
}

// zeroOf returns a usable zero value: allocated for pointers, maps, slices
// and channels.
func zeroOf(t reflect.Type) reflect.Value {
	switch t.Kind() {
	case reflect.Pointer:
		return reflect.New(t.Elem())
	case reflect.Map:
		return reflect.MakeMap(t)
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0)
	case reflect.Chan:
		return reflect.MakeChan(t, 0)
	default:
		return reflect.New(t).Elem()
	}
}

// Implicit reports whether c is the zero-value constructor.
func (c Constructor[T]) Implicit() bool {
	return c.ok && !c.fn.IsValid()
}

// Params returns the parameter types.
func (c Constructor[T]) Params() []reflect.Type {
	return c.sig.In
}

// Signature returns the constructor signature.
func (c Constructor[T]) Signature() match.Signature {
	return c.sig
}

// Get returns the constructor function, invalid for the implicit one.
func (c Constructor[T]) Get() (reflect.Value, bool) {
	return c.fn, c.ok
}

// IsPresent reports whether c describes a constructor.
func (c Constructor[T]) IsPresent() bool {
	return c.ok
}

// Equal reports whether c and other build the same type with the same
// signature. Absent constructors are equal to each other.
func (c Constructor[T]) Equal(other Constructor[T]) bool {
	if !c.ok || !other.ok {
		return c.ok == other.ok
	}
	return c.owner == other.owner &&
		c.Implicit() == other.Implicit() &&
		c.sig.Equal(other.sig)
}

// String implements fmt.Stringer.
func (c Constructor[T]) String() string {
	if !c.ok {
		return "Constructor[absent]"
	}
	return fmt.Sprintf("Constructor[%v %v]", c.owner, c.sig)
}
