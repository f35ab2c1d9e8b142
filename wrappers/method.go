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

	"dirpx.dev/rwrap/apis"
	"dirpx.dev/rwrap/config"
	"dirpx.dev/rwrap/match"
	"dirpx.dev/rwrap/opt"
)

// Method describes a method of a type or a function bound to it. T is the
// requested result type; it is any unless the method was looked up with
// MethodFor or DeclaredMethodFor.
type Method[T any] struct {
	owner  reflect.Type
	sig    match.Signature
	fn     reflect.Value // invalid for interface methods
	recv   reflect.Type  // nil for static functions
	static bool
	ret    reflect.Type
	cfg    apis.Config
	ok     bool
}

// MethodOf wraps m, a method of owner as returned by owner.Method or
// owner.MethodByName.
func MethodOf(owner reflect.Type, m reflect.Method) Method[any] {
	return reflected[any](owner, m, nil, config.DefaultConfig())
}

func reflected[T any](owner reflect.Type, m reflect.Method, ret reflect.Type, cfg apis.Config) Method[T] {
	if owner.Kind() == reflect.Interface {
		return Method[T]{
			owner: owner,
			sig:   match.SignatureOf(m.Name, m.Type, false),
			recv:  owner,
			ret:   ret,
			cfg:   cfg,
			ok:    true,
		}
	}
	return Method[T]{
		owner: owner,
		sig:   match.SignatureOf(m.Name, m.Type, true),
		fn:    m.Func,
		recv:  m.Type.In(0),
		ret:   ret,
		cfg:   cfg,
		ok:    true,
	}
}

func bound[T any](owner reflect.Type, b apis.Binding, ret reflect.Type, cfg apis.Config) Method[T] {
	m := Method[T]{owner: owner, fn: b.Fn, ret: ret, cfg: cfg, ok: true}
	if b.Kind == apis.BindFunc {
		m.sig = match.SignatureOf(b.Name, b.Fn.Type(), false)
		m.static = true
		return m
	}
	m.sig = match.SignatureOf(b.Name, b.Fn.Type(), true)
	m.recv = b.Fn.Type().In(0)
	return m
}

// Invoke calls the method on target with args. Static functions ignore
// target. The result is absent for void methods, the single result
// otherwise, or a []any when the method has several results.
func (m Method[T]) Invoke(target any, args ...any) (opt.Value[any], error) {
	v, err := m.invoke(target, args)
	if err != nil || !v.IsValid() {
		return opt.None[any](), err
	}
	return opt.Of(v.Interface()), nil
}

// InvokeTyped is Invoke with the result converted to T.
func (m Method[T]) InvokeTyped(target any, args ...any) (opt.Value[T], error) {
	v, err := m.invoke(target, args)
	if err != nil {
		return opt.None[T](), err
	}
	return present[T](v, "invoke", m)
}

func (m Method[T]) invoke(target any, args []any) (reflect.Value, error) {
	if !m.ok {
		return reflect.Value{}, nil
	}
	fn, pre := m.fn, []reflect.Value(nil)
	if !m.static {
		rv := reflect.ValueOf(target)
		if !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
			return reflect.Value{}, fail("invoke", m, ErrNilTarget, nil)
		}
		if !fn.IsValid() {
			fn = rv.MethodByName(m.sig.Name)
			if !fn.IsValid() {
				return reflect.Value{}, fail("invoke", m, ErrInvocation, fmt.Errorf("%v has no method %s", rv.Type(), m.sig.Name))
			}
		} else {
			r, ok := receiver(rv, m.recv)
			if !ok {
				return reflect.Value{}, fail("invoke", m, ErrInvocation, fmt.Errorf("%v is not a %v", rv.Type(), m.recv))
			}
			pre = []reflect.Value{r}
		}
	}
	out, err := call(fn, m.sig, pre, args, m.cfg.CoerceArgs)
	if err != nil {
		return reflect.Value{}, fail("invoke", m, ErrInvocation, err)
	}
	return result(out), nil
}

// receiver adapts v to the receiver type t: as is, dereferenced, or through
// the address of a copy for pointer receivers.
func receiver(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	switch {
	case v.Type().AssignableTo(t):
		return v, true
	case v.Kind() == reflect.Pointer && v.Type().Elem().AssignableTo(t):
		return v.Elem(), true
	case reflect.PointerTo(v.Type()).AssignableTo(t):
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		return p, true
	default:
		return reflect.Value{}, false
	}
}

// Name returns the method name.
func (m Method[T]) Name() string { return m.sig.Name }

// Signature returns the signature with the receiver stripped.
func (m Method[T]) Signature() match.Signature { return m.sig }

// ReturnType returns the requested return type, absent when any result was
// accepted.
func (m Method[T]) ReturnType() opt.Value[reflect.Type] {
	return opt.Of(m.ret)
}

// Static reports whether m is a bound function without a receiver.
func (m Method[T]) Static() bool { return m.static }

// Get returns the function backing m. It is invalid for interface methods,
// which are resolved on the target at call time.
func (m Method[T]) Get() (reflect.Value, bool) {
	return m.fn, m.ok
}

// IsPresent reports whether m describes a method.
func (m Method[T]) IsPresent() bool {
	return m.ok
}

// Equal reports whether m and other describe the same member of the same
// owner. Absent methods are equal to each other.
func (m Method[T]) Equal(other Method[T]) bool {
	if !m.ok || !other.ok {
		return m.ok == other.ok
	}
	return m.owner == other.owner &&
		m.static == other.static &&
		m.recv == other.recv &&
		m.sig.Equal(other.sig)
}

// String implements fmt.Stringer.
func (m Method[T]) String() string {
	if !m.ok {
		return "Method[absent]"
	}
	return fmt.Sprintf("Method[%v.%v]", m.owner, m.sig)
}
