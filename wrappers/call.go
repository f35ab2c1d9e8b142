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

	"dirpx.dev/rwrap/match"
	"dirpx.dev/rwrap/opt"
	uref "dirpx.dev/rwrap/utils/reflect"
)

// call invokes fn with the receiver values pre followed by args converted to
// sig's parameters. The trailing error result, if sig declares one, is
// returned as err and removed from the results.
func call(fn reflect.Value, sig match.Signature, pre []reflect.Value, args []any, coerce bool) (out []reflect.Value, err error) {
	in, spread, err := arguments(sig, args, coerce)
	if err != nil {
		return nil, err
	}
	in = append(pre, in...)

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	if spread {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}

	if sig.Errors {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			return nil, last.Interface().(error)
		}
	}
	return out, nil
}

// arguments converts args to the parameter types of sig. spread is set when
// the final argument is the variadic slice itself.
func arguments(sig match.Signature, args []any, coerce bool) (in []reflect.Value, spread bool, err error) {
	n := len(sig.In)
	if !sig.Variadic {
		if len(args) != n {
			return nil, false, fmt.Errorf("want %d arguments, got %d", n, len(args))
		}
		in = make([]reflect.Value, n)
		for i, a := range args {
			if in[i], err = argument(a, sig.In[i], coerce); err != nil {
				return nil, false, fmt.Errorf("argument %d: %w", i, err)
			}
		}
		return in, false, nil
	}

	if len(args) < n-1 {
		return nil, false, fmt.Errorf("want at least %d arguments, got %d", n-1, len(args))
	}
	variadic := sig.In[n-1]
	if len(args) == n {
		if last := args[n-1]; last == nil || reflect.TypeOf(last).AssignableTo(variadic) {
			spread = true
		}
	}
	in = make([]reflect.Value, len(args))
	for i, a := range args {
		t := variadic.Elem()
		switch {
		case i < n-1:
			t = sig.In[i]
		case spread:
			t = variadic
		}
		if in[i], err = argument(a, t, coerce); err != nil {
			return nil, false, fmt.Errorf("argument %d: %w", i, err)
		}
	}
	return in, spread, nil
}

// argument converts a to t. nil becomes the zero value of nilable kinds.
func argument(a any, t reflect.Type, coerce bool) (reflect.Value, error) {
	if a == nil {
		if nilable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not a %v", t)
	}
	v := reflect.ValueOf(a)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if coerce {
		if cv, ok := uref.Coerce(v, t); ok {
			return cv, nil
		}
	}
	return reflect.Value{}, fmt.Errorf("%v is not assignable to %v", v.Type(), t)
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}

// result folds the results of a call into a single value: invalid for none,
// the value itself for one, and a []any for several.
func result(out []reflect.Value) reflect.Value {
	switch len(out) {
	case 0:
		return reflect.Value{}
	case 1:
		return out[0]
	default:
		vs := make([]any, len(out))
		for i, v := range out {
			vs[i] = v.Interface()
		}
		return reflect.ValueOf(vs)
	}
}

// castTo converts v to T. A pointer is dereferenced, or a value addressed,
// when that is what makes it fit.
func castTo[T any](v reflect.Value) (T, bool) {
	var zero T
	if !v.IsValid() {
		return zero, true
	}
	target := reflect.TypeFor[T]()
	switch {
	case v.Type().AssignableTo(target):
	case v.Kind() == reflect.Pointer && !v.IsNil() && v.Type().Elem().AssignableTo(target):
		v = v.Elem()
	case reflect.PointerTo(v.Type()).AssignableTo(target):
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		v = p
	default:
		return zero, false
	}
	out := reflect.New(target).Elem()
	out.Set(v)
	got, _ := out.Interface().(T)
	return got, true
}

// present wraps a cast value; nil values collapse to absent.
func present[T any](v reflect.Value, op string, member fmt.Stringer) (o opt.Value[T], err error) {
	if !v.IsValid() {
		return o, nil
	}
	got, ok := castTo[T](v)
	if !ok {
		return o, fail(op, member, ErrCast, fmt.Errorf("%v is not a %v", v.Type(), reflect.TypeFor[T]()))
	}
	o.Set(got)
	return o, nil
}
